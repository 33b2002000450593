package migrations

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/Skotchmaster/workout_tracker/internal/models"
	"github.com/Skotchmaster/workout_tracker/pkg/db"
)

//go:embed sql/*.sql
var sqlFiles embed.FS

// Apply brings the schema up to date. Postgres is migrated with the embedded goose
// files, sqlite (local runs and tests) with AutoMigrate. Exercise reference data
// is seeded afterwards in both cases.
func Apply(ctx context.Context, gdb *gorm.DB, dialect db.Dialect) error {
	switch dialect {
	case db.SQLite:
		if err := AutoMigrate(gdb.WithContext(ctx)); err != nil {
			return err
		}
	default:
		sqlDB, err := gdb.DB()
		if err != nil {
			return fmt.Errorf("get sql.DB: %w", err)
		}
		goose.SetBaseFS(sqlFiles)
		if err := goose.SetDialect("postgres"); err != nil {
			return err
		}
		if err := goose.UpContext(ctx, sqlDB, "sql"); err != nil {
			return fmt.Errorf("goose up: %w", err)
		}
	}

	return SeedExercises(ctx, gdb)
}

func AutoMigrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.Account{},
		&models.Exercise{},
		&models.Workout{},
		&models.WorkoutExercise{},
		&models.WorkoutSchedule{},
	)
}
