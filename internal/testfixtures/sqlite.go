package testfixtures

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/workout_tracker/internal/migrations"
	"github.com/Skotchmaster/workout_tracker/internal/models"
	"github.com/Skotchmaster/workout_tracker/pkg/db"
)

// OpenSQLite returns a migrated and seeded in-memory database private to t.
func OpenSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := migrations.Apply(context.Background(), gdb, db.SQLite); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return gdb
}

// Exercises returns the seeded catalog ordered by name.
func Exercises(t *testing.T, gdb *gorm.DB) []models.Exercise {
	t.Helper()

	var out []models.Exercise
	if err := gdb.Order("name ASC").Find(&out).Error; err != nil {
		t.Fatalf("load exercises: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("exercise catalog is empty")
	}
	return out
}

// Schedule reads a schedule row as stored.
func Schedule(t *testing.T, gdb *gorm.DB, id uuid.UUID) models.WorkoutSchedule {
	t.Helper()

	var s models.WorkoutSchedule
	if err := gdb.Where("id = ?", id).First(&s).Error; err != nil {
		t.Fatalf("load schedule %s: %v", id, err)
	}
	return s
}
