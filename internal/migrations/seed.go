package migrations

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/workout_tracker/internal/models"
)

type seedExercise struct {
	name, category, description string
}

var defaultExercises = []seedExercise{
	{"Bench Press", "Strength", "Barbell press lying on a flat bench"},
	{"Squat", "Strength", "Barbell back squat"},
	{"Deadlift", "Strength", "Conventional barbell deadlift"},
	{"Overhead Press", "Strength", "Standing barbell shoulder press"},
	{"Pull Up", "Strength", "Bodyweight pull up, overhand grip"},
	{"Barbell Row", "Strength", "Bent-over barbell row"},
	{"Lunge", "Strength", "Walking dumbbell lunge"},
	{"Plank", "Core", "Front plank hold"},
	{"Crunch", "Core", "Floor crunch"},
	{"Running", "Cardio", "Outdoor or treadmill run"},
	{"Cycling", "Cardio", "Stationary or road cycling"},
	{"Rowing", "Cardio", "Rowing machine"},
	{"Jump Rope", "Cardio", "Skipping rope intervals"},
	{"Hamstring Stretch", "Flexibility", "Seated hamstring stretch"},
	{"Yoga Flow", "Flexibility", "Sun salutation sequence"},
}

// SeedExercises inserts the default exercise catalog when the table is empty.
func SeedExercises(ctx context.Context, gdb *gorm.DB) error {
	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Exercise{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		rows := make([]models.Exercise, 0, len(defaultExercises))
		for _, e := range defaultExercises {
			desc := e.description
			rows = append(rows, models.Exercise{
				Name:        e.name,
				Category:    e.category,
				Description: &desc,
				CreatedAt:   now,
			})
		}
		return tx.Create(&rows).Error
	})
}
