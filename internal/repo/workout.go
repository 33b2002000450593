package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/workout_tracker/internal/models"
)

func (r *GormRepo) CreateWorkout(ctx context.Context, w *models.Workout) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines := w.Exercises
		if err := tx.Omit(clause.Associations).Create(w).Error; err != nil {
			return err
		}
		if err := insertLines(tx, w.ID, lines); err != nil {
			return err
		}
		w.Exercises = lines
		return nil
	})
}

// GetWorkoutByID loads a workout with its exercise lines. Soft-deleted workouts
// are returned only when withDeleted is set.
func (r *GormRepo) GetWorkoutByID(ctx context.Context, id uuid.UUID, withDeleted bool) (*models.Workout, error) {
	q := r.DB.WithContext(ctx).
		Preload("Exercises", func(db *gorm.DB) *gorm.DB { return db.Order("workout_exercises.id") }).
		Preload("Exercises.Exercise").
		Where("id = ?", id)
	if !withDeleted {
		q = q.Where("state = ?", models.WorkoutActive)
	}

	var w models.Workout
	if err := q.First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// ReplaceWorkout overwrites the editable fields of an active workout and
// replaces all of its exercise lines.
func (r *GormRepo) ReplaceWorkout(ctx context.Context, w *models.Workout) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Workout{}).
			Where("id = ? AND state = ?", w.ID, models.WorkoutActive).
			Updates(map[string]any{
				"name":            w.Name,
				"comment":         w.Comment,
				"last_updated_at": w.LastUpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("workout_id = ?", w.ID).Delete(&models.WorkoutExercise{}).Error; err != nil {
			return err
		}
		return insertLines(tx, w.ID, w.Exercises)
	})
}

func insertLines(tx *gorm.DB, workoutID uuid.UUID, lines []models.WorkoutExercise) error {
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].WorkoutID = workoutID
		lines[i].ID = uuid.Nil
	}
	return tx.Omit(clause.Associations).Create(&lines).Error
}

// SoftDeleteWorkout marks an active workout as deleted. Deleting an already
// deleted workout affects no rows and is not an error.
func (r *GormRepo) SoftDeleteWorkout(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&models.Workout{}).
		Where("id = ? AND state = ?", id, models.WorkoutActive).
		Updates(map[string]any{
			"state":      models.WorkoutDeleted,
			"deleted_at": at,
		}).Error
}

func (r *GormRepo) CreateSchedule(ctx context.Context, s *models.WorkoutSchedule) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(s).Error
}

func (r *GormRepo) ownedActiveWorkouts(db *gorm.DB, userID uuid.UUID) *gorm.DB {
	return db.Model(&models.Workout{}).
		Select("id").
		Where("owner_id = ? AND state = ?", userID, models.WorkoutActive)
}

// UpcomingSchedules returns pending schedules at or after now for the user's
// active workouts, earliest first.
func (r *GormRepo) UpcomingSchedules(ctx context.Context, userID uuid.UUID, now time.Time) ([]models.WorkoutSchedule, error) {
	db := r.DB.WithContext(ctx)

	var out []models.WorkoutSchedule
	err := db.
		Preload("Workout").
		Preload("Workout.Exercises").
		Preload("Workout.Exercises.Exercise").
		Where("workout_id IN (?)", r.ownedActiveWorkouts(db, userID)).
		Where("scheduled_date >= ? AND status = ?", now, models.StatusPending).
		Order("scheduled_date ASC").
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CompletedWorkouts returns the user's active workouts that have at least one
// Completed schedule, newest first.
func (r *GormRepo) CompletedWorkouts(ctx context.Context, userID uuid.UUID) ([]models.Workout, error) {
	db := r.DB.WithContext(ctx)
	completed := db.Model(&models.WorkoutSchedule{}).
		Select("workout_id").
		Where("status = ?", models.StatusCompleted)

	var out []models.Workout
	err := db.
		Preload("Exercises").
		Preload("Exercises.Exercise").
		Where("owner_id = ? AND state = ?", userID, models.WorkoutActive).
		Where("id IN (?)", completed).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateScheduleStatus overwrites the status of a schedule that belongs to one
// of the user's active workouts. It reports false when no such schedule exists.
func (r *GormRepo) UpdateScheduleStatus(ctx context.Context, scheduleID, userID uuid.UUID, status string) (bool, error) {
	db := r.DB.WithContext(ctx)
	res := db.Model(&models.WorkoutSchedule{}).
		Where("id = ? AND workout_id IN (?)", scheduleID, r.ownedActiveWorkouts(db, userID)).
		Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
