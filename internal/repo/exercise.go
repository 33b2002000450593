package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/workout_tracker/internal/models"
)

func (r *GormRepo) AllExercises(ctx context.Context) ([]models.Exercise, error) {
	var out []models.Exercise
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ExercisesExist reports whether every id refers to a known exercise.
func (r *GormRepo) ExercisesExist(ctx context.Context, ids []uuid.UUID) (bool, error) {
	uniq := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		uniq[id] = struct{}{}
	}
	if len(uniq) == 0 {
		return true, nil
	}
	keys := make([]uuid.UUID, 0, len(uniq))
	for id := range uniq {
		keys = append(keys, id)
	}

	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Exercise{}).
		Where("id IN ?", keys).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count == int64(len(keys)), nil
}

// SearchExercisesByName is the database fallback for exercise search.
func (r *GormRepo) SearchExercisesByName(ctx context.Context, q string, offset, limit int) (int64, []models.Exercise, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	base := r.DB.WithContext(ctx).Model(&models.Exercise{}).
		Where("LOWER(name) LIKE ? OR LOWER(category) LIKE ?", pattern, pattern).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var out []models.Exercise
	if err := base.Order("name ASC").Offset(offset).Limit(limit).Find(&out).Error; err != nil {
		return 0, nil, err
	}
	return total, out, nil
}
