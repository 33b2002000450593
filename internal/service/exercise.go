package service

import (
	"context"
	"strings"

	"github.com/Skotchmaster/workout_tracker/internal/models"
	"github.com/Skotchmaster/workout_tracker/internal/util"
	"github.com/Skotchmaster/workout_tracker/pkg/logging"
)

type ExerciseSearcher interface {
	Search(ctx context.Context, query string, from, size int) (int64, []models.Exercise, error)
}

type ExercisePage struct {
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Size  int               `json:"size"`
	Items []models.Exercise `json:"items"`
}

func (s *WorkoutService) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	out, err := s.Repo.AllExercises(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("list_exercises_error", "svc", "exercise.list", "status", 500, "error", err)
		return nil, err
	}
	return out, nil
}

// SearchExercises queries the search index when one is configured and falls back
// to a name match in the database when it is not or when it fails.
func (s *WorkoutService) SearchExercises(ctx context.Context, query string, page, size int) (*ExercisePage, error) {
	l := logging.FromContext(ctx).With("svc", "exercise.search")

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validationf("search query is required")
	}
	offset, limit := util.Paginate(page, size)
	if page < 1 {
		page = 1
	}

	if s.Search != nil {
		total, items, err := s.Search.Search(ctx, query, offset, limit)
		if err == nil {
			return &ExercisePage{Total: total, Page: page, Size: limit, Items: items}, nil
		}
		l.Warn("search_index_unavailable", "error", err)
	}

	total, items, err := s.Repo.SearchExercisesByName(ctx, query, offset, limit)
	if err != nil {
		l.Error("search_error", "status", 500, "error", err)
		return nil, err
	}
	return &ExercisePage{Total: total, Page: page, Size: limit, Items: items}, nil
}
