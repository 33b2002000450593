package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/workout_tracker/internal/models"
	"github.com/Skotchmaster/workout_tracker/pkg/logging"
)

type WorkoutStore interface {
	CreateWorkout(ctx context.Context, w *models.Workout) error
	GetWorkoutByID(ctx context.Context, id uuid.UUID, withDeleted bool) (*models.Workout, error)
	ReplaceWorkout(ctx context.Context, w *models.Workout) error
	SoftDeleteWorkout(ctx context.Context, id uuid.UUID, at time.Time) error
	CreateSchedule(ctx context.Context, s *models.WorkoutSchedule) error
	UpcomingSchedules(ctx context.Context, userID uuid.UUID, now time.Time) ([]models.WorkoutSchedule, error)
	CompletedWorkouts(ctx context.Context, userID uuid.UUID) ([]models.Workout, error)
	UpdateScheduleStatus(ctx context.Context, scheduleID, userID uuid.UUID, status string) (bool, error)
	AllExercises(ctx context.Context) ([]models.Exercise, error)
	ExercisesExist(ctx context.Context, ids []uuid.UUID) (bool, error)
	SearchExercisesByName(ctx context.Context, q string, offset, limit int) (int64, []models.Exercise, error)
}

type WorkoutService struct {
	Repo   WorkoutStore
	Search ExerciseSearcher
	Now    func() time.Time
}

type ExerciseLineInput struct {
	ExerciseID  uuid.UUID
	Sets        *int
	Repetitions *int
	Weight      *float64
}

type WorkoutInput struct {
	Name      string
	Comment   *string
	Exercises []ExerciseLineInput
}

// ScheduledWorkout is a new schedule plus the workout's exercise lines at the
// moment it was scheduled.
type ScheduledWorkout struct {
	Schedule  models.WorkoutSchedule   `json:"schedule"`
	Exercises []models.WorkoutExercise `json:"exercises"`
}

type ReportLine struct {
	ExerciseID   uuid.UUID `json:"exercise_id"`
	ExerciseName string    `json:"exercise_name"`
	Category     string    `json:"category"`
	Sets         int       `json:"sets"`
	Repetitions  int       `json:"repetitions"`
	Weight       float64   `json:"weight"`
}

type WorkoutReport struct {
	WorkoutID     uuid.UUID    `json:"workout_id"`
	Name          string       `json:"name"`
	Comment       *string      `json:"comment,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	LastUpdatedAt *time.Time   `json:"last_updated_at,omitempty"`
	Exercises     []ReportLine `json:"exercises"`
}

func (s *WorkoutService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func validateWorkoutInput(in WorkoutInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return validationf("workout name is required")
	}
	for i, line := range in.Exercises {
		if line.ExerciseID == uuid.Nil {
			return validationf("exercise %d: exercise id is required", i)
		}
		if line.Sets != nil && *line.Sets < 0 {
			return validationf("exercise %d: sets must not be negative", i)
		}
		if line.Repetitions != nil && *line.Repetitions < 0 {
			return validationf("exercise %d: repetitions must not be negative", i)
		}
		if line.Weight != nil && *line.Weight < 0 {
			return validationf("exercise %d: weight must not be negative", i)
		}
	}
	return nil
}

func (s *WorkoutService) checkExercises(ctx context.Context, in WorkoutInput) error {
	ids := make([]uuid.UUID, 0, len(in.Exercises))
	for _, line := range in.Exercises {
		ids = append(ids, line.ExerciseID)
	}
	ok, err := s.Repo.ExercisesExist(ctx, ids)
	if err != nil {
		return err
	}
	if !ok {
		return validationf("unknown exercise")
	}
	return nil
}

// buildLines copies the input lines, storing absent numbers as zero.
func buildLines(in []ExerciseLineInput) []models.WorkoutExercise {
	lines := make([]models.WorkoutExercise, 0, len(in))
	for _, line := range in {
		we := models.WorkoutExercise{ExerciseID: line.ExerciseID}
		if line.Sets != nil {
			we.Sets = *line.Sets
		}
		if line.Repetitions != nil {
			we.Repetitions = *line.Repetitions
		}
		if line.Weight != nil {
			we.Weight = *line.Weight
		}
		lines = append(lines, we)
	}
	return lines
}

func trimmedComment(c *string) *string {
	if c == nil {
		return nil
	}
	v := strings.TrimSpace(*c)
	if v == "" {
		return nil
	}
	return &v
}

func (s *WorkoutService) CreateWorkout(ctx context.Context, ownerID uuid.UUID, in WorkoutInput) (*models.Workout, error) {
	l := logging.FromContext(ctx).With("svc", "workout.create")

	if err := validateWorkoutInput(in); err != nil {
		return nil, err
	}
	if err := s.checkExercises(ctx, in); err != nil {
		if !errors.Is(err, ErrValidation) {
			l.Error("create_workout_error", "status", 500, "error", err)
		}
		return nil, err
	}

	w := &models.Workout{
		OwnerID:   ownerID,
		Name:      strings.TrimSpace(in.Name),
		Comment:   trimmedComment(in.Comment),
		State:     models.WorkoutActive,
		CreatedAt: s.now(),
		Exercises: buildLines(in.Exercises),
	}
	if err := s.Repo.CreateWorkout(ctx, w); err != nil {
		l.Error("create_workout_error", "status", 500, "error", err)
		return nil, err
	}

	l.Info("workout_created", "workout_id", w.ID)
	return w, nil
}

// loadOwned returns ErrNotFound for a missing workout and ErrUnauthorized when
// requesterID is not the owner.
func (s *WorkoutService) loadOwned(ctx context.Context, requesterID, workoutID uuid.UUID, withDeleted bool) (*models.Workout, error) {
	w, err := s.Repo.GetWorkoutByID(ctx, workoutID, withDeleted)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if w.OwnerID != requesterID {
		return nil, ErrUnauthorized
	}
	return w, nil
}

func (s *WorkoutService) GetWorkout(ctx context.Context, requesterID, workoutID uuid.UUID) (*models.Workout, error) {
	w, err := s.loadOwned(ctx, requesterID, workoutID, false)
	if err != nil {
		logFailure(logging.FromContext(ctx).With("svc", "workout.get"), "get_workout", err)
		return nil, err
	}
	return w, nil
}

func (s *WorkoutService) UpdateWorkout(ctx context.Context, requesterID, workoutID uuid.UUID, in WorkoutInput) (*models.Workout, error) {
	l := logging.FromContext(ctx).With("svc", "workout.update", "workout_id", workoutID)

	if err := validateWorkoutInput(in); err != nil {
		return nil, err
	}
	w, err := s.loadOwned(ctx, requesterID, workoutID, false)
	if err != nil {
		logFailure(l, "update_workout", err)
		return nil, err
	}
	if err := s.checkExercises(ctx, in); err != nil {
		logFailure(l, "update_workout", err)
		return nil, err
	}

	now := s.now()
	w.Name = strings.TrimSpace(in.Name)
	w.Comment = trimmedComment(in.Comment)
	w.LastUpdatedAt = &now
	w.Exercises = buildLines(in.Exercises)

	if err := s.Repo.ReplaceWorkout(ctx, w); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// deleted between load and replace
			return nil, ErrNotFound
		}
		l.Error("update_workout_error", "status", 500, "error", err)
		return nil, err
	}

	l.Info("workout_updated")
	return w, nil
}

// DeleteWorkout soft-deletes a workout. Deleting an already deleted workout is a no-op.
func (s *WorkoutService) DeleteWorkout(ctx context.Context, requesterID, workoutID uuid.UUID) error {
	l := logging.FromContext(ctx).With("svc", "workout.delete", "workout_id", workoutID)

	w, err := s.loadOwned(ctx, requesterID, workoutID, true)
	if err != nil {
		logFailure(l, "delete_workout", err)
		return err
	}
	if w.IsDeleted() {
		return nil
	}

	if err := s.Repo.SoftDeleteWorkout(ctx, workoutID, s.now()); err != nil {
		l.Error("delete_workout_error", "status", 500, "error", err)
		return err
	}

	l.Info("workout_deleted")
	return nil
}

func (s *WorkoutService) ScheduleWorkout(ctx context.Context, requesterID, workoutID uuid.UUID, at time.Time) (*ScheduledWorkout, error) {
	l := logging.FromContext(ctx).With("svc", "workout.schedule", "workout_id", workoutID)

	if at.IsZero() {
		return nil, validationf("scheduled date is required")
	}
	w, err := s.loadOwned(ctx, requesterID, workoutID, false)
	if err != nil {
		logFailure(l, "schedule_workout", err)
		return nil, err
	}

	sched := &models.WorkoutSchedule{
		WorkoutID:     w.ID,
		ScheduledDate: at.UTC(),
		Status:        models.StatusPending,
	}
	if err := s.Repo.CreateSchedule(ctx, sched); err != nil {
		l.Error("schedule_workout_error", "status", 500, "error", err)
		return nil, err
	}

	snapshot := make([]models.WorkoutExercise, len(w.Exercises))
	copy(snapshot, w.Exercises)

	l.Info("workout_scheduled", "schedule_id", sched.ID)
	return &ScheduledWorkout{Schedule: *sched, Exercises: snapshot}, nil
}

func (s *WorkoutService) ListUpcomingSchedules(ctx context.Context, userID uuid.UUID) ([]models.WorkoutSchedule, error) {
	out, err := s.Repo.UpcomingSchedules(ctx, userID, s.now())
	if err != nil {
		logging.FromContext(ctx).Error("list_upcoming_error", "svc", "workout.upcoming", "status", 500, "error", err)
		return nil, err
	}
	return out, nil
}

// UpdateScheduleStatus accepts any non-blank status. There is no transition table.
func (s *WorkoutService) UpdateScheduleStatus(ctx context.Context, requesterID, scheduleID uuid.UUID, status string) error {
	l := logging.FromContext(ctx).With("svc", "workout.schedule_status", "schedule_id", scheduleID)

	status = strings.TrimSpace(status)
	if status == "" {
		return validationf("status is required")
	}

	ok, err := s.Repo.UpdateScheduleStatus(ctx, scheduleID, requesterID, status)
	if err != nil {
		l.Error("update_status_error", "status", 500, "error", err)
		return err
	}
	if !ok {
		l.Warn("update_status_failed", "status", 404, "reason", "schedule not found")
		return ErrNotFound
	}

	l.Info("schedule_status_updated", "new_status", status)
	return nil
}

func (s *WorkoutService) GenerateCompletedReport(ctx context.Context, userID uuid.UUID) ([]WorkoutReport, error) {
	workouts, err := s.Repo.CompletedWorkouts(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("report_error", "svc", "workout.report", "status", 500, "error", err)
		return nil, err
	}

	out := make([]WorkoutReport, 0, len(workouts))
	for _, w := range workouts {
		r := WorkoutReport{
			WorkoutID:     w.ID,
			Name:          w.Name,
			Comment:       w.Comment,
			CreatedAt:     w.CreatedAt,
			LastUpdatedAt: w.LastUpdatedAt,
			Exercises:     make([]ReportLine, 0, len(w.Exercises)),
		}
		for _, line := range w.Exercises {
			rl := ReportLine{
				ExerciseID:  line.ExerciseID,
				Sets:        line.Sets,
				Repetitions: line.Repetitions,
				Weight:      line.Weight,
			}
			if line.Exercise != nil {
				rl.ExerciseName = line.Exercise.Name
				rl.Category = line.Exercise.Category
			}
			r.Exercises = append(r.Exercises, rl)
		}
		out = append(out, r)
	}
	return out, nil
}

func logFailure(l *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		l.Warn(op+"_failed", "status", 404, "reason", "workout not found")
	case errors.Is(err, ErrUnauthorized):
		l.Warn(op+"_failed", "status", 401, "reason", "not the owner")
	case errors.Is(err, ErrValidation):
		l.Warn(op+"_failed", "status", 400, "error", err)
	default:
		l.Error(op+"_error", "status", 500, "error", err)
	}
}
