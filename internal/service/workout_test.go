package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/workout_tracker/internal/models"
	"github.com/Skotchmaster/workout_tracker/internal/testfixtures"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func sampleInput(env *testEnv) WorkoutInput {
	return WorkoutInput{
		Name:    "Push day",
		Comment: strPtr("chest focus"),
		Exercises: []ExerciseLineInput{
			{ExerciseID: env.Exercises[0].ID, Sets: intPtr(3), Repetitions: intPtr(10), Weight: floatPtr(60)},
			{ExerciseID: env.Exercises[1].ID},
		},
	}
}

func TestWorkoutService_CreateAndGet(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	w, err := env.Workouts.CreateWorkout(ctx, owner, sampleInput(env))
	require.NoError(t, err)
	assert.Equal(t, owner, w.OwnerID)
	assert.Equal(t, env.Clock.Now(), w.CreatedAt)
	assert.False(t, w.IsDeleted())

	got, err := env.Workouts.GetWorkout(ctx, owner, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Push day", got.Name)
	require.NotNil(t, got.Comment)
	assert.Equal(t, "chest focus", *got.Comment)
	require.Len(t, got.Exercises, 2)

	byExercise := map[uuid.UUID]models.WorkoutExercise{}
	for _, line := range got.Exercises {
		byExercise[line.ExerciseID] = line
	}
	first := byExercise[env.Exercises[0].ID]
	assert.Equal(t, 3, first.Sets)
	assert.Equal(t, 10, first.Repetitions)
	assert.Equal(t, 60.0, first.Weight)

	defaults := byExercise[env.Exercises[1].ID]
	assert.Zero(t, defaults.Sets)
	assert.Zero(t, defaults.Repetitions)
	assert.Zero(t, defaults.Weight)

	_, err = env.Workouts.GetWorkout(ctx, uuid.New(), w.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestWorkoutService_Create_Validation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   WorkoutInput
	}{
		{name: "blank name", in: WorkoutInput{Name: "  "}},
		{name: "nil exercise id", in: WorkoutInput{Name: "x", Exercises: []ExerciseLineInput{{}}}},
		{name: "negative sets", in: WorkoutInput{Name: "x", Exercises: []ExerciseLineInput{{ExerciseID: env.Exercises[0].ID, Sets: intPtr(-1)}}}},
		{name: "unknown exercise", in: WorkoutInput{Name: "x", Exercises: []ExerciseLineInput{{ExerciseID: uuid.New()}}}},
	}

	for _, tt := range tests {
		_, err := env.Workouts.CreateWorkout(ctx, uuid.New(), tt.in)
		assert.ErrorIs(t, err, ErrValidation, tt.name)
	}
}

func TestWorkoutService_Update(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	w, err := env.Workouts.CreateWorkout(ctx, owner, sampleInput(env))
	require.NoError(t, err)
	created := w.CreatedAt

	env.Clock.Advance(time.Hour)
	in := WorkoutInput{
		Name:      "Push day v2",
		Exercises: []ExerciseLineInput{{ExerciseID: env.Exercises[2].ID, Sets: intPtr(5)}},
	}

	_, err = env.Workouts.UpdateWorkout(ctx, uuid.New(), w.ID, in)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = env.Workouts.UpdateWorkout(ctx, owner, uuid.New(), in)
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := env.Workouts.UpdateWorkout(ctx, owner, w.ID, in)
	require.NoError(t, err)
	require.NotNil(t, updated.LastUpdatedAt)
	assert.Equal(t, env.Clock.Now(), *updated.LastUpdatedAt)

	got, err := env.Workouts.GetWorkout(ctx, owner, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Push day v2", got.Name)
	assert.Nil(t, got.Comment)
	assert.True(t, got.CreatedAt.Equal(created))
	require.Len(t, got.Exercises, 1)
	assert.Equal(t, env.Exercises[2].ID, got.Exercises[0].ExerciseID)
	assert.Equal(t, 5, got.Exercises[0].Sets)
}

func TestWorkoutService_Delete(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	w, err := env.Workouts.CreateWorkout(ctx, owner, sampleInput(env))
	require.NoError(t, err)

	assert.ErrorIs(t, env.Workouts.DeleteWorkout(ctx, uuid.New(), w.ID), ErrUnauthorized)
	assert.ErrorIs(t, env.Workouts.DeleteWorkout(ctx, owner, uuid.New()), ErrNotFound)

	require.NoError(t, env.Workouts.DeleteWorkout(ctx, owner, w.ID))
	require.NoError(t, env.Workouts.DeleteWorkout(ctx, owner, w.ID), "second delete is a no-op")

	_, err = env.Workouts.GetWorkout(ctx, owner, w.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.Workouts.UpdateWorkout(ctx, owner, w.ID, sampleInput(env))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.Workouts.ScheduleWorkout(ctx, owner, w.ID, env.Clock.Now().Add(time.Hour))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkoutService_Schedule(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	w, err := env.Workouts.CreateWorkout(ctx, owner, sampleInput(env))
	require.NoError(t, err)

	_, err = env.Workouts.ScheduleWorkout(ctx, owner, w.ID, time.Time{})
	assert.ErrorIs(t, err, ErrValidation)

	at := env.Clock.Now().Add(24 * time.Hour)
	_, err = env.Workouts.ScheduleWorkout(ctx, uuid.New(), w.ID, at)
	assert.ErrorIs(t, err, ErrUnauthorized)

	sched, err := env.Workouts.ScheduleWorkout(ctx, owner, w.ID, at)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, sched.Schedule.Status)
	assert.Equal(t, w.ID, sched.Schedule.WorkoutID)
	assert.True(t, sched.Schedule.ScheduledDate.Equal(at))
	assert.Len(t, sched.Exercises, 2)
}

func TestWorkoutService_ListUpcoming(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()
	now := env.Clock.Now()

	keep, err := env.Workouts.CreateWorkout(ctx, owner, sampleInput(env))
	require.NoError(t, err)
	drop, err := env.Workouts.CreateWorkout(ctx, owner, sampleInput(env))
	require.NoError(t, err)

	s2, err := env.Workouts.ScheduleWorkout(ctx, owner, keep.ID, now.Add(48*time.Hour))
	require.NoError(t, err)
	s1, err := env.Workouts.ScheduleWorkout(ctx, owner, keep.ID, now.Add(time.Hour))
	require.NoError(t, err)
	_, err = env.Workouts.ScheduleWorkout(ctx, owner, drop.ID, now.Add(2*time.Hour))
	require.NoError(t, err)
	require.NoError(t, env.Workouts.DeleteWorkout(ctx, owner, drop.ID))

	got, err := env.Workouts.ListUpcomingSchedules(ctx, owner)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, s1.Schedule.ID, got[0].ID)
	assert.Equal(t, s2.Schedule.ID, got[1].ID)

	env.Clock.Advance(2 * time.Hour)
	got, err = env.Workouts.ListUpcomingSchedules(ctx, owner)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, s2.Schedule.ID, got[0].ID)

	got, err = env.Workouts.ListUpcomingSchedules(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWorkoutService_UpdateScheduleStatus(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	w, err := env.Workouts.CreateWorkout(ctx, owner, sampleInput(env))
	require.NoError(t, err)
	sched, err := env.Workouts.ScheduleWorkout(ctx, owner, w.ID, env.Clock.Now().Add(time.Hour))
	require.NoError(t, err)
	id := sched.Schedule.ID

	assert.ErrorIs(t, env.Workouts.UpdateScheduleStatus(ctx, owner, id, "   "), ErrValidation)
	assert.ErrorIs(t, env.Workouts.UpdateScheduleStatus(ctx, uuid.New(), id, models.StatusCompleted), ErrNotFound)
	assert.ErrorIs(t, env.Workouts.UpdateScheduleStatus(ctx, owner, uuid.New(), models.StatusCompleted), ErrNotFound)

	require.NoError(t, env.Workouts.UpdateScheduleStatus(ctx, owner, id, "Skipped"))
	require.NoError(t, env.Workouts.UpdateScheduleStatus(ctx, owner, id, models.StatusPending))
	require.NoError(t, env.Workouts.UpdateScheduleStatus(ctx, owner, id, models.StatusCompleted))

	stored := testfixtures.Schedule(t, env.Repo.DB, id)
	assert.Equal(t, models.StatusCompleted, stored.Status)
	assert.True(t, stored.ScheduledDate.Equal(sched.Schedule.ScheduledDate))
}

func TestWorkoutService_GenerateCompletedReport(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	older, err := env.Workouts.CreateWorkout(ctx, owner, sampleInput(env))
	require.NoError(t, err)
	env.Clock.Advance(time.Minute)
	newer, err := env.Workouts.CreateWorkout(ctx, owner, WorkoutInput{
		Name:      "Cardio",
		Exercises: []ExerciseLineInput{{ExerciseID: env.Exercises[3].ID, Repetitions: intPtr(1)}},
	})
	require.NoError(t, err)
	env.Clock.Advance(time.Minute)
	untouched, err := env.Workouts.CreateWorkout(ctx, owner, sampleInput(env))
	require.NoError(t, err)

	for _, w := range []*models.Workout{older, newer, untouched} {
		s, err := env.Workouts.ScheduleWorkout(ctx, owner, w.ID, env.Clock.Now())
		require.NoError(t, err)
		if w != untouched {
			require.NoError(t, env.Workouts.UpdateScheduleStatus(ctx, owner, s.Schedule.ID, models.StatusCompleted))
		}
	}

	report, err := env.Workouts.GenerateCompletedReport(ctx, owner)
	require.NoError(t, err)
	require.Len(t, report, 2)
	assert.Equal(t, newer.ID, report[0].WorkoutID)
	assert.Equal(t, older.ID, report[1].WorkoutID)

	require.Len(t, report[0].Exercises, 1)
	line := report[0].Exercises[0]
	assert.Equal(t, env.Exercises[3].Name, line.ExerciseName)
	assert.Equal(t, env.Exercises[3].Category, line.Category)
	assert.Equal(t, 1, line.Repetitions)

	require.NoError(t, env.Workouts.DeleteWorkout(ctx, owner, newer.ID))
	report, err = env.Workouts.GenerateCompletedReport(ctx, owner)
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, older.ID, report[0].WorkoutID)
}

type stubSearcher struct {
	total int64
	items []models.Exercise
	err   error
	calls int
}

func (s *stubSearcher) Search(_ context.Context, _ string, _, _ int) (int64, []models.Exercise, error) {
	s.calls++
	return s.total, s.items, s.err
}

func TestWorkoutService_SearchExercises(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Workouts.SearchExercises(ctx, " ", 1, 10)
	assert.ErrorIs(t, err, ErrValidation)

	page, err := env.Workouts.SearchExercises(ctx, "squat", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Squat", page.Items[0].Name)

	indexed := &stubSearcher{total: 42, items: []models.Exercise{{Name: "From index"}}}
	env.Workouts.Search = indexed
	page, err = env.Workouts.SearchExercises(ctx, "squat", 2, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 42, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, "From index", page.Items[0].Name)

	env.Workouts.Search = &stubSearcher{err: errors.New("index down")}
	page, err = env.Workouts.SearchExercises(ctx, "squat", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "Squat", page.Items[0].Name)
}

func TestWorkoutService_ListExercises(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	got, err := env.Workouts.ListExercises(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(env.Exercises), len(got))
}
