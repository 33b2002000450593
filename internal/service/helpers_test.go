package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/workout_tracker/internal/models"
	"github.com/Skotchmaster/workout_tracker/internal/repo"
	"github.com/Skotchmaster/workout_tracker/internal/testfixtures"
	"github.com/Skotchmaster/workout_tracker/pkg/hash"
	"github.com/Skotchmaster/workout_tracker/pkg/tokens"
)

type testEnv struct {
	Repo      *repo.GormRepo
	Clock     *testfixtures.Clock
	Auth      *AuthService
	Workouts  *WorkoutService
	Engine    *tokens.Engine
	Exercises []models.Exercise
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb := testfixtures.OpenSQLite(t)
	r := repo.New(gdb)
	clock := testfixtures.NewClock(testfixtures.ReferenceTime())

	engine, err := tokens.NewEngine([]byte("test-jwt-secret"), tokens.WithClock(clock.Now))
	require.NoError(t, err)

	return &testEnv{
		Repo:   r,
		Clock:  clock,
		Engine: engine,
		Auth: &AuthService{
			Repo:   r,
			Hasher: hash.New(bcrypt.MinCost),
			Tokens: engine,
			Now:    clock.Now,
		},
		Workouts: &WorkoutService{
			Repo: r,
			Now:  clock.Now,
		},
		Exercises: testfixtures.Exercises(t, gdb),
	}
}
