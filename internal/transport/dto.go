package transport

import (
	"time"

	"github.com/google/uuid"
)

type SignUpRequest struct {
	Username  string  `json:"username"   validate:"required"`
	FirstName string  `json:"first_name" validate:"required"`
	LastName  *string `json:"last_name"`
	Email     string  `json:"email"      validate:"required,email"`
	Password  string  `json:"password"   validate:"required"`
}

type SignUpResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the last access token, which may already be expired.
type RefreshRequest struct {
	AccessToken  string `json:"access_token"  validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ExerciseLine struct {
	ExerciseID  uuid.UUID `json:"exercise_id" validate:"required"`
	Sets        *int      `json:"sets"        validate:"omitempty,gte=0"`
	Repetitions *int      `json:"repetitions" validate:"omitempty,gte=0"`
	Weight      *float64  `json:"weight"      validate:"omitempty,gte=0"`
}

type WorkoutRequest struct {
	Name      string         `json:"name"      validate:"required"`
	Comment   *string        `json:"comment"`
	Exercises []ExerciseLine `json:"exercises" validate:"dive"`
}

type ScheduleRequest struct {
	WorkoutID     uuid.UUID `json:"workout_id"     validate:"required"`
	ScheduledDate time.Time `json:"scheduled_date" validate:"required"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}
