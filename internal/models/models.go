package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const RoleUser = "user"

type Account struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"       json:"id"`
	Username           string     `gorm:"size:20;not null"           json:"username"`
	FirstName          string     `gorm:"size:100;not null"          json:"first_name"`
	LastName           *string    `gorm:"size:100"                   json:"last_name,omitempty"`
	Email              string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash       string     `gorm:"not null"                   json:"-"`
	Role               string     `gorm:"size:32;not null;default:user" json:"role"`
	RefreshToken       *string    `gorm:"size:64"                    json:"-"`
	RefreshTokenExpiry *time.Time `                                  json:"-"`
	CreatedAt          time.Time  `gorm:"not null"                   json:"created_at"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

type Exercise struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"          json:"id"`
	Name        string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description *string   `                                     json:"description,omitempty"`
	Category    string    `gorm:"size:50;not null;index"        json:"category"`
	CreatedAt   time.Time `gorm:"not null"                      json:"created_at"`
}

func (e *Exercise) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

type WorkoutState string

const (
	WorkoutActive  WorkoutState = "active"
	WorkoutDeleted WorkoutState = "deleted"
)

type Workout struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey"                json:"id"`
	OwnerID       uuid.UUID         `gorm:"type:uuid;not null;index"           json:"owner_id"`
	Name          string            `gorm:"size:100;not null"                  json:"name"`
	Comment       *string           `                                          json:"comment,omitempty"`
	State         WorkoutState      `gorm:"size:16;not null;default:active"    json:"-"`
	CreatedAt     time.Time         `gorm:"not null"                           json:"created_at"`
	LastUpdatedAt *time.Time        `                                          json:"last_updated_at,omitempty"`
	DeletedAt     *time.Time        `                                          json:"-"`
	Exercises     []WorkoutExercise `gorm:"foreignKey:WorkoutID"               json:"exercises"`
}

func (w *Workout) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	if w.State == "" {
		w.State = WorkoutActive
	}
	return nil
}

func (w *Workout) IsDeleted() bool {
	return w.State == WorkoutDeleted
}

type WorkoutExercise struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"      json:"id"`
	WorkoutID   uuid.UUID `gorm:"type:uuid;not null;index" json:"workout_id"`
	ExerciseID  uuid.UUID `gorm:"type:uuid;not null"       json:"exercise_id"`
	Sets        int       `gorm:"not null;default:0"       json:"sets"`
	Repetitions int       `gorm:"not null;default:0"       json:"repetitions"`
	Weight      float64   `gorm:"not null;default:0"       json:"weight"`
	Exercise    *Exercise `gorm:"foreignKey:ExerciseID"    json:"exercise,omitempty"`
}

func (we *WorkoutExercise) BeforeCreate(tx *gorm.DB) error {
	if we.ID == uuid.Nil {
		we.ID = uuid.New()
	}
	return nil
}

const (
	StatusPending   = "Pending"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

type WorkoutSchedule struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"      json:"id"`
	WorkoutID     uuid.UUID `gorm:"type:uuid;not null;index" json:"workout_id"`
	ScheduledDate time.Time `gorm:"not null;index"           json:"scheduled_date"`
	Status        string    `gorm:"size:32;not null"         json:"status"`
	Workout       *Workout  `gorm:"foreignKey:WorkoutID"     json:"workout,omitempty"`
}

func (s *WorkoutSchedule) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
