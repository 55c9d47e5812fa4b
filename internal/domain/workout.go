package domain

import (
	"time"

	"github.com/google/uuid"
)

// Workout represents a single recorded workout owned by a user.
// Workouts are created once and never updated in place.
type Workout struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Distance  float64   `json:"distance"`
	Steps     int       `json:"steps"`
	Time      string    `json:"time"`
	CreatedAt time.Time `json:"created_at"`
}

// NewWorkout creates a new Workout owned by the given user.
// Returns an error if validation fails.
func NewWorkout(userID uuid.UUID, distance float64, steps int, duration string) (*Workout, error) {
	workout := &Workout{
		ID:        uuid.New(),
		UserID:    userID,
		Distance:  distance,
		Steps:     steps,
		Time:      duration,
		CreatedAt: time.Now().UTC(),
	}

	if err := workout.Validate(); err != nil {
		return nil, err
	}

	return workout, nil
}

// Validate checks if the Workout has valid data.
func (w *Workout) Validate() error {
	if w.ID == uuid.Nil {
		return ErrEmptyWorkoutID
	}

	if w.UserID == uuid.Nil {
		return ErrEmptyWorkoutOwner
	}

	if w.Distance < 0 {
		return ErrNegativeDistance
	}

	if w.Steps < 0 {
		return ErrNegativeSteps
	}

	if w.Time == "" {
		return ErrEmptyWorkoutTime
	}

	return nil
}
