package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/traintrackhq/traintrack-api/internal/domain"
)

// WorkoutStore defines the interface for workout data persistence.
type WorkoutStore interface {
	// Create saves a new workout to the store.
	// Returns ErrInvalidEntity if the owning user does not exist
	// (foreign key violation) or the workout fails validation.
	Create(ctx context.Context, workout *domain.Workout) error

	// GetByID retrieves a workout by its unique ID.
	// Returns ErrWorkoutNotFound if the workout does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error)

	// ListByUserID retrieves all workouts owned by the given user,
	// newest first. Returns an empty slice when the user owns none.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Workout, error)

	// CountByUserID reports how many workouts the given user owns.
	CountByUserID(ctx context.Context, userID uuid.UUID) (int, error)

	// DeleteByUserID removes every workout owned by the given user.
	// Deleting zero rows is not an error; the operation is an
	// idempotent no-op when the user owns no workouts.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error

	// WithTx returns a new WorkoutStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) WorkoutStore
}
