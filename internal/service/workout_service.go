package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/traintrackhq/traintrack-api/internal/domain"
	"github.com/traintrackhq/traintrack-api/internal/platform/logger"
	"github.com/traintrackhq/traintrack-api/internal/service/auth"
	"github.com/traintrackhq/traintrack-api/internal/store"
)

// WorkoutParams carries the fields of a save-workout request.
type WorkoutParams struct {
	Distance float64
	Steps    int
	Time     string
}

// WorkoutService implements the workout use-cases. Ownership always
// derives from the caller's verified token identity, re-validated
// against the store; a client can never pick the owning user itself.
type WorkoutService struct {
	userStore    store.UserStore
	workoutStore store.WorkoutStore
	logger       *slog.Logger
}

// NewWorkoutService creates a WorkoutService with the given dependencies.
func NewWorkoutService(
	userStore store.UserStore,
	workoutStore store.WorkoutStore,
	logger *slog.Logger,
) (*WorkoutService, error) {
	if userStore == nil {
		return nil, fmt.Errorf("userStore cannot be nil")
	}
	if workoutStore == nil {
		return nil, fmt.Errorf("workoutStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &WorkoutService{
		userStore:    userStore,
		workoutStore: workoutStore,
		logger:       logger.With(slog.String("component", "workout_service")),
	}, nil
}

// resolveOwner re-validates the token identity as a real stored user.
// The embedded identity is not blindly trusted: the username must
// resolve to a row and the stored credential must still match the hash
// the token was issued with.
func (s *WorkoutService) resolveOwner(ctx context.Context, identity auth.Identity) (*domain.User, error) {
	user, err := s.userStore.GetByUsername(ctx, identity.Username)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrIdentityNotResolved
		}
		return nil, err
	}

	if user.HashedPassword != identity.PasswordHash {
		return nil, ErrIdentityNotResolved
	}

	return user, nil
}

// Save records a new workout owned by the caller.
// Returns ErrIdentityNotResolved when the token identity no longer
// matches a stored user.
func (s *WorkoutService) Save(ctx context.Context, identity auth.Identity, params WorkoutParams) (*domain.Workout, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	owner, err := s.resolveOwner(ctx, identity)
	if err != nil {
		log.Debug("could not resolve workout owner",
			slog.String("username", identity.Username))
		return nil, err
	}

	workout, err := domain.NewWorkout(owner.ID, params.Distance, params.Steps, params.Time)
	if err != nil {
		return nil, err
	}

	if err := s.workoutStore.Create(ctx, workout); err != nil {
		return nil, err
	}

	log.Info("workout saved",
		slog.String("workout_id", workout.ID.String()),
		slog.String("user_id", owner.ID.String()))
	return workout, nil
}

// GetByID fetches a single workout.
// Returns store.ErrWorkoutNotFound when the row is absent; a store
// failure surfaces as its own error, never as an empty result.
func (s *WorkoutService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error) {
	return s.workoutStore.GetByID(ctx, id)
}

// ListForOwner fetches all workouts owned by the caller.
// A caller with no saved workouts gets an empty collection.
func (s *WorkoutService) ListForOwner(ctx context.Context, identity auth.Identity) ([]*domain.Workout, error) {
	owner, err := s.resolveOwner(ctx, identity)
	if err != nil {
		return nil, err
	}

	return s.workoutStore.ListByUserID(ctx, owner.ID)
}
