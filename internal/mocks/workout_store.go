package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/traintrackhq/traintrack-api/internal/domain"
	"github.com/traintrackhq/traintrack-api/internal/store"
)

// MockWorkoutStore implements store.WorkoutStore for testing
type MockWorkoutStore struct {
	mu sync.Mutex

	// Function fields for customizable behavior
	CreateFn         func(ctx context.Context, workout *domain.Workout) error
	GetByIDFn        func(ctx context.Context, id uuid.UUID) (*domain.Workout, error)
	ListByUserIDFn   func(ctx context.Context, userID uuid.UUID) ([]*domain.Workout, error)
	CountByUserIDFn  func(ctx context.Context, userID uuid.UUID) (int, error)
	DeleteByUserIDFn func(ctx context.Context, userID uuid.UUID) error

	// Workouts holds the in-memory rows for the default implementation.
	Workouts []*domain.Workout
}

// NewMockWorkoutStore creates a new mock store with initialized defaults
func NewMockWorkoutStore() *MockWorkoutStore {
	return &MockWorkoutStore{}
}

// Ensure MockWorkoutStore implements store.WorkoutStore
var _ store.WorkoutStore = (*MockWorkoutStore)(nil)

// Create implements the WorkoutStore interface
func (m *MockWorkoutStore) Create(ctx context.Context, workout *domain.Workout) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, workout)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *workout
	m.Workouts = append(m.Workouts, &copied)
	return nil
}

// GetByID implements the WorkoutStore interface
func (m *MockWorkoutStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, workout := range m.Workouts {
		if workout.ID == id {
			copied := *workout
			return &copied, nil
		}
	}

	return nil, store.ErrWorkoutNotFound
}

// ListByUserID implements the WorkoutStore interface
func (m *MockWorkoutStore) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Workout, error) {
	if m.ListByUserIDFn != nil {
		return m.ListByUserIDFn(ctx, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	workouts := []*domain.Workout{}
	for _, workout := range m.Workouts {
		if workout.UserID == userID {
			copied := *workout
			workouts = append(workouts, &copied)
		}
	}
	return workouts, nil
}

// CountByUserID implements the WorkoutStore interface
func (m *MockWorkoutStore) CountByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	if m.CountByUserIDFn != nil {
		return m.CountByUserIDFn(ctx, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, workout := range m.Workouts {
		if workout.UserID == userID {
			count++
		}
	}
	return count, nil
}

// DeleteByUserID implements the WorkoutStore interface
func (m *MockWorkoutStore) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	if m.DeleteByUserIDFn != nil {
		return m.DeleteByUserIDFn(ctx, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	remaining := m.Workouts[:0]
	for _, workout := range m.Workouts {
		if workout.UserID != userID {
			remaining = append(remaining, workout)
		}
	}
	m.Workouts = remaining
	return nil
}

// WithTx implements the WorkoutStore interface for transaction support
func (m *MockWorkoutStore) WithTx(tx *sql.Tx) store.WorkoutStore {
	// The mock has no real transactions; return the same instance.
	return m
}
