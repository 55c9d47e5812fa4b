// Package mocks provides hand-rolled test doubles for the store and
// auth interfaces. Each mock exposes function fields for customizable
// behavior and a small in-memory default implementation.
package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/traintrackhq/traintrack-api/internal/domain"
	"github.com/traintrackhq/traintrack-api/internal/store"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	mu sync.Mutex

	// Function fields for customizable behavior
	CreateFn          func(ctx context.Context, user *domain.User) error
	GetByIDFn         func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsernameFn   func(ctx context.Context, username string) (*domain.User, error)
	ListFn            func(ctx context.Context) ([]*domain.User, error)
	UpdatePasswordFn  func(ctx context.Context, id uuid.UUID, hashedPassword string) error
	UpdateEmailFn     func(ctx context.Context, id uuid.UUID, email string) error
	UpdatePrivilegeFn func(ctx context.Context, id uuid.UUID, privilege int) error
	DeleteFn          func(ctx context.Context, id uuid.UUID) error

	// Users holds the in-memory rows for the default implementation,
	// keyed by username.
	Users map[string]*domain.User
}

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users: make(map[string]*domain.User),
	}
}

// Ensure MockUserStore implements store.UserStore
var _ store.UserStore = (*MockUserStore)(nil)

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Users[user.Username]; exists {
		return store.ErrUsernameExists
	}

	copied := *user
	m.Users[user.Username] = &copied
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.Users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}

	return nil, store.ErrUserNotFound
}

// GetByUsername implements the UserStore interface
func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user, exists := m.Users[username]
	if !exists {
		return nil, store.ErrUserNotFound
	}

	copied := *user
	return &copied, nil
}

// List implements the UserStore interface
func (m *MockUserStore) List(ctx context.Context) ([]*domain.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]*domain.User, 0, len(m.Users))
	for _, user := range m.Users {
		copied := *user
		users = append(users, &copied)
	}
	return users, nil
}

// UpdatePassword implements the UserStore interface
func (m *MockUserStore) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	if m.UpdatePasswordFn != nil {
		return m.UpdatePasswordFn(ctx, id, hashedPassword)
	}

	return m.update(id, func(user *domain.User) {
		user.HashedPassword = hashedPassword
	})
}

// UpdateEmail implements the UserStore interface
func (m *MockUserStore) UpdateEmail(ctx context.Context, id uuid.UUID, email string) error {
	if m.UpdateEmailFn != nil {
		return m.UpdateEmailFn(ctx, id, email)
	}

	return m.update(id, func(user *domain.User) {
		user.Email = email
	})
}

// UpdatePrivilege implements the UserStore interface
func (m *MockUserStore) UpdatePrivilege(ctx context.Context, id uuid.UUID, privilege int) error {
	if m.UpdatePrivilegeFn != nil {
		return m.UpdatePrivilegeFn(ctx, id, privilege)
	}

	return m.update(id, func(user *domain.User) {
		user.Privilege = privilege
	})
}

func (m *MockUserStore) update(id uuid.UUID, apply func(*domain.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.Users {
		if user.ID == id {
			apply(user)
			user.UpdatedAt = time.Now().UTC()
			return nil
		}
	}

	return store.ErrUserNotFound
}

// Delete implements the UserStore interface
func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for username, user := range m.Users {
		if user.ID == id {
			delete(m.Users, username)
			return nil
		}
	}

	return store.ErrUserNotFound
}

// WithTx implements the UserStore interface for transaction support
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	// The mock has no real transactions; return the same instance.
	return m
}
