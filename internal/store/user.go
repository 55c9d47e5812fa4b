package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/traintrackhq/traintrack-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store. The user must already carry
	// a hashed password; plaintext is never persisted.
	// Returns ErrUsernameExists if the username is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername retrieves a user by their username.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// List retrieves all users ordered by creation time.
	// Returns an empty slice when the store holds no users.
	List(ctx context.Context) ([]*domain.User, error)

	// UpdatePassword replaces the stored password hash for the user.
	// Returns ErrUserNotFound if no row was updated.
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error

	// UpdateEmail replaces the stored email for the user.
	// Returns ErrUserNotFound if no row was updated.
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) error

	// UpdatePrivilege replaces the stored privilege for the user.
	// Returns ErrUserNotFound if no row was updated.
	UpdatePrivilege(ctx context.Context, id uuid.UUID, privilege int) error

	// Delete removes a user from the store by their ID.
	// Returns ErrUserNotFound if the user does not exist.
	// The caller is responsible for removing owned workouts first,
	// inside the same transaction (see WithTx).
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new UserStore instance that uses the provided
	// transaction. This allows multiple operations to be executed within
	// a single transaction managed by the caller (typically a service).
	WithTx(tx *sql.Tx) UserStore
}
