package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/traintrackhq/traintrack-api/internal/domain"
	"github.com/traintrackhq/traintrack-api/internal/platform/logger"
	"github.com/traintrackhq/traintrack-api/internal/store"
)

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the
// UserStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, the default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{
		db:     tx,
		logger: s.logger,
	}
}

const userColumns = "id, ssn, username, hashed_password, email, privilege, created_at, updated_at"

// Create implements store.UserStore.Create
// The single INSERT relies on the unique constraint on username, so a
// concurrent registration with the same name loses cleanly instead of
// racing a separate uniqueness check.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	if user.HashedPassword == "" {
		return fmt.Errorf("%w: user has no hashed password", store.ErrInvalidEntity)
	}

	query := `
		INSERT INTO users (id, ssn, username, hashed_password, email, privilege, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.SSN,
		user.Username,
		user.HashedPassword,
		user.Email,
		user.Privilege,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("username already taken",
				slog.String("username", user.Username))
			return fmt.Errorf("%w: %v", store.ErrUsernameExists, err)
		}

		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}

	log.Info("user created",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userColumns)
	return s.getUser(ctx, query, id)
}

// GetByUsername implements store.UserStore.GetByUsername
func (s *PostgresUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE username = $1", userColumns)
	return s.getUser(ctx, query, username)
}

func (s *PostgresUserStore) getUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var user domain.User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.SSN,
		&user.Username,
		&user.HashedPassword,
		&user.Email,
		&user.Privilege,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return &user, nil
}

// List implements store.UserStore.List
func (s *PostgresUserStore) List(ctx context.Context) ([]*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf("SELECT %s FROM users ORDER BY created_at", userColumns)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list users",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var users []*domain.User
	for rows.Next() {
		var user domain.User
		err := rows.Scan(
			&user.ID,
			&user.SSN,
			&user.Username,
			&user.HashedPassword,
			&user.Email,
			&user.Privilege,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan user row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	if users == nil {
		users = []*domain.User{}
	}

	return users, nil
}

// UpdatePassword implements store.UserStore.UpdatePassword
func (s *PostgresUserStore) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	if hashedPassword == "" {
		return fmt.Errorf("%w: empty password hash", store.ErrInvalidEntity)
	}
	return s.updateColumn(ctx, "hashed_password", hashedPassword, id)
}

// UpdateEmail implements store.UserStore.UpdateEmail
func (s *PostgresUserStore) UpdateEmail(ctx context.Context, id uuid.UUID, email string) error {
	return s.updateColumn(ctx, "email", email, id)
}

// UpdatePrivilege implements store.UserStore.UpdatePrivilege
func (s *PostgresUserStore) UpdatePrivilege(ctx context.Context, id uuid.UUID, privilege int) error {
	return s.updateColumn(ctx, "privilege", privilege, id)
}

func (s *PostgresUserStore) updateColumn(ctx context.Context, column string, value any, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// column is one of three compile-time constants, never user input.
	query := fmt.Sprintf("UPDATE users SET %s = $1, updated_at = $2 WHERE id = $3", column)

	result, err := s.db.ExecContext(ctx, query, value, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.String("column", column),
			slog.String("user_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "user"); err != nil {
		log.Debug("user not found for update",
			slog.String("column", column),
			slog.String("user_id", id.String()))
		return store.ErrUserNotFound
	}

	log.Info("user updated",
		slog.String("column", column),
		slog.String("user_id", id.String()))
	return nil
}

// Delete implements store.UserStore.Delete
func (s *PostgresUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		log.Error("failed to delete user",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "user"); err != nil {
		log.Debug("user not found for delete",
			slog.String("user_id", id.String()))
		return store.ErrUserNotFound
	}

	log.Info("user deleted", slog.String("user_id", id.String()))
	return nil
}
