package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/traintrackhq/traintrack-api/internal/domain"
	"github.com/traintrackhq/traintrack-api/internal/platform/logger"
	"github.com/traintrackhq/traintrack-api/internal/service/auth"
	"github.com/traintrackhq/traintrack-api/internal/store"
)

// RegisterParams carries the fields of a registration request.
type RegisterParams struct {
	SSN       string
	Username  string
	Password  string
	Email     string
	Privilege int
}

// AccountService implements the user account use-cases: registration,
// login, self-service credential changes, and the admin mutations.
type AccountService struct {
	userStore    store.UserStore
	workoutStore store.WorkoutStore
	hasher       auth.PasswordHasher
	runTx        TxRunner
	logger       *slog.Logger
}

// NewAccountService creates an AccountService with the given dependencies.
func NewAccountService(
	userStore store.UserStore,
	workoutStore store.WorkoutStore,
	hasher auth.PasswordHasher,
	runTx TxRunner,
	logger *slog.Logger,
) (*AccountService, error) {
	if userStore == nil {
		return nil, fmt.Errorf("userStore cannot be nil")
	}
	if workoutStore == nil {
		return nil, fmt.Errorf("workoutStore cannot be nil")
	}
	if hasher == nil {
		return nil, fmt.Errorf("hasher cannot be nil")
	}
	if runTx == nil {
		return nil, fmt.Errorf("runTx cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &AccountService{
		userStore:    userStore,
		workoutStore: workoutStore,
		hasher:       hasher,
		runTx:        runTx,
		logger:       logger.With(slog.String("component", "account_service")),
	}, nil
}

// Register creates a new user account. The password is hashed before the
// user reaches the store; the unique constraint on username decides
// duplicates atomically, so there is no check-then-insert window.
// Returns store.ErrUsernameExists when the username is taken.
func (s *AccountService) Register(ctx context.Context, params RegisterParams) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(params.SSN, params.Username, params.Password, params.Email, params.Privilege)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hash
	user.Password = ""

	if err := s.userStore.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username))
	return user, nil
}

// Authenticate validates a username/password pair against the store and
// returns the matching user row, including the current privilege the
// caller needs when embedding the session identity.
// Returns ErrInvalidCredentials when the user is unknown or the password
// does not match.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		log.Debug("password mismatch during login",
			slog.String("username", username))
		return nil, ErrInvalidCredentials
	}

	// Defensive double-check that the fetched row is the requested user.
	if user.Username != username {
		log.Warn("fetched user does not match requested username",
			slog.String("requested", username),
			slog.String("fetched", user.Username))
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// ChangePassword changes the caller's own password. The old-password
// claim is checked against the hash embedded in the caller's session
// identity, never against a fresh store read: changing the password in
// the store through another path does not affect this comparison until
// a new token is issued.
// Returns ErrWrongCredentialClaim on mismatch and the updated user on
// success.
func (s *AccountService) ChangePassword(
	ctx context.Context,
	identity auth.Identity,
	oldPassword, newPassword string,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.hasher.Compare(identity.PasswordHash, oldPassword); err != nil {
		log.Debug("old password claim rejected",
			slog.String("username", identity.Username))
		return nil, ErrWrongCredentialClaim
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		log.Error("failed to hash new password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userStore.UpdatePassword(ctx, identity.UserID, newHash); err != nil {
		return nil, err
	}

	user, err := s.userStore.GetByID(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	log.Info("password changed",
		slog.String("user_id", identity.UserID.String()))
	return user, nil
}

// ChangeEmail changes the caller's own email. Unlike ChangePassword, the
// old-email claim is checked against the freshly fetched stored email.
// Returns ErrWrongCredentialClaim on mismatch.
func (s *AccountService) ChangeEmail(
	ctx context.Context,
	identity auth.Identity,
	oldEmail, newEmail string,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByID(ctx, identity.UserID)
	if err != nil {
		return err
	}

	if user.Email != oldEmail {
		log.Debug("old email claim rejected",
			slog.String("user_id", identity.UserID.String()))
		return ErrWrongCredentialClaim
	}

	if err := s.userStore.UpdateEmail(ctx, identity.UserID, newEmail); err != nil {
		return err
	}

	log.Info("email changed", slog.String("user_id", identity.UserID.String()))
	return nil
}

// DeleteUser removes the user and every workout they own inside a single
// transaction, so no interleaved request can observe the user without
// their workouts or orphaned workouts without their user.
// Returns store.ErrUserNotFound when the user row does not exist.
func (s *AccountService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		// Deleting zero workouts is an idempotent no-op, so no
		// count check is needed before this statement.
		if err := s.workoutStore.WithTx(tx).DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		return s.userStore.WithTx(tx).Delete(ctx, userID)
	})
	if err != nil {
		return err
	}

	log.Info("user deleted with owned workouts",
		slog.String("user_id", userID.String()))
	return nil
}

// AdminChangePassword unconditionally replaces a user's password, with
// no prior-value check. Admin gating happens at the HTTP boundary.
func (s *AccountService) AdminChangePassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userStore.UpdatePassword(ctx, userID, newHash)
}

// AdminChangeEmail unconditionally replaces a user's email.
func (s *AccountService) AdminChangeEmail(ctx context.Context, userID uuid.UUID, newEmail string) error {
	return s.userStore.UpdateEmail(ctx, userID, newEmail)
}

// AdminChangePrivilege unconditionally replaces a user's privilege.
func (s *AccountService) AdminChangePrivilege(ctx context.Context, userID uuid.UUID, privilege int) error {
	return s.userStore.UpdatePrivilege(ctx, userID, privilege)
}

// GetUser fetches a single user by ID.
func (s *AccountService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.userStore.GetByID(ctx, userID)
}

// ListUsers fetches all users.
func (s *AccountService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.userStore.List(ctx)
}

// IsAdmin reports whether the identity's user currently holds admin
// privilege. It always re-reads the store: the privilege embedded in the
// token is a snapshot and is not trusted, since privilege can change
// after token issuance. A missing user is not an admin.
func (s *AccountService) IsAdmin(ctx context.Context, identity auth.Identity) (bool, error) {
	user, err := s.userStore.GetByUsername(ctx, identity.Username)
	if err != nil {
		if store.IsNotFoundError(err) {
			return false, nil
		}
		return false, err
	}

	// The token must still describe the stored credential; a password
	// change since issuance invalidates the identity for privilege
	// escalation purposes.
	if user.HashedPassword != identity.PasswordHash {
		return false, nil
	}

	return user.IsAdmin(), nil
}
