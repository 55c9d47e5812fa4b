package service_test

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traintrackhq/traintrack-api/internal/domain"
	"github.com/traintrackhq/traintrack-api/internal/mocks"
	"github.com/traintrackhq/traintrack-api/internal/service"
	"github.com/traintrackhq/traintrack-api/internal/service/auth"
	"github.com/traintrackhq/traintrack-api/internal/store"
)

// passthroughTxRunner runs the transactional function directly; the mock
// stores ignore the nil transaction.
func passthroughTxRunner(ctx context.Context, fn store.TxFn) error {
	return fn(ctx, (*sql.Tx)(nil))
}

func newAccountService(
	t *testing.T,
	users *mocks.MockUserStore,
	workouts *mocks.MockWorkoutStore,
) *service.AccountService {
	t.Helper()

	svc, err := service.NewAccountService(
		users,
		workouts,
		&mocks.MockPasswordHasher{},
		passthroughTxRunner,
		slog.Default(),
	)
	require.NoError(t, err)
	return svc
}

func seedUser(t *testing.T, users *mocks.MockUserStore, username, password, email string, privilege int) *domain.User {
	t.Helper()

	user, err := domain.NewUser("19900101-1234", username, password, email, privilege)
	require.NoError(t, err)
	user.HashedPassword = mocks.MockHash(password)
	user.Password = ""
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func identityFor(user *domain.User) auth.Identity {
	return auth.Identity{
		UserID:       user.ID,
		Username:     user.Username,
		PasswordHash: user.HashedPassword,
		Privilege:    user.Privilege,
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	t.Parallel()

	users := mocks.NewMockUserStore()
	svc := newAccountService(t, users, mocks.NewMockWorkoutStore())

	registered, err := svc.Register(context.Background(), service.RegisterParams{
		SSN:      "19900101-1234",
		Username: "a",
		Password: "p",
		Email:    "a@example.com",
	})
	require.NoError(t, err)
	assert.Empty(t, registered.Password, "plaintext must not survive registration")
	assert.NotEmpty(t, registered.HashedPassword)

	user, err := svc.Authenticate(context.Background(), "a", "p")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Equal(t, registered.Privilege, user.Privilege)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	t.Parallel()

	users := mocks.NewMockUserStore()
	svc := newAccountService(t, users, mocks.NewMockWorkoutStore())
	seedUser(t, users, "taken", "first password", "first@example.com", 0)

	// Same username, entirely different fields.
	_, err := svc.Register(context.Background(), service.RegisterParams{
		SSN:      "20000202-9999",
		Username: "taken",
		Password: "other password",
		Email:    "other@example.com",
	})
	assert.ErrorIs(t, err, store.ErrUsernameExists)
}

func TestAuthenticateFailures(t *testing.T) {
	t.Parallel()

	users := mocks.NewMockUserStore()
	svc := newAccountService(t, users, mocks.NewMockWorkoutStore())
	seedUser(t, users, "runner", "right password", "runner@example.com", 0)

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "runner", "wrong password")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "nobody", "right password")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestChangePasswordChecksTokenEmbeddedHash(t *testing.T) {
	t.Parallel()

	users := mocks.NewMockUserStore()
	svc := newAccountService(t, users, mocks.NewMockWorkoutStore())
	user := seedUser(t, users, "runner", "old password", "runner@example.com", 0)
	identity := identityFor(user)

	// The store-side password changes through another path...
	require.NoError(t,
		users.UpdatePassword(context.Background(), user.ID, mocks.MockHash("changed elsewhere")))

	// ...but the old-password claim is still checked against the hash
	// embedded in the caller's token, so the original password passes.
	updated, err := svc.ChangePassword(context.Background(), identity, "old password", "new password")
	require.NoError(t, err)
	assert.Equal(t, mocks.MockHash("new password"), updated.HashedPassword)
}

func TestChangePasswordRejectsWrongClaim(t *testing.T) {
	t.Parallel()

	users := mocks.NewMockUserStore()
	svc := newAccountService(t, users, mocks.NewMockWorkoutStore())
	user := seedUser(t, users, "runner", "old password", "runner@example.com", 0)

	_, err := svc.ChangePassword(context.Background(), identityFor(user), "not the old password", "new password")
	assert.ErrorIs(t, err, service.ErrWrongCredentialClaim)

	// The stored credential is untouched.
	stored, getErr := users.GetByUsername(context.Background(), "runner")
	require.NoError(t, getErr)
	assert.Equal(t, mocks.MockHash("old password"), stored.HashedPassword)
}

func TestChangeEmailChecksStoredEmail(t *testing.T) {
	t.Parallel()

	users := mocks.NewMockUserStore()
	svc := newAccountService(t, users, mocks.NewMockWorkoutStore())
	user := seedUser(t, users, "runner", "pw", "current@example.com", 0)
	identity := identityFor(user)

	t.Run("wrong claim rejected", func(t *testing.T) {
		err := svc.ChangeEmail(context.Background(), identity, "stale@example.com", "new@example.com")
		assert.ErrorIs(t, err, service.ErrWrongCredentialClaim)
	})

	t.Run("matching claim accepted", func(t *testing.T) {
		err := svc.ChangeEmail(context.Background(), identity, "current@example.com", "new@example.com")
		require.NoError(t, err)

		stored, err := users.GetByUsername(context.Background(), "runner")
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", stored.Email)
	})
}

func TestChangeEmailUsesFreshLookup(t *testing.T) {
	t.Parallel()

	users := mocks.NewMockUserStore()
	svc := newAccountService(t, users, mocks.NewMockWorkoutStore())
	user := seedUser(t, users, "runner", "pw", "original@example.com", 0)
	identity := identityFor(user)

	// The email changed in the store after the token was issued; the
	// claim must match the current stored value, not any older one.
	require.NoError(t, users.UpdateEmail(context.Background(), user.ID, "moved@example.com"))

	err := svc.ChangeEmail(context.Background(), identity, "original@example.com", "new@example.com")
	assert.ErrorIs(t, err, service.ErrWrongCredentialClaim)

	assert.NoError(t,
		svc.ChangeEmail(context.Background(), identity, "moved@example.com", "new@example.com"))
}

func TestDeleteUserCascadesToWorkouts(t *testing.T) {
	t.Parallel()

	users := mocks.NewMockUserStore()
	workouts := mocks.NewMockWorkoutStore()
	svc := newAccountService(t, users, workouts)
	user := seedUser(t, users, "runner", "pw", "runner@example.com", 0)

	for i := 0; i < 3; i++ {
		workout, err := domain.NewWorkout(user.ID, float64(i), 100*i, "10:00")
		require.NoError(t, err)
		require.NoError(t, workouts.Create(context.Background(), workout))
	}

	require.NoError(t, svc.DeleteUser(context.Background(), user.ID))

	_, err := users.GetByID(context.Background(), user.ID)
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	count, err := workouts.CountByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDeleteUserWithZeroWorkoutsSucceeds(t *testing.T) {
	t.Parallel()

	users := mocks.NewMockUserStore()
	svc := newAccountService(t, users, mocks.NewMockWorkoutStore())
	user := seedUser(t, users, "runner", "pw", "runner@example.com", 0)

	assert.NoError(t, svc.DeleteUser(context.Background(), user.ID))
}

func TestDeleteUserMissingUserFails(t *testing.T) {
	t.Parallel()

	users := mocks.NewMockUserStore()
	svc := newAccountService(t, users, mocks.NewMockWorkoutStore())

	err := svc.DeleteUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestIsAdmin(t *testing.T) {
	t.Parallel()

	users := mocks.NewMockUserStore()
	svc := newAccountService(t, users, mocks.NewMockWorkoutStore())

	admin := seedUser(t, users, "admin", "pw", "admin@example.com", domain.AdminPrivilege)
	regular := seedUser(t, users, "regular", "pw", "regular@example.com", 0)
	elevated := seedUser(t, users, "elevated", "pw", "elevated@example.com", 2)

	t.Run("stored privilege 1 is admin", func(t *testing.T) {
		ok, err := svc.IsAdmin(context.Background(), identityFor(admin))
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("stored privilege 0 is not admin", func(t *testing.T) {
		ok, err := svc.IsAdmin(context.Background(), identityFor(regular))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("any privilege other than 1 is not admin", func(t *testing.T) {
		ok, err := svc.IsAdmin(context.Background(), identityFor(elevated))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing user is not admin", func(t *testing.T) {
		ok, err := svc.IsAdmin(context.Background(), auth.Identity{
			UserID:   uuid.New(),
			Username: "ghost",
		})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("privilege is re-read from the store", func(t *testing.T) {
		// Demote after token issuance; the stale token privilege must
		// not grant access.
		identity := identityFor(admin)
		require.NoError(t, users.UpdatePrivilege(context.Background(), admin.ID, 0))

		ok, err := svc.IsAdmin(context.Background(), identity)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestAdminMutations(t *testing.T) {
	t.Parallel()

	users := mocks.NewMockUserStore()
	svc := newAccountService(t, users, mocks.NewMockWorkoutStore())
	user := seedUser(t, users, "runner", "pw", "runner@example.com", 0)

	t.Run("change password without prior-value check", func(t *testing.T) {
		require.NoError(t, svc.AdminChangePassword(context.Background(), user.ID, "reset password"))

		stored, err := users.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, mocks.MockHash("reset password"), stored.HashedPassword)
	})

	t.Run("change email", func(t *testing.T) {
		require.NoError(t, svc.AdminChangeEmail(context.Background(), user.ID, "admin-set@example.com"))

		stored, err := users.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, "admin-set@example.com", stored.Email)
	})

	t.Run("change privilege", func(t *testing.T) {
		require.NoError(t, svc.AdminChangePrivilege(context.Background(), user.ID, domain.AdminPrivilege))

		stored, err := users.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsAdmin())
	})

	t.Run("zero-row update fails", func(t *testing.T) {
		err := svc.AdminChangeEmail(context.Background(), uuid.New(), "nobody@example.com")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}
