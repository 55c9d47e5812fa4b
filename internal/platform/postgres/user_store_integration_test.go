package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traintrackhq/traintrack-api/internal/domain"
	"github.com/traintrackhq/traintrack-api/internal/platform/postgres"
	"github.com/traintrackhq/traintrack-api/internal/store"
	"github.com/traintrackhq/traintrack-api/internal/testdb"
)

func insertUser(t *testing.T, s store.UserStore, username string) *domain.User {
	t.Helper()

	user, err := domain.NewUser("19900101-1234", username, "plaintext", username+"@example.com", 0)
	require.NoError(t, err)
	user.HashedPassword = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
	user.Password = ""
	require.NoError(t, s.Create(context.Background(), user))
	return user
}

func TestPostgresUserStore(t *testing.T) {
	t.Parallel()

	db := testdb.Open(t)

	t.Run("create and fetch", func(t *testing.T) {
		t.Parallel()
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			s := postgres.NewPostgresUserStore(tx, nil)
			created := insertUser(t, s, "runner")

			byID, err := s.GetByID(context.Background(), created.ID)
			require.NoError(t, err)
			assert.Equal(t, created.Username, byID.Username)
			assert.Equal(t, created.HashedPassword, byID.HashedPassword)

			byName, err := s.GetByUsername(context.Background(), "runner")
			require.NoError(t, err)
			assert.Equal(t, created.ID, byName.ID)
		})
	})

	t.Run("duplicate username rejected by constraint", func(t *testing.T) {
		t.Parallel()
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			s := postgres.NewPostgresUserStore(tx, nil)
			insertUser(t, s, "taken")

			dup, err := domain.NewUser("20000202-9999", "taken", "other", "other@example.com", 0)
			require.NoError(t, err)
			dup.HashedPassword = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
			dup.Password = ""

			err = s.Create(context.Background(), dup)
			assert.ErrorIs(t, err, store.ErrUsernameExists)
		})
	})

	t.Run("missing user", func(t *testing.T) {
		t.Parallel()
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			s := postgres.NewPostgresUserStore(tx, nil)

			_, err := s.GetByID(context.Background(), uuid.New())
			assert.ErrorIs(t, err, store.ErrUserNotFound)
		})
	})

	t.Run("updates touch exactly one row", func(t *testing.T) {
		t.Parallel()
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			s := postgres.NewPostgresUserStore(tx, nil)
			user := insertUser(t, s, "runner")

			require.NoError(t, s.UpdateEmail(context.Background(), user.ID, "new@example.com"))
			require.NoError(t, s.UpdatePrivilege(context.Background(), user.ID, domain.AdminPrivilege))

			stored, err := s.GetByID(context.Background(), user.ID)
			require.NoError(t, err)
			assert.Equal(t, "new@example.com", stored.Email)
			assert.True(t, stored.IsAdmin())

			// Zero-row updates surface as not found.
			assert.ErrorIs(t,
				s.UpdateEmail(context.Background(), uuid.New(), "x@example.com"),
				store.ErrUserNotFound)
		})
	})

	t.Run("list and delete", func(t *testing.T) {
		t.Parallel()
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			s := postgres.NewPostgresUserStore(tx, nil)
			user := insertUser(t, s, "runner")
			insertUser(t, s, "walker")

			users, err := s.List(context.Background())
			require.NoError(t, err)
			assert.Len(t, users, 2)

			require.NoError(t, s.Delete(context.Background(), user.ID))
			assert.ErrorIs(t,
				s.Delete(context.Background(), user.ID),
				store.ErrUserNotFound)
		})
	})
}
