package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/traintrackhq/traintrack-api/internal/store"
)

func pgError(code string) *pgconn.PgError {
	return &pgconn.PgError{Code: code, ConstraintName: "users_username_key"}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "nil stays nil", err: nil, want: nil},
		{name: "no rows becomes not found", err: sql.ErrNoRows, want: store.ErrNotFound},
		{
			name: "wrapped no rows becomes not found",
			err:  fmt.Errorf("query: %w", sql.ErrNoRows),
			want: store.ErrNotFound,
		},
		{name: "unique violation becomes duplicate", err: pgError("23505"), want: store.ErrDuplicate},
		{name: "fk violation becomes invalid entity", err: pgError("23503"), want: store.ErrInvalidEntity},
		{name: "not null violation becomes invalid entity", err: pgError("23502"), want: store.ErrInvalidEntity},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mapped := MapError(tt.err)
			if tt.want == nil {
				assert.NoError(t, mapped)
				return
			}
			assert.ErrorIs(t, mapped, tt.want)
		})
	}
}

func TestMapErrorPassesThroughUnknownErrors(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	assert.Equal(t, cause, MapError(cause))

	unknownPg := pgError("57014") // query_canceled, no specific mapping
	assert.Equal(t, error(unknownPg), MapError(unknownPg))
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUniqueViolation(pgError("23505")))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", pgError("23505"))))
	assert.False(t, IsUniqueViolation(pgError("23503")))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestIsForeignKeyViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsForeignKeyViolation(pgError("23503")))
	assert.False(t, IsForeignKeyViolation(pgError("23505")))
	assert.False(t, IsForeignKeyViolation(nil))
}

type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	t.Run("rows affected passes", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, CheckRowsAffected(fakeResult{rows: 1}, "user"))
	})

	t.Run("zero rows is not found", func(t *testing.T) {
		t.Parallel()
		err := CheckRowsAffected(fakeResult{rows: 0}, "user")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("zero rows without entity name", func(t *testing.T) {
		t.Parallel()
		err := CheckRowsAffected(fakeResult{rows: 0}, "")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("rows affected error propagates", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("driver does not support RowsAffected")
		err := CheckRowsAffected(fakeResult{err: cause}, "user")
		assert.ErrorIs(t, err, cause)
	})

	t.Run("nil result", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, CheckRowsAffected(nil, "user"))
	})
}
