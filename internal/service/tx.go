package service

import (
	"context"
	"database/sql"

	"github.com/traintrackhq/traintrack-api/internal/store"
)

// TxRunner executes a function within a database transaction.
// It exists so services can be unit-tested without a real database:
// tests substitute a runner that invokes the function directly.
type TxRunner func(ctx context.Context, fn store.TxFn) error

// NewSQLTxRunner returns a TxRunner backed by the given database handle.
func NewSQLTxRunner(db *sql.DB) TxRunner {
	return func(ctx context.Context, fn store.TxFn) error {
		return store.RunInTransaction(ctx, db, fn)
	}
}
