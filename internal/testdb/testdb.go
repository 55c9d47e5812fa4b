// Package testdb provides helpers for integration tests that run
// against a real postgres database. Tests skip when no database URL is
// configured, so the default `go test` run stays hermetic.
package testdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver
	"github.com/pressly/goose/v3"
)

// Environment variables checked, in order, for the test database URL.
var urlEnvVars = []string{"TRAINTRACK_TEST_DB_URL", "DATABASE_URL"}

var migrateOnce sync.Once

// URL returns the configured test database URL, or an empty string when
// integration tests cannot run.
func URL() string {
	for _, envVar := range urlEnvVars {
		if url := os.Getenv(envVar); url != "" {
			return url
		}
	}
	return ""
}

// SkipIfNoDatabase skips the test when no test database is configured.
func SkipIfNoDatabase(t *testing.T) {
	t.Helper()
	if URL() == "" {
		t.Skipf("integration test skipped: set %s", strings.Join(urlEnvVars, " or "))
	}
}

// Open connects to the test database, applies migrations once per test
// binary, and registers cleanup of the connection.
func Open(t *testing.T) *sql.DB {
	t.Helper()
	SkipIfNoDatabase(t)

	db, err := sql.Open("pgx", URL())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("test database unreachable: %v", err)
	}

	migrateOnce.Do(func() {
		if err := applyMigrations(db); err != nil {
			t.Fatalf("failed to apply migrations: %v", err)
		}
	})

	return db
}

// WithTx runs fn inside a transaction that is rolled back afterwards,
// so tests never persist modifications and can run in parallel.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// applyMigrations runs the goose migrations from the repository's
// migrations directory, located relative to this source file.
func applyMigrations(db *sql.DB) error {
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		return fmt.Errorf("could not determine source file location")
	}
	migrationsDir := filepath.Join(filepath.Dir(thisFile), "..", "..", "migrations")

	if _, err := os.Stat(migrationsDir); err != nil {
		return fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("failed to run migrations in %s: %w", migrationsDir, err)
	}
	return nil
}
