package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/traintrackhq/traintrack-api/internal/config"
	"github.com/traintrackhq/traintrack-api/internal/platform/postgres"
	"github.com/traintrackhq/traintrack-api/internal/service"
	"github.com/traintrackhq/traintrack-api/internal/service/auth"
	"github.com/traintrackhq/traintrack-api/internal/store"
)

// application holds the shared application dependencies to simplify
// wiring and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (interfaces, so tests can swap in doubles)
	userStore    store.UserStore
	workoutStore store.WorkoutStore

	// Services
	tokenService   auth.TokenService
	passwordHasher auth.PasswordHasher
	accountService *service.AccountService
	workoutService *service.WorkoutService
}

// newApplication creates an application instance with all dependencies
// initialized. Configuration, logging, and the database connection must
// already be established.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.tokenService, err = auth.NewTokenService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	logger.Info("Session token service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordHasher = auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.workoutStore = postgres.NewPostgresWorkoutStore(db, logger)

	app.accountService, err = service.NewAccountService(
		app.userStore,
		app.workoutStore,
		app.passwordHasher,
		service.NewSQLTxRunner(db),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize account service: %w", err)
	}

	app.workoutService, err = service.NewWorkoutService(
		app.userStore,
		app.workoutStore,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize workout service: %w", err)
	}

	return app, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Failed to close database connection", "error", err)
		}
	}
}
