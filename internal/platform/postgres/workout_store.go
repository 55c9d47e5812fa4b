package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/traintrackhq/traintrack-api/internal/domain"
	"github.com/traintrackhq/traintrack-api/internal/platform/logger"
	"github.com/traintrackhq/traintrack-api/internal/store"
)

// PostgresWorkoutStore implements the store.WorkoutStore interface
// using a PostgreSQL database as the storage backend.
type PostgresWorkoutStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresWorkoutStore creates a new PostgreSQL implementation of the
// WorkoutStore interface. If logger is nil, the default logger will be used.
func NewPostgresWorkoutStore(db store.DBTX, logger *slog.Logger) *PostgresWorkoutStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresWorkoutStore{
		db:     db,
		logger: logger.With(slog.String("component", "workout_store")),
	}
}

// Ensure PostgresWorkoutStore implements store.WorkoutStore interface
var _ store.WorkoutStore = (*PostgresWorkoutStore)(nil)

// WithTx implements store.WorkoutStore.WithTx
func (s *PostgresWorkoutStore) WithTx(tx *sql.Tx) store.WorkoutStore {
	return &PostgresWorkoutStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.WorkoutStore.Create
// Returns store.ErrInvalidEntity if the owning user does not exist.
func (s *PostgresWorkoutStore) Create(ctx context.Context, workout *domain.Workout) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := workout.Validate(); err != nil {
		log.Warn("workout validation failed during create",
			slog.String("error", err.Error()),
			slog.String("workout_id", workout.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO workouts (id, user_id, distance, steps, time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		workout.ID,
		workout.UserID,
		workout.Distance,
		workout.Steps,
		workout.Time,
		workout.CreatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during workout creation",
				slog.String("workout_id", workout.ID.String()),
				slog.String("user_id", workout.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, workout.UserID)
		}

		log.Error("failed to create workout",
			slog.String("error", err.Error()),
			slog.String("workout_id", workout.ID.String()),
			slog.String("user_id", workout.UserID.String()))
		return MapError(err)
	}

	log.Info("workout created",
		slog.String("workout_id", workout.ID.String()),
		slog.String("user_id", workout.UserID.String()))
	return nil
}

// GetByID implements store.WorkoutStore.GetByID
func (s *PostgresWorkoutStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, distance, steps, time, created_at
		FROM workouts
		WHERE id = $1
	`

	var workout domain.Workout
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&workout.ID,
		&workout.UserID,
		&workout.Distance,
		&workout.Steps,
		&workout.Time,
		&workout.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			log.Debug("workout not found", slog.String("workout_id", id.String()))
			return nil, store.ErrWorkoutNotFound
		}
		log.Error("failed to get workout by ID",
			slog.String("error", err.Error()),
			slog.String("workout_id", id.String()))
		return nil, MapError(err)
	}

	return &workout, nil
}

// ListByUserID implements store.WorkoutStore.ListByUserID
func (s *PostgresWorkoutStore) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Workout, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, distance, steps, time, created_at
		FROM workouts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list workouts",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var workouts []*domain.Workout
	for rows.Next() {
		var workout domain.Workout
		err := rows.Scan(
			&workout.ID,
			&workout.UserID,
			&workout.Distance,
			&workout.Steps,
			&workout.Time,
			&workout.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan workout row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		workouts = append(workouts, &workout)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	// A user with no workouts gets an empty collection, not an error.
	if workouts == nil {
		workouts = []*domain.Workout{}
	}

	return workouts, nil
}

// CountByUserID implements store.WorkoutStore.CountByUserID
func (s *PostgresWorkoutStore) CountByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var count int
	err := s.db.QueryRowContext(
		ctx,
		"SELECT COUNT(id) FROM workouts WHERE user_id = $1",
		userID,
	).Scan(&count)

	if err != nil {
		log.Error("failed to count workouts",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, MapError(err)
	}

	return count, nil
}

// DeleteByUserID implements store.WorkoutStore.DeleteByUserID
func (s *PostgresWorkoutStore) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, "DELETE FROM workouts WHERE user_id = $1", userID)
	if err != nil {
		log.Error("failed to delete workouts",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return MapError(err)
	}

	// Zero rows deleted is fine; the user simply owned no workouts.
	if rows, err := result.RowsAffected(); err == nil {
		log.Info("workouts deleted",
			slog.String("user_id", userID.String()),
			slog.Int64("count", rows))
	}

	return nil
}
