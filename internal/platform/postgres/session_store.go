package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/parla-api/internal/platform/logger"
	"github.com/phrazzld/parla-api/internal/store"
)

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the
// SessionStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*PostgresSessionStore)(nil)

// Get implements store.SessionStore.Get.
// Returns store.ErrSessionNotFound if the session does not exist.
func (s *PostgresSessionStore) Get(ctx context.Context, sessionID string) (*store.SessionRow, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT session_id, learner_id, age_band, goal, locale, state_json, created_at, updated_at
		FROM sessions
		WHERE session_id = $1
	`

	row, err := scanSessionRow(s.db.QueryRowContext(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("session not found", slog.String("session_id", sessionID))
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to get session",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID))
		return nil, err
	}

	return row, nil
}

// GetLatestForLearner implements store.SessionStore.GetLatestForLearner.
// Returns store.ErrSessionNotFound if the learner has no sessions.
func (s *PostgresSessionStore) GetLatestForLearner(
	ctx context.Context,
	learnerID string,
) (*store.SessionRow, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT session_id, learner_id, age_band, goal, locale, state_json, created_at, updated_at
		FROM sessions
		WHERE learner_id = $1
		ORDER BY updated_at DESC
		LIMIT 1
	`

	row, err := scanSessionRow(s.db.QueryRowContext(ctx, query, learnerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no sessions for learner", slog.String("learner_id", learnerID))
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to get latest session for learner",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID))
		return nil, err
	}

	return row, nil
}

// Upsert implements store.SessionStore.Upsert.
// Existing sessions keep their created_at; band, goal, locale, state and
// updated_at are replaced.
func (s *PostgresSessionStore) Upsert(ctx context.Context, row *store.SessionRow) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO sessions (session_id, learner_id, age_band, goal, locale, state_json, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (session_id) DO UPDATE SET
			age_band = excluded.age_band,
			goal = excluded.goal,
			locale = excluded.locale,
			state_json = excluded.state_json,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		row.SessionID,
		row.LearnerID,
		row.AgeBand,
		row.Goal,
		row.Locale,
		row.StateJSON,
		row.CreatedAt,
		row.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to upsert session",
			slog.String("error", err.Error()),
			slog.String("session_id", row.SessionID),
			slog.String("learner_id", row.LearnerID))
		return err
	}

	log.Debug("session upserted",
		slog.String("session_id", row.SessionID),
		slog.String("learner_id", row.LearnerID))
	return nil
}

// UpdateState implements store.SessionStore.UpdateState.
// Returns store.ErrSessionNotFound if the session does not exist.
func (s *PostgresSessionStore) UpdateState(
	ctx context.Context,
	sessionID string,
	stateJSON []byte,
	updatedAt time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE sessions
		SET state_json = $1, updated_at = $2
		WHERE session_id = $3
	`

	result, err := s.db.ExecContext(ctx, query, stateJSON, updatedAt, sessionID)
	if err != nil {
		log.Error("failed to update session state",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID))
		return err
	}
	if rowsAffected == 0 {
		log.Debug("session not found for state update",
			slog.String("session_id", sessionID))
		return store.ErrSessionNotFound
	}

	return nil
}

// rowScanner abstracts *sql.Row for single-row scans.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSessionRow(r rowScanner) (*store.SessionRow, error) {
	var row store.SessionRow
	err := r.Scan(
		&row.SessionID,
		&row.LearnerID,
		&row.AgeBand,
		&row.Goal,
		&row.Locale,
		&row.StateJSON,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &row, nil
}
