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

// PostgresNoteStore implements the store.NoteStore interface using a
// PostgreSQL database as the storage backend.
type PostgresNoteStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresNoteStore creates a new PostgreSQL implementation of the
// NoteStore interface. If logger is nil, a default logger will be used.
func NewPostgresNoteStore(db store.DBTX, logger *slog.Logger) *PostgresNoteStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresNoteStore{
		db:     db,
		logger: logger.With(slog.String("component", "note_store")),
	}
}

// Ensure PostgresNoteStore implements store.NoteStore interface
var _ store.NoteStore = (*PostgresNoteStore)(nil)

// Save implements store.NoteStore.Save. The latest note per session wins.
func (s *PostgresNoteStore) Save(
	ctx context.Context,
	sessionID, note string,
	createdAt time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO parent_notes (session_id, note_cn, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id) DO UPDATE SET
			note_cn = excluded.note_cn,
			created_at = excluded.created_at
	`

	_, err := s.db.ExecContext(ctx, query, sessionID, note, createdAt)
	if err != nil {
		log.Error("failed to save parent note",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID))
		return err
	}

	log.Debug("parent note saved", slog.String("session_id", sessionID))
	return nil
}

// Get implements store.NoteStore.Get.
// Returns store.ErrNoteNotFound if no note has been saved for the session.
func (s *PostgresNoteStore) Get(ctx context.Context, sessionID string) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT note_cn FROM parent_notes WHERE session_id = $1`

	var note string
	err := s.db.QueryRowContext(ctx, query, sessionID).Scan(&note)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", store.ErrNoteNotFound
		}
		log.Error("failed to get parent note",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID))
		return "", err
	}

	return note, nil
}
