package store

import (
	"context"
	"time"
)

// NoteStore defines the interface for per-session caretaker notes.
type NoteStore interface {
	// Save creates or replaces the note attached to a session; the latest
	// write wins.
	Save(ctx context.Context, sessionID, note string, createdAt time.Time) error

	// Get retrieves the note attached to a session.
	// Returns ErrNoteNotFound if no note has been saved.
	Get(ctx context.Context, sessionID string) (string, error)
}
