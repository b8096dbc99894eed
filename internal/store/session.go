package store

import (
	"context"
	"time"
)

// SessionRow is the persisted form of a tutoring session. StateJSON is an
// opaque serialized domain.SessionState blob that must round-trip exactly
// through save and load.
type SessionRow struct {
	SessionID string
	LearnerID string
	AgeBand   string
	Goal      string
	Locale    string
	StateJSON []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionStore defines the interface for session persistence.
type SessionStore interface {
	// Get retrieves a session by its id.
	// Returns ErrSessionNotFound if the session does not exist.
	Get(ctx context.Context, sessionID string) (*SessionRow, error)

	// GetLatestForLearner retrieves the learner's most recently updated
	// session, used to resume on start.
	// Returns ErrSessionNotFound if the learner has no sessions.
	GetLatestForLearner(ctx context.Context, learnerID string) (*SessionRow, error)

	// Upsert creates the session or, when it already exists, replaces its
	// band/goal/locale, state blob and updated timestamp.
	Upsert(ctx context.Context, row *SessionRow) error

	// UpdateState replaces only the serialized state blob and updated
	// timestamp of an existing session. The write is a single atomic
	// statement; no partial state is ever observable.
	// Returns ErrSessionNotFound if the session does not exist.
	UpdateState(ctx context.Context, sessionID string, stateJSON []byte, updatedAt time.Time) error
}
