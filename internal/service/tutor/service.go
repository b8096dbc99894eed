// Package tutor implements the session orchestration loop: selecting the
// next speaking prompt, scoring learner responses, updating mastery
// scheduling, and deciding what to present next.
package tutor

import (
	"context"
	"errors"

	"github.com/phrazzld/parla-api/internal/domain"
)

// Common service errors - sentinel errors used across the tutoring loop.
// Callers check for these with errors.Is(); the API layer maps them to
// HTTP status codes.
var (
	// ErrSessionNotFound indicates the referenced session does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoCurriculumMatch indicates the goal/age-band combination matches
	// zero curriculum items. This is a caller input problem.
	// API layer should map this to HTTP 400 Bad Request.
	ErrNoCurriculumMatch = errors.New("no curriculum items match goal and age band")

	// ErrPendingActivityMissing indicates the pending-activity invariant
	// was violated even after self-healing. This is an internal bug, never
	// user error. API layer should map this to HTTP 500.
	ErrPendingActivityMissing = errors.New("pending activity missing after rescheduling")
)

// StartResult is the response of Start: the session handle, the prompt to
// present, and a read-only snapshot.
type StartResult struct {
	SessionID    string
	NextActivity *domain.Activity
	Snapshot     *domain.SessionSnapshot
}

// ParentNoteReceipt confirms a saved caretaker note.
type ParentNoteReceipt struct {
	SessionID string
	SavedAt   int64 // epoch seconds
}

// Service exposes the tutoring operations a transport layer maps onto.
// Callers must serialize calls per session id; concurrent calls for
// different sessions are safe.
type Service interface {
	// Start creates a session for the learner or resumes their most
	// recent one, applying the new age band, goal and locale while
	// keeping XP, stickers and attempt history. The returned result
	// always carries a pending activity.
	Start(ctx context.Context, learnerID, ageBand, goal, locale string) (*StartResult, error)

	// FetchNext re-runs next-activity selection, replacing any pending
	// activity. Returns ErrSessionNotFound for unknown sessions.
	FetchNext(ctx context.Context, sessionID string) (*domain.Activity, error)

	// SubmitResponse scores the utterance against the pending activity's
	// target phrase, updates scheduling state and rewards, and either
	// advances to a next activity (partial/pass) or returns a review card
	// for the same target (fail).
	SubmitResponse(ctx context.Context, sessionID, utterance string) (*domain.Feedback, error)

	// SetGoal switches the curriculum goal mid-session: clears the
	// pending activity and resets the new-item cursor and throttle, so
	// the next selection draws from the new track only. XP, stickers and
	// history are untouched.
	SetGoal(ctx context.Context, sessionID, goal string) (*domain.SessionSnapshot, error)

	// GetProgress summarizes the learner's most recent session plus a
	// live count of due scheduling records across all tracks.
	GetProgress(ctx context.Context, learnerID string) (*domain.ProgressSummary, error)

	// SaveParentNote attaches a caretaker note to a session; the latest
	// note wins.
	SaveParentNote(ctx context.Context, sessionID, note string) (*ParentNoteReceipt, error)
}
