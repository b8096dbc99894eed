package api

import "github.com/phrazzld/parla-api/internal/domain"

// StartSessionRequest is the request body for creating or resuming a
// tutoring session.
type StartSessionRequest struct {
	LearnerID string `json:"learner_id" validate:"required,max=128"`
	AgeBand   string `json:"age_band"   validate:"required"`
	Goal      string `json:"goal"       validate:"required,max=64"`
	Locale    string `json:"locale"     validate:"omitempty,max=16"`
}

// StartSessionResponse is the response body for a started session. The
// token authenticates all subsequent session-scoped requests.
type StartSessionResponse struct {
	SessionID    string                  `json:"session_id"`
	Token        string                  `json:"token"`
	NextActivity *domain.Activity        `json:"next_activity"`
	Snapshot     *domain.SessionSnapshot `json:"snapshot"`
}

// SubmitUtteranceRequest is the request body for scoring a learner
// utterance against the pending activity.
type SubmitUtteranceRequest struct {
	Utterance string `json:"utterance"`
}

// SetGoalRequest is the request body for switching the session goal.
type SetGoalRequest struct {
	Goal string `json:"goal" validate:"required,max=64"`
}

// ParentNoteRequest is the request body for attaching a caretaker note to
// a session.
type ParentNoteRequest struct {
	Note string `json:"note" validate:"required,max=2000"`
}

// ParentNoteResponse confirms a saved caretaker note.
type ParentNoteResponse struct {
	SessionID string `json:"session_id"`
	SavedAt   int64  `json:"saved_at"`
}
