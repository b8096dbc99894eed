package domain

import "encoding/json"

// Attempt is one entry in a session's append-only attempt log.
// Timestamps are integer epoch seconds so the state blob round-trips
// without precision drift.
type Attempt struct {
	ItemID    string  `json:"item_id"`
	Outcome   Outcome `json:"outcome"`
	Score     int     `json:"score"`
	Timestamp int64   `json:"timestamp"`
}

// PendingActivity is the single in-flight prompt awaiting a learner response
// within a session. At most one exists per session.
type PendingActivity struct {
	ItemID       string   `json:"item_id"`
	TargetPhrase string   `json:"target"`
	PromptText   string   `json:"prompt_text"`
	ScaffoldCN   string   `json:"scaffold_cn,omitempty"`
	Rubric       string   `json:"rubric"`
	TimeboxSec   int      `json:"timebox_sec"`
	LexiconWords []string `json:"lexicon_words,omitempty"`
	Attempts     int      `json:"attempts"` // retries on this prompt so far
}

// SessionState is the full mutable state of one tutoring session. It is
// owned exclusively by the orchestrator during a call and serialized to the
// store between calls; the serialized form must round-trip field for field.
type SessionState struct {
	LearnerID string `json:"learner_id"`
	AgeBand   string `json:"age_band"`
	Goal      string `json:"goal"` // active curriculum track
	Locale    string `json:"locale"`

	XP       int `json:"xp"`
	Stickers int `json:"stickers"`

	// Pending is the currently presented, not-yet-resolved prompt, if any.
	Pending *PendingActivity `json:"pending,omitempty"`

	// NewCursor is the round-robin position into not-yet-seen items.
	NewCursor int `json:"new_cursor"`

	// NewSinceReview throttles how many new items may be introduced before
	// a due review is forced.
	NewSinceReview int `json:"new_since_review"`

	Attempts []Attempt `json:"attempts"`
}

// NewSessionState creates fresh state for a learner's first session.
func NewSessionState(learnerID, ageBand, goal, locale string) *SessionState {
	return &SessionState{
		LearnerID: learnerID,
		AgeBand:   ageBand,
		Goal:      goal,
		Locale:    locale,
		Attempts:  []Attempt{},
	}
}

// MarshalState serializes the session state to its opaque blob form.
func (s *SessionState) MarshalState() ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalSessionState reconstructs session state from its blob form.
func UnmarshalSessionState(data []byte) (*SessionState, error) {
	var state SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	if state.Attempts == nil {
		state.Attempts = []Attempt{}
	}
	return &state, nil
}

// RecentItemIDs returns the item ids of the last n attempts, oldest first.
func (s *SessionState) RecentItemIDs(n int) []string {
	attempts := s.Attempts
	if len(attempts) > n {
		attempts = attempts[len(attempts)-n:]
	}
	ids := make([]string, 0, len(attempts))
	for _, a := range attempts {
		ids = append(ids, a.ItemID)
	}
	return ids
}
