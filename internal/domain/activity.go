package domain

// Activity is a presentable speaking prompt handed to the transport layer.
type Activity struct {
	ItemID       string   `json:"item_id"`
	PromptText   string   `json:"prompt_text"`
	TargetPhrase string   `json:"target_phrase"`
	Rubric       string   `json:"rubric"`
	TimeboxSec   int      `json:"timebox_sec"`
	ScaffoldCN   string   `json:"scaffold_cn,omitempty"`
	LexiconWords []string `json:"lexicon_words,omitempty"`
}

// Award reports reward progress earned by a submission.
type Award struct {
	XP       int `json:"xp"`       // points earned by this submission
	Stickers int `json:"stickers"` // cumulative sticker count after the submission
}

// Feedback is the full result of scoring a learner response.
type Feedback struct {
	FeedbackText string    `json:"feedback_text"`
	MasteryDelta int       `json:"mastery_delta"`
	ScaffoldCN   string    `json:"scaffold_cn,omitempty"`
	Award        *Award    `json:"award,omitempty"`
	NextActivity *Activity `json:"next_activity,omitempty"` // set on partial/pass
	ReviewCard   *Activity `json:"review_card,omitempty"`   // set on fail; same target, retried
}

// SessionSnapshot is a read-only view of a session returned from start and
// setGoal.
type SessionSnapshot struct {
	SessionID string    `json:"session_id"`
	LearnerID string    `json:"learner_id"`
	AgeBand   string    `json:"age_band"`
	Goal      string    `json:"goal"`
	Locale    string    `json:"locale"`
	XP        int       `json:"xp"`
	Stickers  int       `json:"stickers"`
	Attempts  []Attempt `json:"attempts"`
}

// ProgressSummary summarizes a learner's progress for caretakers.
type ProgressSummary struct {
	CEFRBandEstimate string   `json:"cefr_band_estimate"`
	XP               int      `json:"xp"`
	Stickers         int      `json:"stickers"`
	RecentItems      []string `json:"recent_items"`
	DueReviews       int      `json:"due_reviews"`
}
