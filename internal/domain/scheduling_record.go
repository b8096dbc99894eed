package domain

import "time"

// Scheduling bounds shared by the record and the srs engine.
const (
	MinEaseFactor = 1.3
	MaxEaseFactor = 2.5
)

// SchedulingRecord tracks a learner's spaced-repetition state for a single
// curriculum item. Records are created on the first attempt at an item and
// updated on every subsequent attempt; they are never deleted.
type SchedulingRecord struct {
	LearnerID    string    `json:"learner_id"`
	ItemID       string    `json:"item_id"`
	EaseFactor   float64   `json:"ease_factor"`   // bounded multiplier, starts at 1.3, capped at 2.5
	IntervalDays float64   `json:"interval_days"` // fractional days until the next review
	DueAt        time.Time `json:"due_at"`        // when the item next becomes due
	Streak       int       `json:"streak"`        // consecutive-success count
}

// NewSchedulingRecord creates a record for an item the learner has not seen
// before. New items are due immediately.
func NewSchedulingRecord(learnerID, itemID string, now time.Time) (*SchedulingRecord, error) {
	rec := &SchedulingRecord{
		LearnerID:    learnerID,
		ItemID:       itemID,
		EaseFactor:   MinEaseFactor,
		IntervalDays: 0,
		DueAt:        now,
		Streak:       0,
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// Validate checks the record invariants: interval >= 0, ease within
// [1.3, 2.5], streak >= 0.
func (r *SchedulingRecord) Validate() error {
	if r.LearnerID == "" {
		return ErrEmptyLearnerID
	}
	if r.ItemID == "" {
		return ErrEmptyItemID
	}
	if r.IntervalDays < 0 {
		return ErrInvalidInterval
	}
	if r.EaseFactor < MinEaseFactor || r.EaseFactor > MaxEaseFactor {
		return ErrInvalidEaseFactor
	}
	if r.Streak < 0 {
		return ErrInvalidStreak
	}
	return nil
}

// Due reports whether the item is due for review at the given time.
func (r *SchedulingRecord) Due(now time.Time) bool {
	return !r.DueAt.After(now)
}
