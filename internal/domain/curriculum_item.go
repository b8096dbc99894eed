package domain

import "fmt"

// CurriculumItem is a single target phrase in the static catalog.
// Items are loaded once at startup and never mutated.
type CurriculumItem struct {
	Track        string   // content category the item belongs to, e.g. "greetings"
	ItemID       string   // unique within the track
	MinAge       int      // inclusive lower bound of the eligible age range
	MaxAge       int      // inclusive upper bound of the eligible age range
	TargetPhrase string   // the phrase the learner should say
	Patterns     []string // prompt pattern variants; at least one
}

// Validate checks that the item carries all required fields.
// Malformed items are a fatal startup error, not a runtime condition.
func (i *CurriculumItem) Validate() error {
	if i.Track == "" {
		return fmt.Errorf("%w: curriculum item missing track", ErrValidation)
	}
	if i.ItemID == "" {
		return fmt.Errorf("%w: %v", ErrValidation, ErrEmptyItemID)
	}
	if i.TargetPhrase == "" {
		return fmt.Errorf("%w: %v", ErrValidation, ErrEmptyTargetPhrase)
	}
	if i.MinAge < 0 || i.MaxAge < i.MinAge {
		return fmt.Errorf("%w: curriculum item %s has invalid age range %d-%d",
			ErrValidation, i.ItemID, i.MinAge, i.MaxAge)
	}
	if len(i.Patterns) == 0 {
		return fmt.Errorf("%w: curriculum item %s has no prompt patterns",
			ErrValidation, i.ItemID)
	}
	return nil
}
