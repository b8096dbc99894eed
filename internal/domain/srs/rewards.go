package srs

import "github.com/phrazzld/parla-api/internal/domain"

// Reward tunables. These are display/engagement signals, independent of the
// scheduling state machine.
const (
	xpPerPass    = 5
	xpPerPartial = 2

	// stickerXPThreshold is the XP multiple that earns a sticker.
	stickerXPThreshold = 20
)

// MasteryDelta returns the feedback-display mastery signal for an outcome.
// It is shown to the learner but never stored.
func MasteryDelta(outcome domain.Outcome) int {
	switch outcome {
	case domain.OutcomePass:
		return 2
	case domain.OutcomePartial:
		return 0
	default:
		return -1
	}
}

// XPAward returns the experience points earned for an outcome.
func XPAward(outcome domain.Outcome) int {
	switch outcome {
	case domain.OutcomePass:
		return xpPerPass
	case domain.OutcomePartial:
		return xpPerPartial
	default:
		return 0
	}
}

// StickerEarned reports whether the XP gain from oldXP to newXP crossed a
// sticker threshold. A submission earns at most one sticker even when the
// jump crosses several multiples at once.
func StickerEarned(oldXP, newXP int) bool {
	return newXP/stickerXPThreshold > oldXP/stickerXPThreshold
}
