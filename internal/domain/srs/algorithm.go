package srs

import (
	"time"

	"github.com/phrazzld/parla-api/internal/domain"
)

// dayDuration converts a fractional day count into a time.Duration.
func dayDuration(days float64) time.Duration {
	return time.Duration(days * float64(24*time.Hour))
}

// scheduleNext computes the successor of a scheduling record for the given
// outcome. It follows the immutable update pattern: the input record is
// never modified and a fully populated copy is returned.
//
// Transitions:
//   - fail: ease resets to the minimum, interval to 0, the item is due
//     immediately and the streak is cleared. Failed items come straight back.
//   - partial: the interval shrinks by PartialIntervalDecay but never below
//     MinScheduledIntervalDays; ease and streak are left alone.
//   - pass: ease grows by PassEaseBonus up to the cap, the interval is
//     multiplied by the new ease, and the streak advances.
func scheduleNext(
	rec *domain.SchedulingRecord,
	outcome domain.Outcome,
	now time.Time,
	params *Params,
) *domain.SchedulingRecord {
	next := &domain.SchedulingRecord{
		LearnerID:    rec.LearnerID,
		ItemID:       rec.ItemID,
		EaseFactor:   rec.EaseFactor,
		IntervalDays: rec.IntervalDays,
		DueAt:        rec.DueAt,
		Streak:       rec.Streak,
	}

	switch outcome {
	case domain.OutcomeFail:
		next.EaseFactor = params.MinEaseFactor
		next.IntervalDays = 0
		next.DueAt = now
		next.Streak = 0

	case domain.OutcomePartial:
		interval := rec.IntervalDays
		if interval < params.MinScheduledIntervalDays {
			interval = params.MinScheduledIntervalDays
		}
		interval *= params.PartialIntervalDecay
		if interval < params.MinScheduledIntervalDays {
			interval = params.MinScheduledIntervalDays
		}
		next.IntervalDays = interval
		next.DueAt = now.Add(dayDuration(interval))

	case domain.OutcomePass:
		ease := rec.EaseFactor + params.PassEaseBonus
		if ease > params.MaxEaseFactor {
			ease = params.MaxEaseFactor
		}
		next.EaseFactor = ease

		base := rec.IntervalDays
		if base <= 0 {
			base = params.MinScheduledIntervalDays
		}
		if base < params.MinScheduledIntervalDays {
			base = params.MinScheduledIntervalDays
		}
		next.IntervalDays = base * ease
		next.DueAt = now.Add(dayDuration(next.IntervalDays))
		next.Streak = rec.Streak + 1
	}

	return next
}
