package srs

import (
	"testing"
	"time"

	"github.com/phrazzld/parla-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(t *testing.T, ease, interval float64, streak int, due time.Time) *domain.SchedulingRecord {
	t.Helper()
	rec := &domain.SchedulingRecord{
		LearnerID:    "learner-1",
		ItemID:       "greet-hello",
		EaseFactor:   ease,
		IntervalDays: interval,
		DueAt:        due,
		Streak:       streak,
	}
	require.NoError(t, rec.Validate())
	return rec
}

func TestScheduleFail(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := NewDefaultService()

	rec := testRecord(t, 2.0, 5.0, 3, now.Add(-time.Hour))

	next, err := svc.Schedule(rec, domain.OutcomeFail, now)
	require.NoError(t, err)

	assert.Equal(t, domain.MinEaseFactor, next.EaseFactor, "ease resets to minimum")
	assert.Equal(t, 0.0, next.IntervalDays)
	assert.Equal(t, now, next.DueAt, "failed item is due immediately")
	assert.Equal(t, 0, next.Streak)
	assert.True(t, next.Due(now))
}

func TestSchedulePartial(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := NewDefaultService()

	tests := []struct {
		name             string
		interval         float64
		expectedInterval float64
	}{
		{
			name:             "interval shrinks by decay factor",
			interval:         5.0,
			expectedInterval: 4.0,
		},
		{
			name:             "small interval floors at one day",
			interval:         1.0,
			expectedInterval: 1.0,
		},
		{
			name:             "zero interval treated as one day before decay",
			interval:         0.0,
			expectedInterval: 1.0,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := testRecord(t, 1.8, tc.interval, 2, now.Add(-time.Hour))

			next, err := svc.Schedule(rec, domain.OutcomePartial, now)
			require.NoError(t, err)

			assert.InDelta(t, tc.expectedInterval, next.IntervalDays, 1e-9)
			assert.Equal(t, rec.EaseFactor, next.EaseFactor, "partial leaves ease alone")
			assert.Equal(t, rec.Streak, next.Streak, "partial leaves streak alone")
			assert.False(t, next.Due(now), "partial pushes the item into the future")

			wantDue := now.Add(time.Duration(tc.expectedInterval * float64(24*time.Hour)))
			assert.WithinDuration(t, wantDue, next.DueAt, time.Second)
		})
	}
}

func TestSchedulePass(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := NewDefaultService()

	t.Run("first pass from a fresh record", func(t *testing.T) {
		t.Parallel()

		rec := testRecord(t, domain.MinEaseFactor, 0, 0, now)

		next, err := svc.Schedule(rec, domain.OutcomePass, now)
		require.NoError(t, err)

		assert.InDelta(t, 1.35, next.EaseFactor, 1e-9)
		assert.InDelta(t, 1.35, next.IntervalDays, 1e-9, "zero interval bases at one day")
		assert.Equal(t, 1, next.Streak)
		assert.False(t, next.Due(now))
	})

	t.Run("interval grows multiplicatively", func(t *testing.T) {
		t.Parallel()

		rec := testRecord(t, 2.0, 4.0, 3, now.Add(-time.Hour))

		next, err := svc.Schedule(rec, domain.OutcomePass, now)
		require.NoError(t, err)

		assert.InDelta(t, 2.05, next.EaseFactor, 1e-9)
		assert.InDelta(t, 4.0*2.05, next.IntervalDays, 1e-9)
		assert.Equal(t, 4, next.Streak)
	})

	t.Run("ease is capped at the maximum", func(t *testing.T) {
		t.Parallel()

		rec := testRecord(t, 2.48, 10.0, 8, now.Add(-time.Hour))

		next, err := svc.Schedule(rec, domain.OutcomePass, now)
		require.NoError(t, err)

		assert.Equal(t, domain.MaxEaseFactor, next.EaseFactor)
	})

	t.Run("repeated passes never exceed the ease cap", func(t *testing.T) {
		t.Parallel()

		rec := testRecord(t, domain.MinEaseFactor, 0, 0, now)
		clock := now
		for i := 0; i < 40; i++ {
			next, err := svc.Schedule(rec, domain.OutcomePass, clock)
			require.NoError(t, err)
			assert.LessOrEqual(t, next.EaseFactor, domain.MaxEaseFactor)
			assert.GreaterOrEqual(t, next.EaseFactor, rec.EaseFactor, "ease is monotone under passes")
			rec = next
			clock = next.DueAt
		}
		assert.Equal(t, domain.MaxEaseFactor, rec.EaseFactor)
		assert.Equal(t, 40, rec.Streak)
	})
}

func TestScheduleDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := NewDefaultService()

	rec := testRecord(t, 2.0, 5.0, 3, now.Add(-time.Hour))
	before := *rec

	for _, outcome := range []domain.Outcome{domain.OutcomeFail, domain.OutcomePartial, domain.OutcomePass} {
		_, err := svc.Schedule(rec, outcome, now)
		require.NoError(t, err)
		assert.Equal(t, before, *rec)
	}
}

func TestScheduleIsDeterministic(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := NewDefaultService()

	rec := testRecord(t, 1.9, 3.0, 2, now.Add(-time.Hour))

	first, err := svc.Schedule(rec, domain.OutcomePass, now)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := svc.Schedule(rec, domain.OutcomePass, now)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestScheduleInvalidInputs(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	svc := NewDefaultService()

	t.Run("nil record", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Schedule(nil, domain.OutcomePass, now)
		assert.ErrorIs(t, err, ErrNilRecord)
	})

	t.Run("unknown outcome", func(t *testing.T) {
		t.Parallel()
		rec := testRecord(t, domain.MinEaseFactor, 0, 0, now)
		_, err := svc.Schedule(rec, domain.Outcome("easy"), now)
		assert.ErrorIs(t, err, ErrInvalidOutcome)
	})
}
