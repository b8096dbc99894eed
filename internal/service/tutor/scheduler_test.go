package tutor

import (
	"context"
	"testing"
	"time"

	"github.com/phrazzld/parla-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerForcesDueReviewAfterTwoNewItems(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	result := env.start(t)
	failedItem := result.NextActivity.ItemID

	// Failing the first item makes it due immediately.
	_, err := env.service.SubmitResponse(context.Background(), result.SessionID, "")
	require.NoError(t, err)

	// One new item was already introduced by Start; a second is allowed.
	second, err := env.service.FetchNext(context.Background(), result.SessionID)
	require.NoError(t, err)
	assert.NotEqual(t, failedItem, second.ItemID)

	// The throttle has now seen two new items, so the due review wins
	// even though unseen items remain.
	third, err := env.service.FetchNext(context.Background(), result.SessionID)
	require.NoError(t, err)
	assert.Equal(t, failedItem, third.ItemID)
}

func TestSchedulerPrefersNewItemsUnderThrottle(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	result := env.start(t)

	// With nothing due, selection keeps introducing unseen items.
	activity, err := env.service.FetchNext(context.Background(), result.SessionID)
	require.NoError(t, err)
	assert.NotEqual(t, result.NextActivity.ItemID, activity.ItemID)
}

func TestSchedulerEarliestDueWins(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	result := env.start(t)

	// Seed records so every eligible item has been seen: g-2 due longest
	// ago, g-1 due more recently, g-3 not due yet.
	mustRecord := func(itemID string, due time.Time) {
		rec := &domain.SchedulingRecord{
			LearnerID:    "learner-1",
			ItemID:       itemID,
			EaseFactor:   domain.MinEaseFactor,
			IntervalDays: 1,
			DueAt:        due,
			Streak:       1,
		}
		require.NoError(t, env.progress.Upsert(context.Background(), rec))
	}
	mustRecord("g-1", env.now.Add(-time.Hour))
	mustRecord("g-2", env.now.Add(-48*time.Hour))
	mustRecord("g-3", env.now.Add(72*time.Hour))

	activity, err := env.service.FetchNext(context.Background(), result.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "g-2", activity.ItemID, "most overdue item is selected first")
}

func TestSchedulerCyclesWhenNothingIsDue(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	result := env.start(t)

	// Everything seen, nothing due: the session still moves forward.
	future := env.now.Add(72 * time.Hour)
	for _, itemID := range []string{"g-1", "g-2", "g-3"} {
		rec := &domain.SchedulingRecord{
			LearnerID:    "learner-1",
			ItemID:       itemID,
			EaseFactor:   domain.MinEaseFactor,
			IntervalDays: 1,
			DueAt:        future,
			Streak:       1,
		}
		require.NoError(t, env.progress.Upsert(context.Background(), rec))
	}

	activity, err := env.service.FetchNext(context.Background(), result.SessionID)
	require.NoError(t, err)
	assert.NotEmpty(t, activity.ItemID)
	assert.NotNil(t, activity)
}

func TestTrimPrompt(t *testing.T) {
	t.Parallel()

	young := domain.AgeBand{Min: 3, Max: 6}
	older := domain.AgeBand{Min: 7, Max: 10}
	long := "one two three four five six seven eight nine ten eleven twelve thirteen"

	assert.Equal(t, "one two three four five six seven eight",
		trimPrompt(long, young), "young learners get at most eight tokens")
	assert.Equal(t, "one two three four five six seven eight nine ten eleven twelve",
		trimPrompt(long, older), "older learners get at most twelve tokens")
	assert.Equal(t, "Say hello!", trimPrompt("Say hello!", young), "short prompts pass through")
}
