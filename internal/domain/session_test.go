package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStateRoundTrip(t *testing.T) {
	t.Parallel()

	state := NewSessionState("learner-1", "5-6", "greetings", "zh-CN")
	state.XP = 17
	state.Stickers = 1
	state.NewCursor = 3
	state.NewSinceReview = 2
	state.Pending = &PendingActivity{
		ItemID:       "greet-hello",
		TargetPhrase: "Hello, my name is Mia",
		PromptText:   "Say hello and tell me your name",
		ScaffoldCN:   "我们一起慢慢说：Hello, my name is Mia",
		Rubric:       "Meaning first, allow small grammar errors, offer one gentle correction.",
		TimeboxSec:   12,
		LexiconWords: []string{"hello", "name"},
		Attempts:     1,
	}
	state.Attempts = []Attempt{
		{ItemID: "greet-hello", Outcome: OutcomePass, Score: 7, Timestamp: 1740825600},
		{ItemID: "greet-hi-name", Outcome: OutcomePartial, Score: 4, Timestamp: 1740825660},
	}

	blob, err := state.MarshalState()
	require.NoError(t, err)

	restored, err := UnmarshalSessionState(blob)
	require.NoError(t, err)
	assert.Equal(t, state, restored)
}

func TestUnmarshalSessionStateDefaults(t *testing.T) {
	t.Parallel()

	t.Run("missing attempts become an empty slice", func(t *testing.T) {
		t.Parallel()

		restored, err := UnmarshalSessionState([]byte(`{"learner_id":"l1","age_band":"5-6","goal":"greetings","locale":"zh-CN","xp":0,"stickers":0,"new_cursor":0,"new_since_review":0}`))
		require.NoError(t, err)
		assert.NotNil(t, restored.Attempts)
		assert.Empty(t, restored.Attempts)
		assert.Nil(t, restored.Pending)
	})

	t.Run("malformed blob is an error", func(t *testing.T) {
		t.Parallel()

		_, err := UnmarshalSessionState([]byte(`{"learner_id":`))
		assert.Error(t, err)
	})
}

func TestRecentItemIDs(t *testing.T) {
	t.Parallel()

	state := NewSessionState("learner-1", "5-6", "greetings", "zh-CN")
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		state.Attempts = append(state.Attempts, Attempt{ItemID: id, Outcome: OutcomePass})
	}

	assert.Equal(t, []string{"c", "d", "e", "f", "g"}, state.RecentItemIDs(5))
	assert.Equal(t, []string{"g"}, state.RecentItemIDs(1))
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g"}, state.RecentItemIDs(10))

	empty := NewSessionState("learner-2", "5-6", "greetings", "zh-CN")
	assert.Empty(t, empty.RecentItemIDs(5))
}
