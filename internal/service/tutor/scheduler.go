package tutor

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/phrazzld/parla-api/internal/domain"
	"github.com/phrazzld/parla-api/internal/store"
)

// newItemsBeforeReview bounds how many new items may be introduced before a
// due review is forced. Two keeps sessions moving without letting due
// reviews pile up behind an endless stream of fresh content; it is a
// tunable, not a law.
const newItemsBeforeReview = 2

// Fixed presentation constants for scheduled prompts.
const (
	activityRubric  = "Meaning first, allow small grammar errors, offer one gentle correction."
	activityTimebox = 12 // seconds
	lexiconHintMax  = 3
)

// planNextActivity selects the next curriculum item for the session and
// installs it as the pending activity (attempt counter reset to zero).
//
// Selection rules, first match wins:
//
//  1. Due items exist and the new-since-review throttle has hit its
//     threshold: take the earliest-due item and reset the throttle.
//  2. Unseen items exist: take the next one round-robin by the new-item
//     cursor, advance the cursor, bump the throttle.
//  3. Due items exist: take the earliest-due one, reset the throttle.
//  4. Everything seen, nothing due: cycle through all candidates by the
//     cursor so the session still makes forward progress. This can
//     re-surface an item ahead of its schedule, which beats stalling.
func (s *serviceImpl) planNextActivity(
	ctx context.Context,
	state *domain.SessionState,
	now time.Time,
) (*domain.Activity, error) {
	band, err := domain.ParseAgeBand(state.AgeBand)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	candidates := s.curriculum.ItemsFor(state.Goal, band)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: goal %q, age band %q", ErrNoCurriculumMatch, state.Goal, state.AgeBand)
	}

	records, err := s.progress.ListForLearner(ctx, state.LearnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scheduling records: %w", err)
	}
	recordByItem := make(map[string]*domain.SchedulingRecord, len(records))
	for _, rec := range records {
		recordByItem[rec.ItemID] = rec
	}

	var dueItems, newItems []domain.CurriculumItem
	for _, item := range candidates {
		rec, seen := recordByItem[item.ItemID]
		switch {
		case !seen:
			newItems = append(newItems, item)
		case rec.Due(now):
			dueItems = append(dueItems, item)
		}
	}
	// Earliest due first; the stable sort keeps catalog order for ties.
	sort.SliceStable(dueItems, func(i, j int) bool {
		return recordByItem[dueItems[i].ItemID].DueAt.Before(recordByItem[dueItems[j].ItemID].DueAt)
	})

	var chosen domain.CurriculumItem
	switch {
	case len(dueItems) > 0 && state.NewSinceReview >= newItemsBeforeReview:
		chosen = dueItems[0]
		state.NewSinceReview = 0
	case len(newItems) > 0:
		chosen = newItems[state.NewCursor%len(newItems)]
		state.NewCursor++
		state.NewSinceReview++
	case len(dueItems) > 0:
		chosen = dueItems[0]
		state.NewSinceReview = 0
	default:
		chosen = candidates[state.NewCursor%len(candidates)]
		state.NewCursor++
	}

	activity := s.buildActivity(chosen, band, state.Goal)
	state.Pending = &domain.PendingActivity{
		ItemID:       activity.ItemID,
		TargetPhrase: activity.TargetPhrase,
		PromptText:   activity.PromptText,
		ScaffoldCN:   activity.ScaffoldCN,
		Rubric:       activity.Rubric,
		TimeboxSec:   activity.TimeboxSec,
		LexiconWords: activity.LexiconWords,
		Attempts:     0,
	}
	return activity, nil
}

// buildActivity turns a curriculum item into a presentable prompt: one
// pattern variant chosen by the injected PRNG, trimmed to the age band's
// token budget, plus the scaffold hint and optional lexicon words.
func (s *serviceImpl) buildActivity(
	item domain.CurriculumItem,
	band domain.AgeBand,
	goal string,
) *domain.Activity {
	pattern := item.Patterns[s.intn(len(item.Patterns))]

	return &domain.Activity{
		ItemID:       item.ItemID,
		PromptText:   trimPrompt(pattern, band),
		TargetPhrase: item.TargetPhrase,
		Rubric:       activityRubric,
		TimeboxSec:   activityTimebox,
		ScaffoldCN:   "我们一起慢慢说：" + item.TargetPhrase,
		LexiconWords: s.lexicon.Sample(band.String(), goal, lexiconHintMax),
	}
}

// trimPrompt truncates a prompt pattern to the band's token budget:
// 8 tokens for learners aged 6 and under, 12 otherwise. Truncation only,
// no re-wording.
func trimPrompt(pattern string, band domain.AgeBand) string {
	maxTokens := 12
	if band.Max <= 6 {
		maxTokens = 8
	}

	tokens := strings.Fields(pattern)
	if len(tokens) <= maxTokens {
		return pattern
	}
	return strings.Join(tokens[:maxTokens], " ")
}

// activityFromPending rebuilds the presentable activity for a pending
// prompt restored from persisted state.
func activityFromPending(pending *domain.PendingActivity) *domain.Activity {
	return &domain.Activity{
		ItemID:       pending.ItemID,
		PromptText:   pending.PromptText,
		TargetPhrase: pending.TargetPhrase,
		Rubric:       pending.Rubric,
		TimeboxSec:   pending.TimeboxSec,
		ScaffoldCN:   pending.ScaffoldCN,
		LexiconWords: pending.LexiconWords,
	}
}

// countDue tallies the learner's scheduling records whose due time has
// passed, across all tracks.
func countDue(records []*domain.SchedulingRecord, now time.Time) int {
	due := 0
	for _, rec := range records {
		if rec.Due(now) {
			due++
		}
	}
	return due
}

// loadRecord fetches the learner's scheduling record for an item, creating
// a fresh one for items never attempted before.
func (s *serviceImpl) loadRecord(
	ctx context.Context,
	learnerID, itemID string,
	now time.Time,
) (*domain.SchedulingRecord, error) {
	rec, err := s.progress.Get(ctx, learnerID, itemID)
	if err == nil {
		return rec, nil
	}
	if !store.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to get scheduling record: %w", err)
	}
	return domain.NewSchedulingRecord(learnerID, itemID, now)
}
