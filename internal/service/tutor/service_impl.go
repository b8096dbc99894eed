package tutor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/parla-api/internal/curriculum"
	"github.com/phrazzld/parla-api/internal/domain"
	"github.com/phrazzld/parla-api/internal/domain/srs"
	"github.com/phrazzld/parla-api/internal/evaluation"
	"github.com/phrazzld/parla-api/internal/lexicon"
	"github.com/phrazzld/parla-api/internal/platform/logger"
	"github.com/phrazzld/parla-api/internal/store"
)

// cefrBandEstimate is the coarse proficiency estimate reported to
// caretakers; the curriculum stays within this band.
const cefrBandEstimate = "A0-A1"

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

// serviceImpl implements the Service interface.
type serviceImpl struct {
	sessions   store.SessionStore
	progress   store.ProgressStore
	notes      store.NoteStore
	curriculum *curriculum.Index
	lexicon    *lexicon.Reference
	srsService srs.Service
	logger     *slog.Logger

	// now samples the wall clock once per operation so all due-time
	// comparisons within a call agree.
	now func() time.Time

	// rng drives pattern-variant and praise-message choice. Guarded by
	// rngMu: rand.Rand is not safe for concurrent use and different
	// sessions may run in parallel.
	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option customizes a Service. Primarily used by tests to pin the clock
// and the random source.
type Option func(*serviceImpl)

// WithNowFunc replaces the wall-clock source.
func WithNowFunc(now func() time.Time) Option {
	return func(s *serviceImpl) {
		s.now = now
	}
}

// WithRand replaces the random source used for prompt and praise
// variants.
func WithRand(rng *rand.Rand) Option {
	return func(s *serviceImpl) {
		s.rng = rng
	}
}

// NewService creates a tutoring Service implementation.
func NewService(
	sessions store.SessionStore,
	progress store.ProgressStore,
	notes store.NoteStore,
	index *curriculum.Index,
	lex *lexicon.Reference,
	srsService srs.Service,
	log *slog.Logger,
	opts ...Option,
) Service {
	if sessions == nil {
		panic("sessions store cannot be nil")
	}
	if progress == nil {
		panic("progress store cannot be nil")
	}
	if notes == nil {
		panic("notes store cannot be nil")
	}
	if index == nil {
		panic("curriculum index cannot be nil")
	}
	if lex == nil {
		panic("lexicon cannot be nil")
	}
	if srsService == nil {
		panic("srs service cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &serviceImpl{
		sessions:   sessions,
		progress:   progress,
		notes:      notes,
		curriculum: index,
		lexicon:    lex,
		srsService: srsService,
		logger:     log.With(slog.String("component", "tutor_service")),
		now:        time.Now,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// intn draws from the injected random source under the service's lock.
func (s *serviceImpl) intn(n int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Intn(n)
}

// Start implements Service.Start.
func (s *serviceImpl) Start(
	ctx context.Context,
	learnerID, ageBand, goal, locale string,
) (*StartResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now().UTC()

	if learnerID == "" {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, domain.ErrEmptyLearnerID)
	}
	if _, err := domain.ParseAgeBand(ageBand); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if locale == "" {
		locale = "zh-CN"
	}

	existing, err := s.sessions.GetLatestForLearner(ctx, learnerID)
	if err != nil && !store.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to look up sessions for learner: %w", err)
	}

	var sessionID string
	var state *domain.SessionState
	var createdAt time.Time

	if existing != nil {
		// Resume: apply the new band/goal/locale, keep XP, stickers and
		// attempt history.
		sessionID = existing.SessionID
		createdAt = existing.CreatedAt
		state, err = domain.UnmarshalSessionState(existing.StateJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to decode session state: %w", err)
		}
		state.LearnerID = learnerID
		state.AgeBand = ageBand
		state.Goal = goal
		state.Locale = locale

		log.Debug("resuming session",
			slog.String("session_id", sessionID),
			slog.String("learner_id", learnerID))
	} else {
		sessionID = newSessionID()
		createdAt = now
		state = domain.NewSessionState(learnerID, ageBand, goal, locale)

		log.Debug("creating session",
			slog.String("session_id", sessionID),
			slog.String("learner_id", learnerID))
	}

	var activity *domain.Activity
	if state.Pending != nil {
		activity = activityFromPending(state.Pending)
	} else {
		activity, err = s.planNextActivity(ctx, state, now)
		if err != nil {
			return nil, err
		}
	}

	stateJSON, err := state.MarshalState()
	if err != nil {
		return nil, fmt.Errorf("failed to encode session state: %w", err)
	}
	row := &store.SessionRow{
		SessionID: sessionID,
		LearnerID: learnerID,
		AgeBand:   ageBand,
		Goal:      goal,
		Locale:    locale,
		StateJSON: stateJSON,
		CreatedAt: createdAt,
		UpdatedAt: now,
	}
	if err := s.sessions.Upsert(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	log.Info("session started",
		slog.String("session_id", sessionID),
		slog.String("learner_id", learnerID),
		slog.String("goal", goal),
		slog.String("age_band", ageBand))

	return &StartResult{
		SessionID:    sessionID,
		NextActivity: activity,
		Snapshot:     snapshot(sessionID, state),
	}, nil
}

// FetchNext implements Service.FetchNext.
func (s *serviceImpl) FetchNext(ctx context.Context, sessionID string) (*domain.Activity, error) {
	now := s.now().UTC()

	_, state, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	activity, err := s.planNextActivity(ctx, state, now)
	if err != nil {
		return nil, err
	}

	if err := s.persistState(ctx, sessionID, state, now); err != nil {
		return nil, err
	}
	return activity, nil
}

// SubmitResponse implements Service.SubmitResponse.
func (s *serviceImpl) SubmitResponse(
	ctx context.Context,
	sessionID, utterance string,
) (*domain.Feedback, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now().UTC()

	_, state, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Self-heal a missing pending activity by scheduling one. This keeps
	// a resumed dialog moving; it is not an error.
	if state.Pending == nil {
		if _, err := s.planNextActivity(ctx, state, now); err != nil {
			return nil, err
		}
		if err := s.persistState(ctx, sessionID, state, now); err != nil {
			return nil, err
		}
	}
	pending := state.Pending
	if pending == nil || pending.TargetPhrase == "" {
		// The invariant says scheduling always installs a pending prompt
		// with a target; reaching this is a bug, so fail loudly.
		return nil, ErrPendingActivityMissing
	}

	result := evaluation.Evaluate(utterance, pending.TargetPhrase)
	outcome := evaluation.OutcomeForScore(result.Total())
	masteryDelta := srs.MasteryDelta(outcome)
	xpDelta := srs.XPAward(outcome)

	var award *domain.Award
	if xpDelta > 0 {
		oldXP := state.XP
		state.XP += xpDelta
		if srs.StickerEarned(oldXP, state.XP) {
			state.Stickers++
		}
		award = &domain.Award{XP: xpDelta, Stickers: state.Stickers}
	}

	rec, err := s.loadRecord(ctx, state.LearnerID, pending.ItemID, now)
	if err != nil {
		return nil, err
	}
	newRec, err := s.srsService.Schedule(rec, outcome, now)
	if err != nil {
		return nil, fmt.Errorf("failed to update scheduling record: %w", err)
	}
	if err := s.progress.Upsert(ctx, newRec); err != nil {
		return nil, fmt.Errorf("failed to persist scheduling record: %w", err)
	}

	state.Attempts = append(state.Attempts, domain.Attempt{
		ItemID:    pending.ItemID,
		Outcome:   outcome,
		Score:     result.Total(),
		Timestamp: now.Unix(),
	})

	feedbackText, scaffold := s.buildFeedback(outcome, pending.TargetPhrase)

	log.Debug("utterance scored",
		slog.String("session_id", sessionID),
		slog.String("item_id", pending.ItemID),
		slog.String("outcome", string(outcome)),
		slog.Int("score", result.Total()))

	if outcome == domain.OutcomeFail {
		// The learner retries the same target: bump the attempt counter,
		// hand back a review card, and do not advance the scheduler.
		pending.Attempts++
		review := reviewCard(pending)
		if err := s.persistState(ctx, sessionID, state, now); err != nil {
			return nil, err
		}
		return &domain.Feedback{
			FeedbackText: feedbackText,
			MasteryDelta: masteryDelta,
			ScaffoldCN:   scaffold,
			Award:        award,
			ReviewCard:   review,
		}, nil
	}

	nextActivity, err := s.planNextActivity(ctx, state, now)
	if err != nil {
		return nil, err
	}
	if err := s.persistState(ctx, sessionID, state, now); err != nil {
		return nil, err
	}
	return &domain.Feedback{
		FeedbackText: feedbackText,
		MasteryDelta: masteryDelta,
		ScaffoldCN:   scaffold,
		Award:        award,
		NextActivity: nextActivity,
	}, nil
}

// SetGoal implements Service.SetGoal.
func (s *serviceImpl) SetGoal(
	ctx context.Context,
	sessionID, goal string,
) (*domain.SessionSnapshot, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now().UTC()

	_, state, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	state.Goal = goal
	state.NewCursor = 0
	state.NewSinceReview = 0
	state.Pending = nil

	if err := s.persistState(ctx, sessionID, state, now); err != nil {
		return nil, err
	}

	log.Info("session goal changed",
		slog.String("session_id", sessionID),
		slog.String("goal", goal))

	return snapshot(sessionID, state), nil
}

// GetProgress implements Service.GetProgress. A learner with no sessions
// yields a zero summary, not an error.
func (s *serviceImpl) GetProgress(
	ctx context.Context,
	learnerID string,
) (*domain.ProgressSummary, error) {
	now := s.now().UTC()

	summary := &domain.ProgressSummary{
		CEFRBandEstimate: cefrBandEstimate,
		RecentItems:      []string{},
	}

	row, err := s.sessions.GetLatestForLearner(ctx, learnerID)
	if err != nil && !store.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to look up sessions for learner: %w", err)
	}
	if row != nil {
		state, err := domain.UnmarshalSessionState(row.StateJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to decode session state: %w", err)
		}
		summary.XP = state.XP
		summary.Stickers = state.Stickers
		summary.RecentItems = state.RecentItemIDs(5)
	}

	records, err := s.progress.ListForLearner(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scheduling records: %w", err)
	}
	summary.DueReviews = countDue(records, now)

	return summary, nil
}

// SaveParentNote implements Service.SaveParentNote.
func (s *serviceImpl) SaveParentNote(
	ctx context.Context,
	sessionID, note string,
) (*ParentNoteReceipt, error) {
	now := s.now().UTC()

	if err := s.notes.Save(ctx, sessionID, note, now); err != nil {
		return nil, fmt.Errorf("failed to save parent note: %w", err)
	}

	return &ParentNoteReceipt{SessionID: sessionID, SavedAt: now.Unix()}, nil
}

// loadSession fetches a session row and decodes its state blob.
func (s *serviceImpl) loadSession(
	ctx context.Context,
	sessionID string,
) (*store.SessionRow, *domain.SessionState, error) {
	row, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return nil, nil, fmt.Errorf("failed to get session: %w", err)
	}

	state, err := domain.UnmarshalSessionState(row.StateJSON)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode session state: %w", err)
	}
	return row, state, nil
}

// persistState writes the full session state back as one atomic update.
func (s *serviceImpl) persistState(
	ctx context.Context,
	sessionID string,
	state *domain.SessionState,
	now time.Time,
) error {
	stateJSON, err := state.MarshalState()
	if err != nil {
		return fmt.Errorf("failed to encode session state: %w", err)
	}
	if err := s.sessions.UpdateState(ctx, sessionID, stateJSON, now); err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return fmt.Errorf("failed to persist session state: %w", err)
	}
	return nil
}

// snapshot builds the read-only view returned from Start and SetGoal.
func snapshot(sessionID string, state *domain.SessionState) *domain.SessionSnapshot {
	attempts := make([]domain.Attempt, len(state.Attempts))
	copy(attempts, state.Attempts)

	return &domain.SessionSnapshot{
		SessionID: sessionID,
		LearnerID: state.LearnerID,
		AgeBand:   state.AgeBand,
		Goal:      state.Goal,
		Locale:    state.Locale,
		XP:        state.XP,
		Stickers:  state.Stickers,
		Attempts:  attempts,
	}
}

// newSessionID generates an opaque session identifier.
func newSessionID() string {
	id := uuid.New()
	return fmt.Sprintf("sess_%x", id[:])
}
