package tutor

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/parla-api/internal/curriculum"
	"github.com/phrazzld/parla-api/internal/domain"
	"github.com/phrazzld/parla-api/internal/domain/srs"
	"github.com/phrazzld/parla-api/internal/lexicon"
	"github.com/phrazzld/parla-api/internal/store"
	"github.com/stretchr/testify/require"
)

// fakeSessionStore is an in-memory store.SessionStore.
type fakeSessionStore struct {
	mu   sync.Mutex
	rows map[string]*store.SessionRow
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{rows: make(map[string]*store.SessionRow)}
}

func copyRow(row *store.SessionRow) *store.SessionRow {
	cp := *row
	cp.StateJSON = append([]byte(nil), row.StateJSON...)
	return &cp
}

func (f *fakeSessionStore) Get(_ context.Context, sessionID string) (*store.SessionRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[sessionID]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	return copyRow(row), nil
}

func (f *fakeSessionStore) GetLatestForLearner(_ context.Context, learnerID string) (*store.SessionRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *store.SessionRow
	for _, row := range f.rows {
		if row.LearnerID != learnerID {
			continue
		}
		if latest == nil || row.UpdatedAt.After(latest.UpdatedAt) {
			latest = row
		}
	}
	if latest == nil {
		return nil, store.ErrSessionNotFound
	}
	return copyRow(latest), nil
}

func (f *fakeSessionStore) Upsert(_ context.Context, row *store.SessionRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[row.SessionID] = copyRow(row)
	return nil
}

func (f *fakeSessionStore) UpdateState(_ context.Context, sessionID string, stateJSON []byte, updatedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[sessionID]
	if !ok {
		return store.ErrSessionNotFound
	}
	row.StateJSON = append([]byte(nil), stateJSON...)
	row.UpdatedAt = updatedAt
	return nil
}

// fakeProgressStore is an in-memory store.ProgressStore.
type fakeProgressStore struct {
	mu   sync.Mutex
	recs map[string]*domain.SchedulingRecord
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{recs: make(map[string]*domain.SchedulingRecord)}
}

func progressKey(learnerID, itemID string) string {
	return learnerID + "|" + itemID
}

func (f *fakeProgressStore) Get(_ context.Context, learnerID, itemID string) (*domain.SchedulingRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.recs[progressKey(learnerID, itemID)]
	if !ok {
		return nil, store.ErrSchedulingRecordNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeProgressStore) Upsert(_ context.Context, rec *domain.SchedulingRecord) error {
	if err := rec.Validate(); err != nil {
		return store.NewStoreError("scheduling_record", "upsert", "invalid record", err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *rec
	f.recs[progressKey(rec.LearnerID, rec.ItemID)] = &cp
	return nil
}

func (f *fakeProgressStore) ListForLearner(_ context.Context, learnerID string) ([]*domain.SchedulingRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.SchedulingRecord{}
	for _, rec := range f.recs {
		if rec.LearnerID == learnerID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

// fakeNoteStore is an in-memory store.NoteStore.
type fakeNoteStore struct {
	mu    sync.Mutex
	notes map[string]string
}

func newFakeNoteStore() *fakeNoteStore {
	return &fakeNoteStore{notes: make(map[string]string)}
}

func (f *fakeNoteStore) Save(_ context.Context, sessionID, note string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes[sessionID] = note
	return nil
}

func (f *fakeNoteStore) Get(_ context.Context, sessionID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	note, ok := f.notes[sessionID]
	if !ok {
		return "", store.ErrNoteNotFound
	}
	return note, nil
}

const tutorTestCatalog = `{
  "tracks": {
    "greetings": [
      {"id": "g-1", "age": "3-6", "target": "hello", "patterns": ["Say hello!"]},
      {"id": "g-2", "age": "3-6", "target": "good morning", "patterns": ["Say: good morning"]},
      {"id": "g-3", "age": "5-8", "target": "how are you", "patterns": ["Ask me: how are you"]}
    ],
    "colors": [
      {"id": "c-1", "age": "4-8", "target": "the sky is blue", "patterns": ["What color is the sky?"]}
    ]
  }
}`

// testEnv bundles a wired service and its fakes with a controllable clock.
type testEnv struct {
	service  Service
	sessions *fakeSessionStore
	progress *fakeProgressStore
	notes    *fakeNoteStore
	now      time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	index, err := curriculum.Parse([]byte(tutorTestCatalog))
	require.NoError(t, err)

	env := &testEnv{
		sessions: newFakeSessionStore(),
		progress: newFakeProgressStore(),
		notes:    newFakeNoteStore(),
		now:      time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	env.service = NewService(
		env.sessions,
		env.progress,
		env.notes,
		index,
		lexicon.NewReference(""),
		srs.NewDefaultService(),
		nil,
		WithNowFunc(func() time.Time { return env.now }),
		WithRand(rand.New(rand.NewSource(1))),
	)
	return env
}

// advance moves the environment's clock forward.
func (e *testEnv) advance(d time.Duration) {
	e.now = e.now.Add(d)
}

// start creates a session for the default test learner and returns it.
func (e *testEnv) start(t *testing.T) *StartResult {
	t.Helper()
	result, err := e.service.Start(context.Background(), "learner-1", "5-6", "greetings", "zh-CN")
	require.NoError(t, err)
	return result
}
