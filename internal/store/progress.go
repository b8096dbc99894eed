package store

import (
	"context"

	"github.com/phrazzld/parla-api/internal/domain"
)

// ProgressStore defines the interface for per-learner scheduling record
// persistence. Records are keyed by (learner id, item id) and are never
// deleted.
type ProgressStore interface {
	// Get retrieves the scheduling record for a learner/item pair.
	// Returns ErrSchedulingRecordNotFound if no record exists yet.
	Get(ctx context.Context, learnerID, itemID string) (*domain.SchedulingRecord, error)

	// Upsert creates or replaces the scheduling record for its
	// learner/item pair. It handles domain validation internally.
	Upsert(ctx context.Context, rec *domain.SchedulingRecord) error

	// ListForLearner returns every scheduling record the learner has,
	// across all tracks. Used for next-item selection and due-count
	// aggregation. Returns an empty slice when the learner has none.
	ListForLearner(ctx context.Context, learnerID string) ([]*domain.SchedulingRecord, error)
}
