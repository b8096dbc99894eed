package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/parla-api/internal/domain"
	"github.com/phrazzld/parla-api/internal/platform/logger"
	"github.com/phrazzld/parla-api/internal/store"
)

// PostgresProgressStore implements the store.ProgressStore interface
// using a PostgreSQL database as the storage backend. Due timestamps are
// stored as integer epoch seconds so the scheduling round-trip is exact.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of the
// ProgressStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure PostgresProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// Get implements store.ProgressStore.Get.
// Returns store.ErrSchedulingRecordNotFound if no record exists for the
// learner/item pair.
func (s *PostgresProgressStore) Get(
	ctx context.Context,
	learnerID, itemID string,
) (*domain.SchedulingRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT learner_id, item_id, ease_factor, interval_days, due_at, streak
		FROM progress
		WHERE learner_id = $1 AND item_id = $2
	`

	var rec domain.SchedulingRecord
	var dueAtEpoch int64

	err := s.db.QueryRowContext(ctx, query, learnerID, itemID).Scan(
		&rec.LearnerID,
		&rec.ItemID,
		&rec.EaseFactor,
		&rec.IntervalDays,
		&dueAtEpoch,
		&rec.Streak,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSchedulingRecordNotFound
		}
		log.Error("failed to get scheduling record",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID),
			slog.String("item_id", itemID))
		return nil, err
	}

	rec.DueAt = time.Unix(dueAtEpoch, 0).UTC()
	return &rec, nil
}

// Upsert implements store.ProgressStore.Upsert.
// It validates the record before writing.
func (s *PostgresProgressStore) Upsert(ctx context.Context, rec *domain.SchedulingRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := rec.Validate(); err != nil {
		log.Warn("scheduling record validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("learner_id", rec.LearnerID),
			slog.String("item_id", rec.ItemID))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO progress (learner_id, item_id, ease_factor, interval_days, due_at, streak)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (learner_id, item_id) DO UPDATE SET
			ease_factor = excluded.ease_factor,
			interval_days = excluded.interval_days,
			due_at = excluded.due_at,
			streak = excluded.streak
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		rec.LearnerID,
		rec.ItemID,
		rec.EaseFactor,
		rec.IntervalDays,
		rec.DueAt.Unix(),
		rec.Streak,
	)
	if err != nil {
		log.Error("failed to upsert scheduling record",
			slog.String("error", err.Error()),
			slog.String("learner_id", rec.LearnerID),
			slog.String("item_id", rec.ItemID))
		return err
	}

	log.Debug("scheduling record upserted",
		slog.String("learner_id", rec.LearnerID),
		slog.String("item_id", rec.ItemID),
		slog.Float64("ease_factor", rec.EaseFactor),
		slog.Float64("interval_days", rec.IntervalDays),
		slog.Int("streak", rec.Streak))
	return nil
}

// ListForLearner implements store.ProgressStore.ListForLearner.
// Returns an empty slice when the learner has no records.
func (s *PostgresProgressStore) ListForLearner(
	ctx context.Context,
	learnerID string,
) ([]*domain.SchedulingRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT learner_id, item_id, ease_factor, interval_days, due_at, streak
		FROM progress
		WHERE learner_id = $1
	`

	rows, err := s.db.QueryContext(ctx, query, learnerID)
	if err != nil {
		log.Error("failed to list scheduling records",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	records := []*domain.SchedulingRecord{}
	for rows.Next() {
		var rec domain.SchedulingRecord
		var dueAtEpoch int64

		err := rows.Scan(
			&rec.LearnerID,
			&rec.ItemID,
			&rec.EaseFactor,
			&rec.IntervalDays,
			&dueAtEpoch,
			&rec.Streak,
		)
		if err != nil {
			log.Error("failed to scan scheduling record row",
				slog.String("error", err.Error()))
			return nil, err
		}

		rec.DueAt = time.Unix(dueAtEpoch, 0).UTC()
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return records, nil
}
