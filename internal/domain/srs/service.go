package srs

import (
	"errors"
	"time"

	"github.com/phrazzld/parla-api/internal/domain"
)

// Common errors.
var (
	ErrNilRecord      = errors.New("scheduling record cannot be nil")
	ErrInvalidOutcome = errors.New("invalid attempt outcome")
)

// Service defines the interface for spaced-repetition scheduling operations.
type Service interface {
	// Schedule computes the updated scheduling record for an attempt
	// outcome. The function is total over {fail, partial, pass} and
	// deterministic given (record, outcome, now); any other outcome is
	// an ErrInvalidOutcome.
	Schedule(
		rec *domain.SchedulingRecord,
		outcome domain.Outcome,
		now time.Time,
	) (*domain.SchedulingRecord, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a scheduling service with default parameters.
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates a scheduling service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{params: params}
}

// Schedule implements the Service interface.
func (s *defaultService) Schedule(
	rec *domain.SchedulingRecord,
	outcome domain.Outcome,
	now time.Time,
) (*domain.SchedulingRecord, error) {
	if rec == nil {
		return nil, ErrNilRecord
	}
	if !outcome.Valid() {
		return nil, ErrInvalidOutcome
	}

	return scheduleNext(rec, outcome, now, s.params), nil
}
