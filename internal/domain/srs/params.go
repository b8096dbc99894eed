package srs

import "github.com/phrazzld/parla-api/internal/domain"

// Params defines the configurable parameters for the scheduling algorithm.
type Params struct {
	// Core ease factor limits.
	MinEaseFactor float64
	MaxEaseFactor float64

	// PassEaseBonus is added to the ease factor on every pass, up to
	// MaxEaseFactor.
	PassEaseBonus float64

	// PartialIntervalDecay shrinks the interval on a partial outcome
	// without touching the ease factor.
	PartialIntervalDecay float64

	// MinScheduledIntervalDays floors the interval for any scheduled
	// (non-fail) outcome.
	MinScheduledIntervalDays float64
}

// NewDefaultParams creates a Params instance with the default values.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:            domain.MinEaseFactor,
		MaxEaseFactor:            domain.MaxEaseFactor,
		PassEaseBonus:            0.05,
		PartialIntervalDecay:     0.8,
		MinScheduledIntervalDays: 1.0,
	}
}
