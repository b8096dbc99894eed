package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidAgeBand is returned when an age band string is not one of
	// the recognized "<min>-<max>" bands.
	ErrInvalidAgeBand = errors.New("invalid age band")

	// ErrInvalidOutcome is returned when an attempt outcome is not one of
	// fail, partial, or pass.
	ErrInvalidOutcome = errors.New("invalid attempt outcome")

	// ErrEmptyLearnerID is returned when a learner identifier is missing.
	ErrEmptyLearnerID = errors.New("learner ID cannot be empty")

	// ErrEmptyItemID is returned when a curriculum item identifier is missing.
	ErrEmptyItemID = errors.New("curriculum item ID cannot be empty")

	// ErrEmptyTargetPhrase is returned when a curriculum item has no target phrase.
	ErrEmptyTargetPhrase = errors.New("target phrase cannot be empty")

	// ErrInvalidInterval is returned when a scheduling interval is negative.
	ErrInvalidInterval = errors.New("interval must be greater than or equal to 0")

	// ErrInvalidEaseFactor is returned when an ease factor is outside its bounds.
	ErrInvalidEaseFactor = errors.New("ease factor must be within [1.3, 2.5]")

	// ErrInvalidStreak is returned when a success streak is negative.
	ErrInvalidStreak = errors.New("streak must be greater than or equal to 0")
)
