// Package sessiontoken mints and validates the access tokens that bind a
// transport caller to a tutoring session. A token is issued when a session
// starts and must accompany every session-scoped request.
package sessiontoken

import (
	"context"
	"errors"
	"time"
)

// Common errors.
var (
	// ErrInvalidToken is returned for malformed tokens, bad signatures, or
	// tokens signed with an unexpected method.
	ErrInvalidToken = errors.New("invalid session token")

	// ErrExpiredToken is returned when a token's lifetime has elapsed.
	ErrExpiredToken = errors.New("session token expired")
)

// Claims carries the identity a validated token asserts.
type Claims struct {
	SessionID string
	LearnerID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Service defines operations for managing session access tokens.
type Service interface {
	// Generate creates a signed token binding the session and learner ids.
	Generate(ctx context.Context, sessionID, learnerID string) (string, error)

	// Validate checks the token signature and lifetime and extracts the
	// claims. Returns ErrExpiredToken or ErrInvalidToken on failure.
	Validate(ctx context.Context, tokenString string) (*Claims, error)
}
