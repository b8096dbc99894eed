package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/parla-api/internal/api/shared"
	"github.com/phrazzld/parla-api/internal/redact"
	"github.com/phrazzld/parla-api/internal/service/sessiontoken"
)

// AuthMiddleware validates session tokens on session-scoped routes.
type AuthMiddleware struct {
	tokenService sessiontoken.Service
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(tokenService sessiontoken.Service) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
	}
}

// Authenticate validates the session token from the Authorization header
// and adds the session and learner ids to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}
		token := parts[1]

		claims, err := m.tokenService.Validate(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, sessiontoken.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Session token expired")
			case errors.Is(err, sessiontoken.ErrInvalidToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid session token")
			default:
				slog.Error("failed to validate session token", "error", redact.Error(err))
				shared.RespondWithError(
					w,
					r,
					http.StatusInternalServerError,
					"Authentication error",
				)
			}
			return
		}

		ctx := context.WithValue(r.Context(), shared.SessionIDContextKey, claims.SessionID)
		ctx = context.WithValue(ctx, shared.LearnerIDContextKey, claims.LearnerID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionID extracts the authenticated session id from the request
// context. Returns the id and whether it was found.
func GetSessionID(r *http.Request) (string, bool) {
	sessionID, ok := r.Context().Value(shared.SessionIDContextKey).(string)
	return sessionID, ok && sessionID != ""
}

// GetLearnerID extracts the authenticated learner id from the request
// context. Returns the id and whether it was found.
func GetLearnerID(r *http.Request) (string, bool) {
	learnerID, ok := r.Context().Value(shared.LearnerIDContextKey).(string)
	return learnerID, ok && learnerID != ""
}
