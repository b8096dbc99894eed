package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/parla-api/internal/api/middleware"
	"github.com/phrazzld/parla-api/internal/api/shared"
	"github.com/phrazzld/parla-api/internal/platform/logger"
	"github.com/phrazzld/parla-api/internal/service/sessiontoken"
	"github.com/phrazzld/parla-api/internal/service/tutor"
)

// SessionHandler handles session-scoped HTTP requests: start, next
// activity, utterance scoring, goal switching and caretaker notes.
type SessionHandler struct {
	tutorService tutor.Service
	tokenService sessiontoken.Service
	logger       *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(
	tutorService tutor.Service,
	tokenService sessiontoken.Service,
	logger *slog.Logger,
) *SessionHandler {
	if tutorService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("tutor service cannot be nil for SessionHandler")
	}
	if tokenService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("token service cannot be nil for SessionHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SessionHandler")
	}

	return &SessionHandler{
		tutorService: tutorService,
		tokenService: tokenService,
		logger:       logger.With(slog.String("component", "session_handler")),
	}
}

// StartSession handles POST /api/sessions requests. It creates a new
// session for the learner, or resumes their most recent one, and mints
// the access token for the session-scoped routes.
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req StartSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.tutorService.Start(r.Context(), req.LearnerID, req.AgeBand, req.Goal, req.Locale)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to start session"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	token, err := h.tokenService.Generate(r.Context(), result.SessionID, req.LearnerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to start session", err)
		return
	}

	log.Debug("session started",
		slog.String("session_id", result.SessionID),
		slog.String("goal", req.Goal))
	shared.RespondWithJSON(w, r, http.StatusCreated, StartSessionResponse{
		SessionID:    result.SessionID,
		Token:        token,
		NextActivity: result.NextActivity,
		Snapshot:     result.Snapshot,
	})
}

// NextActivity handles POST /api/sessions/{id}/next requests. It re-runs
// activity selection and returns the new pending prompt.
func (h *SessionHandler) NextActivity(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDFromPath(w, r)
	if !ok {
		return
	}

	activity, err := h.tutorService.FetchNext(r.Context(), sessionID)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to get next activity"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, activity)
}

// SubmitUtterance handles POST /api/sessions/{id}/utterance requests. It
// scores the utterance against the pending target phrase and returns
// feedback, rewards and either the next activity or a review card.
func (h *SessionHandler) SubmitUtterance(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDFromPath(w, r)
	if !ok {
		return
	}

	var req SubmitUtteranceRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	feedback, err := h.tutorService.SubmitResponse(r.Context(), sessionID, req.Utterance)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to score utterance"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, feedback)
}

// SetGoal handles POST /api/sessions/{id}/goal requests. It switches the
// session's curriculum goal mid-session.
func (h *SessionHandler) SetGoal(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDFromPath(w, r)
	if !ok {
		return
	}

	var req SetGoalRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	snapshot, err := h.tutorService.SetGoal(r.Context(), sessionID, req.Goal)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to set goal"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, snapshot)
}

// SaveParentNote handles POST /api/sessions/{id}/parent-note requests.
func (h *SessionHandler) SaveParentNote(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDFromPath(w, r)
	if !ok {
		return
	}

	var req ParentNoteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	receipt, err := h.tutorService.SaveParentNote(r.Context(), sessionID, req.Note)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to save note"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ParentNoteResponse{
		SessionID: receipt.SessionID,
		SavedAt:   receipt.SavedAt,
	})
}

// sessionIDFromPath extracts the session id from the URL and verifies it
// matches the id asserted by the validated token. The mismatch check stops
// a token minted for one session being replayed against another.
func (h *SessionHandler) sessionIDFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Session ID is required")
		return "", false
	}

	tokenSessionID, ok := middleware.GetSessionID(r)
	if !ok {
		log.Warn("session id not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Session token required")
		return "", false
	}
	if tokenSessionID != sessionID {
		log.Warn("token session mismatch",
			slog.String("path_session_id", sessionID))
		shared.RespondWithError(w, r, http.StatusForbidden,
			"Token does not match the requested session")
		return "", false
	}

	return sessionID, true
}
