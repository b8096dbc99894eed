package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/parla-api/internal/api/middleware"
	"github.com/phrazzld/parla-api/internal/api/shared"
	"github.com/phrazzld/parla-api/internal/platform/logger"
	"github.com/phrazzld/parla-api/internal/service/tutor"
)

// ProgressHandler handles learner progress queries.
type ProgressHandler struct {
	tutorService tutor.Service
	logger       *slog.Logger
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(tutorService tutor.Service, logger *slog.Logger) *ProgressHandler {
	if tutorService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("tutor service cannot be nil for ProgressHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProgressHandler")
	}

	return &ProgressHandler{
		tutorService: tutorService,
		logger:       logger.With(slog.String("component", "progress_handler")),
	}
}

// GetProgress handles GET /api/learners/{id}/progress requests. The token
// must have been minted for the same learner.
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID := chi.URLParam(r, "id")
	if learnerID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Learner ID is required")
		return
	}

	tokenLearnerID, ok := middleware.GetLearnerID(r)
	if !ok {
		log.Warn("learner id not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Session token required")
		return
	}
	if tokenLearnerID != learnerID {
		shared.RespondWithError(w, r, http.StatusForbidden,
			"Token does not match the requested learner")
		return
	}

	summary, err := h.tutorService.GetProgress(r.Context(), learnerID)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to get progress"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}
