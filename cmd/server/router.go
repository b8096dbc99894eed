package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/parla-api/internal/api"
	apiMiddleware "github.com/phrazzld/parla-api/internal/api/middleware"
)

// setupRouter creates the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	sessionHandler := api.NewSessionHandler(app.tutorService, app.tokenService, app.logger)
	progressHandler := api.NewProgressHandler(app.tutorService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.tokenService)

	r.Route("/api", func(r chi.Router) {
		// Starting a session is the public entry point; it mints the
		// token the protected routes require.
		r.Post("/sessions", sessionHandler.StartSession)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/sessions/{id}/next", sessionHandler.NextActivity)
			r.Post("/sessions/{id}/utterance", sessionHandler.SubmitUtterance)
			r.Post("/sessions/{id}/goal", sessionHandler.SetGoal)
			r.Post("/sessions/{id}/parent-note", sessionHandler.SaveParentNote)

			r.Get("/learners/{id}/progress", progressHandler.GetProgress)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
