package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/parla-api/internal/config"
	"github.com/phrazzld/parla-api/internal/curriculum"
	"github.com/phrazzld/parla-api/internal/domain/srs"
	"github.com/phrazzld/parla-api/internal/lexicon"
	"github.com/phrazzld/parla-api/internal/platform/postgres"
	"github.com/phrazzld/parla-api/internal/service/sessiontoken"
	"github.com/phrazzld/parla-api/internal/service/tutor"
	"github.com/phrazzld/parla-api/internal/store"
)

// application holds the wired dependencies of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	sessionStore  store.SessionStore
	progressStore store.ProgressStore
	noteStore     store.NoteStore

	tutorService tutor.Service
	tokenService sessiontoken.Service
}

// newApplication wires stores, content sources and services from the
// loaded configuration and an open database connection.
func newApplication(cfg *config.Config, db *sql.DB, logger *slog.Logger) (*application, error) {
	sessionStore := postgres.NewPostgresSessionStore(db, logger)
	progressStore := postgres.NewPostgresProgressStore(db, logger)
	noteStore := postgres.NewPostgresNoteStore(db, logger)

	// Empty path falls back to the embedded default catalog.
	index, err := curriculum.Load(cfg.Content.CurriculumPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load curriculum catalog: %w", err)
	}
	logger.Info("curriculum catalog loaded",
		slog.Int("tracks", len(index.Tracks())))

	lex := lexicon.NewReference(cfg.Content.ReferencesDir)

	tokenService, err := sessiontoken.NewService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	tutorService := tutor.NewService(
		sessionStore,
		progressStore,
		noteStore,
		index,
		lex,
		srs.NewDefaultService(),
		logger,
	)

	return &application{
		config:        cfg,
		logger:        logger,
		db:            db,
		sessionStore:  sessionStore,
		progressStore: progressStore,
		noteStore:     noteStore,
		tutorService:  tutorService,
		tokenService:  tokenService,
	}, nil
}
