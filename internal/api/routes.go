package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lsm1103/ArenaAI/internal/storage/sqlite"
	"github.com/lsm1103/ArenaAI/pkg/logger"
)

// Router is the API router
type Router struct {
	handler    *Handler
	middleware *Middleware
	logger     *logger.Logger
}

// NewRouter creates a new API router
func NewRouter(runs *sqlite.RunStorage, analyses *sqlite.AnalysisStorage, logger *logger.Logger) *Router {
	return &Router{
		handler:    NewHandler(runs, analyses, logger),
		middleware: NewMiddleware(logger),
		logger:     logger.Named("api-router"),
	}
}

// Routes returns the API routes
func (r *Router) Routes() http.Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(r.middleware.RequestID)
	router.Use(r.middleware.Logger)
	router.Use(r.middleware.Recoverer)

	// API routes
	router.Route("/api/v1", func(router chi.Router) {
		// Run routes
		router.Get("/runs", r.handler.GetRuns)
		router.Get("/runs/{id}", r.handler.GetRun)
		router.Get("/runs/{id}/transcript", r.handler.GetRunTranscript)
		router.Get("/runs/{id}/analyses", r.handler.GetRunAnalyses)

		// Health check
		router.Get("/health", r.handler.GetHealth)
	})

	return router
}
