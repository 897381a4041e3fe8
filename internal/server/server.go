// Package server exposes the planner, journal, browse, and persistence
// operations over a local REST API. Handlers hold no logic of their own;
// they translate HTTP to store operations and render store state.
package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/repbook/internal/browse"
	"github.com/claude/repbook/internal/journal"
	"github.com/claude/repbook/internal/persist"
	"github.com/claude/repbook/internal/planner"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	planner *planner.Store
	journal *journal.Store
	browse  *browse.Store
	bridge  *persist.Bridge
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured.
func New(p *planner.Store, j *journal.Store, b *browse.Store, bridge *persist.Bridge, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		planner: p,
		journal: j,
		browse:  b,
		bridge:  bridge,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1/drafts", func(r chi.Router) {
		r.Post("/", s.handleCreateDraft)
		r.Get("/", s.handleListDrafts)
		r.Get("/{id}", s.handleGetDraft)
		r.Patch("/{id}", s.handlePatchDraft)
		r.Delete("/{id}", s.handleDeleteDraft)
		r.Post("/{id}/items", s.handleAddItem)
		r.Patch("/{id}/items/{index}", s.handlePatchItem)
		r.Delete("/{id}/items/{index}", s.handleDeleteItem)
		r.Post("/{id}/finalize", s.handleFinalize)
	})

	s.router.Get("/api/v1/journal", s.handleListJournal)
	s.router.Delete("/api/v1/journal", s.handleClearJournal)

	s.router.Get("/api/v1/stats", s.handleStats)
	s.router.Get("/api/v1/stats/weekly", s.handleWeeklyStats)
	s.router.Get("/api/v1/stats/best", s.handleBestLift)

	s.router.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/", s.handleCatalogView)
		r.Post("/search", s.handleCatalogSearch)
		r.Post("/more", s.handleCatalogMore)
		r.Get("/lookups", s.handleCatalogLookups)
	})

	s.router.Get("/api/v1/export", s.handleExport)

	// Import overwrites durable state; API key required.
	s.router.Route("/api/v1/import", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/", s.handleImport)
	})
}
