// Package mcp exposes the planner, journal, and exercise catalog to MCP
// clients over stdio, so an assistant can inspect training history and
// drafts without going through the REST API.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/repbook/internal/browse"
	"github.com/claude/repbook/internal/journal"
	"github.com/claude/repbook/internal/planner"
)

// New creates an MCP server with all tools and resources registered.
func New(p *planner.Store, j *journal.Store, b *browse.Store, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("RepBook", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("RepBook workout planner. Query completed workout history, draft sessions, progress statistics, and the exercise catalog."),
	)

	h := &handlers{planner: p, journal: j, browse: b, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListJournal, Handler: h.listJournal},
		server.ServerTool{Tool: toolListDrafts, Handler: h.listDrafts},
		server.ServerTool{Tool: toolGetProgressStats, Handler: h.getProgressStats},
		server.ServerTool{Tool: toolGetBestLift, Handler: h.getBestLift},
		server.ServerTool{Tool: toolSearchExercises, Handler: h.searchExercises},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	planner *planner.Store
	journal *journal.Store
	browse  *browse.Store
	log     *slog.Logger
}

var resRecentWorkouts = mcp.NewResource(
	"repbook://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("The ten most recently completed workout sessions with all exercise rows"),
	mcp.WithMIMEType("application/json"),
)
