package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/repbook/internal/browse"
	"github.com/claude/repbook/internal/progress"
)

// --- Tool definitions ---

var toolListJournal = mcp.NewTool("list_journal",
	mcp.WithDescription("List completed workout sessions, most recent first. Each session includes its exercise rows with sets, reps, and weight."),
	mcp.WithString("exercise", mcp.Description("Only return sessions containing this exercise (case-insensitive match on the row name)")),
)

var toolListDrafts = mcp.NewTool("list_drafts",
	mcp.WithDescription("List in-progress draft sessions from the planner, most recent first."),
)

var toolGetProgressStats = mcp.NewTool("get_progress_stats",
	mcp.WithDescription("Aggregate training statistics over the journal: total sessions, total volume (sets x reps x weight), and per-exercise breakdown sorted by volume. Optionally counts sessions inside a date range."),
	mcp.WithString("start", mcp.Description("Range start (ISO 8601 or YYYY-MM-DD). When set with end, the result includes the session count inside the range.")),
	mcp.WithString("end", mcp.Description("Range end (ISO 8601 or YYYY-MM-DD)")),
)

var toolGetBestLift = mcp.NewTool("get_best_lift",
	mcp.WithDescription("Heaviest weight ever logged for a single exercise across all completed sessions."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (case-insensitive, e.g. 'bench press')")),
)

var toolSearchExercises = mcp.NewTool("search_exercises",
	mcp.WithDescription("Search the exercise catalog by name. Returns the first page of matches with category, muscles, and equipment."),
	mcp.WithString("query", mcp.Description("Name filter. Empty returns the unfiltered first page.")),
)

// --- Tool handlers ---

func (h *handlers) listJournal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions := h.journal.Sessions()

	if name := req.GetString("exercise", ""); name != "" {
		sessions = progress.New(sessions).SessionsWithExercise(name)
	}

	result, err := mcp.NewToolResultJSON(sessions)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listDrafts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(h.planner.Sessions())
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgressStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tracker := progress.New(h.journal.Sessions())
	summary := tracker.Summarize()

	payload := map[string]any{
		"total_sessions": summary.TotalSessions,
		"total_volume":   summary.TotalVolume,
		"exercises":      summary.Exercises,
	}

	start := req.GetString("start", "")
	end := req.GetString("end", "")
	if start != "" && end != "" {
		payload["range_count"] = tracker.WeeklyCount(start, end)
	}

	result, err := mcp.NewToolResultJSON(payload)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getBestLift(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	tracker := progress.New(h.journal.Sessions())
	result, err := mcp.NewToolResultJSON(map[string]any{
		"exercise":    name,
		"best_weight": tracker.BestForExercise(name),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) searchExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.browse.SetQuery(req.GetString("query", ""))
	h.browse.FetchFirstPage(ctx)

	snap := h.browse.Snapshot()
	if snap.State == browse.StateError {
		h.log.Error("mcp search_exercises", "error", snap.Error)
		return mcp.NewToolResultError("catalog fetch failed: " + snap.Error), nil
	}

	result, err := mcp.NewToolResultJSON(snap)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// --- Resource handlers ---

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sessions := h.journal.Sessions()
	if len(sessions) > 10 {
		sessions = sessions[:10]
	}

	data, err := json.Marshal(sessions)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
