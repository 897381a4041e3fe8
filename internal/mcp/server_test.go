package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/repbook/internal/browse"
	"github.com/claude/repbook/internal/catalog"
	"github.com/claude/repbook/internal/journal"
	"github.com/claude/repbook/internal/models"
	"github.com/claude/repbook/internal/planner"
)

type stubCatalog struct{}

func (stubCatalog) FetchPage(ctx context.Context, req catalog.PageRequest) (*catalog.Page, error) {
	return &catalog.Page{Items: []models.CatalogExercise{
		{ID: 1, Name: "Bench Press", Category: "Chest"},
	}}, nil
}

func (stubCatalog) Categories(ctx context.Context) ([]string, error) { return nil, nil }
func (stubCatalog) Equipment(ctx context.Context) ([]string, error)  { return nil, nil }
func (stubCatalog) Muscles(ctx context.Context) ([]string, error)    { return nil, nil }

func newTestHandlers() *handlers {
	j := journal.New()
	w := 80.0
	j.AddCompleted(models.WorkoutSession{
		ID: "j1", Title: "Push", DateISO: "2024-06-05T10:00:00Z",
		Items: []models.WorkoutExercise{{Name: "Bench Press", Sets: 3, Reps: 10, Weight: &w}},
	})
	return &handlers{
		planner: planner.New(),
		journal: j,
		browse:  browse.New(stubCatalog{}),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func callReq(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func textContent(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res.IsError {
		t.Fatalf("tool returned error result: %+v", res.Content)
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content = %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

// TestGetBestLift verifies the max-weight lookup and the required-parameter
// error.
func TestGetBestLift(t *testing.T) {
	h := newTestHandlers()

	res, err := h.getBestLift(context.Background(), callReq("get_best_lift", map[string]any{"exercise": "bench press"}))
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		BestWeight float64 `json:"best_weight"`
	}
	if err := json.Unmarshal([]byte(textContent(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	if got.BestWeight != 80 {
		t.Errorf("best_weight = %v, want 80", got.BestWeight)
	}

	res, err = h.getBestLift(context.Background(), callReq("get_best_lift", nil))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("expected error result without exercise parameter")
	}
}

// TestGetProgressStats verifies the summary payload and the optional range
// count.
func TestGetProgressStats(t *testing.T) {
	h := newTestHandlers()

	res, err := h.getProgressStats(context.Background(), callReq("get_progress_stats", map[string]any{
		"start": "2024-06-03",
		"end":   "2024-06-09",
	}))
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		TotalSessions int     `json:"total_sessions"`
		TotalVolume   float64 `json:"total_volume"`
		RangeCount    int     `json:"range_count"`
	}
	if err := json.Unmarshal([]byte(textContent(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	if got.TotalSessions != 1 || got.TotalVolume != 2400 {
		t.Errorf("summary = %+v, want 1 session / 2400 volume", got)
	}
	if got.RangeCount != 1 {
		t.Errorf("range_count = %d, want 1", got.RangeCount)
	}
}

// TestListJournalFilter verifies the exercise filter narrows the session
// list.
func TestListJournalFilter(t *testing.T) {
	h := newTestHandlers()
	h.journal.AddCompleted(models.WorkoutSession{
		ID: "j2", Title: "Legs", DateISO: "2024-06-06T10:00:00Z",
		Items: []models.WorkoutExercise{{Name: "Squat", Sets: 5, Reps: 5}},
	})

	res, err := h.listJournal(context.Background(), callReq("list_journal", map[string]any{"exercise": "squat"}))
	if err != nil {
		t.Fatal(err)
	}
	var sessions []models.WorkoutSession
	if err := json.Unmarshal([]byte(textContent(t, res)), &sessions); err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 || sessions[0].ID != "j2" {
		t.Errorf("filtered sessions = %+v, want only j2", sessions)
	}
}

// TestSearchExercises verifies the catalog search tool returns the fetched
// page.
func TestSearchExercises(t *testing.T) {
	h := newTestHandlers()

	res, err := h.searchExercises(context.Background(), callReq("search_exercises", map[string]any{"query": "bench"}))
	if err != nil {
		t.Fatal(err)
	}
	var snap browse.Snapshot
	if err := json.Unmarshal([]byte(textContent(t, res)), &snap); err != nil {
		t.Fatal(err)
	}
	if len(snap.Items) != 1 || snap.Items[0].Name != "Bench Press" {
		t.Errorf("snapshot = %+v, want one Bench Press item", snap)
	}
}

// TestRecentWorkoutsResource verifies the resource caps output at ten
// sessions.
func TestRecentWorkoutsResource(t *testing.T) {
	h := newTestHandlers()
	for i := 0; i < 12; i++ {
		h.journal.AddCompleted(models.WorkoutSession{
			ID: "x", Title: "Session", DateISO: "2024-06-01T10:00:00Z",
			Items: []models.WorkoutExercise{{Name: "Row", Sets: 3, Reps: 8}},
		})
	}

	var req mcp.ReadResourceRequest
	req.Params.URI = "repbook://recent_workouts"
	contents, err := h.recentWorkouts(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	tc := contents[0].(mcp.TextResourceContents)
	var sessions []models.WorkoutSession
	if err := json.Unmarshal([]byte(tc.Text), &sessions); err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 10 {
		t.Errorf("resource sessions = %d, want 10", len(sessions))
	}
}
