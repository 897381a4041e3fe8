package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/claude/repbook/internal/browse"
	"github.com/claude/repbook/internal/models"
	"github.com/claude/repbook/internal/planner"
	"github.com/claude/repbook/internal/progress"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	id := s.planner.CreateSession(body.Title)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleListDrafts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.planner.Sessions())
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.planner.Session(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "draft not found"})
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handlePatchDraft(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.planner.Session(id); !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "draft not found"})
		return
	}

	var body struct {
		Title       *string  `json:"title"`
		Notes       *string  `json:"notes"`
		DurationMin *float64 `json:"durationMin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if body.Title != nil {
		s.planner.RenameSession(id, *body.Title)
	}
	if body.Notes != nil {
		s.planner.SetNotes(id, *body.Notes)
	}
	if body.DurationMin != nil {
		s.planner.SetDuration(id, body.DurationMin)
	}

	sess, _ := s.planner.Session(id)
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	s.planner.RemoveSession(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var item models.WorkoutExercise
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if err := s.planner.AddExercise(chi.URLParam(r, "id"), item); err != nil {
		writeItemError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePatchItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item index"})
		return
	}

	var patch planner.ExercisePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if err := s.planner.UpdateExercise(chi.URLParam(r, "id"), index, patch); err != nil {
		writeItemError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item index"})
		return
	}

	if err := s.planner.RemoveExercise(chi.URLParam(r, "id"), index); err != nil {
		writeItemError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Notes       string   `json:"notes"`
		DurationMin *float64 `json:"durationMin"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
			return
		}
	}

	err := s.planner.Finalize(chi.URLParam(r, "id"), body.Notes, body.DurationMin, s.journal)
	switch {
	case errors.Is(err, planner.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "draft not found"})
	case errors.Is(err, planner.ErrEmptySession):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleListJournal(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.journal.Sessions())
}

func (s *Server) handleClearJournal(w http.ResponseWriter, r *http.Request) {
	s.journal.ClearAll()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	tracker := progress.New(s.journal.Sessions())
	writeJSON(w, http.StatusOK, tracker.Summarize())
}

func (s *Server) handleWeeklyStats(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	tracker := progress.New(s.journal.Sessions())
	writeJSON(w, http.StatusOK, map[string]int{"count": tracker.WeeklyCount(start, end)})
}

func (s *Server) handleBestLift(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name parameter required"})
		return
	}
	tracker := progress.New(s.journal.Sessions())
	writeJSON(w, http.StatusOK, map[string]any{"name": name, "best_weight": tracker.BestForExercise(name)})
}

func (s *Server) handleCatalogSearch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query string `json:"query"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
			return
		}
	}

	s.browse.SetQuery(body.Query)
	s.browse.FetchFirstPage(r.Context())
	writeJSON(w, http.StatusOK, s.browse.Snapshot())
}

func (s *Server) handleCatalogMore(w http.ResponseWriter, r *http.Request) {
	s.browse.FetchNextPage(r.Context())
	writeJSON(w, http.StatusOK, s.browse.Snapshot())
}

func (s *Server) handleCatalogView(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := browse.Filter{
		Category:  q.Get("category"),
		Equipment: q.Get("equipment"),
	}
	if raw := q.Get("muscles"); raw != "" {
		for _, m := range strings.Split(raw, ",") {
			if m = strings.TrimSpace(m); m != "" {
				filter.Muscles = append(filter.Muscles, m)
			}
		}
	}
	writeJSON(w, http.StatusOK, s.browse.Filtered(filter))
}

func (s *Server) handleCatalogLookups(w http.ResponseWriter, r *http.Request) {
	if err := s.browse.LoadLookups(r.Context()); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	categories, equipment, muscles := s.browse.Lookups()
	writeJSON(w, http.StatusOK, map[string][]string{
		"categories": categories,
		"equipment":  equipment,
		"muscles":    muscles,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="repbook-snapshot.json"`)
	_, _ = w.Write([]byte(s.bridge.Export()))
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reading body: " + err.Error()})
		return
	}

	snap := s.bridge.Import(string(data))
	if snap == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed snapshot payload"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"drafts":  len(snap.PlannerDrafts),
		"journal": len(snap.JournalSessions),
	})
}

// writeItemError maps planner item-operation failures to HTTP statuses.
func writeItemError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, planner.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "draft not found"})
	case errors.Is(err, planner.ErrIndexOutOfRange):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
