package planner

import (
	"errors"
	"testing"

	"github.com/claude/repbook/internal/journal"
	"github.com/claude/repbook/internal/models"
)

func fp(v float64) *float64 { return &v }

func sp(v string) *string { return &v }

func ip(v int) *int { return &v }

// TestCreateSessionPrepends verifies id allocation, empty items, and the
// most-recent-first ordering.
func TestCreateSessionPrepends(t *testing.T) {
	s := New()
	first := s.CreateSession("Push Day")
	second := s.CreateSession("Pull Day")

	if first == second {
		t.Fatal("two sessions share an id")
	}
	sessions := s.Sessions()
	if len(sessions) != 2 {
		t.Fatalf("len(sessions) = %d, want 2", len(sessions))
	}
	if sessions[0].ID != second {
		t.Errorf("head = %q, want most recent %q", sessions[0].ID, second)
	}
	if sessions[0].DateISO == "" {
		t.Error("dateISO not assigned")
	}
	if sessions[0].Items == nil || len(sessions[0].Items) != 0 {
		t.Errorf("items = %v, want empty non-nil", sessions[0].Items)
	}
}

// TestSessionFieldEdits verifies rename/notes/duration and that edits on
// an unknown id are silent no-ops.
func TestSessionFieldEdits(t *testing.T) {
	s := New()
	id := s.CreateSession("Legs")

	s.RenameSession(id, "Leg Day")
	s.SetNotes(id, "felt strong")
	s.SetDuration(id, fp(45))

	sess, ok := s.Session(id)
	if !ok {
		t.Fatal("session not found")
	}
	if sess.Title != "Leg Day" {
		t.Errorf("title = %q, want %q", sess.Title, "Leg Day")
	}
	if sess.Notes != "felt strong" {
		t.Errorf("notes = %q, want %q", sess.Notes, "felt strong")
	}
	if sess.DurationMin == nil || *sess.DurationMin != 45 {
		t.Errorf("durationMin = %v, want 45", sess.DurationMin)
	}

	s.RenameSession("nope", "x")
	s.RemoveSession("nope")
	if got := len(s.Sessions()); got != 1 {
		t.Errorf("len(sessions) = %d after no-op edits, want 1", got)
	}
}

// TestExerciseRowMutations verifies append order, patch merging, and
// removal shifting.
func TestExerciseRowMutations(t *testing.T) {
	s := New()
	id := s.CreateSession("Push")

	if err := s.AddExercise(id, models.WorkoutExercise{ExerciseID: 1, Name: "Bench", Sets: 3, Reps: 10}); err != nil {
		t.Fatalf("AddExercise: %v", err)
	}
	if err := s.AddExercise(id, models.WorkoutExercise{ExerciseID: 2, Name: "Dips", Sets: 3, Reps: 12}); err != nil {
		t.Fatalf("AddExercise: %v", err)
	}

	if err := s.UpdateExercise(id, 0, ExercisePatch{Weight: fp(60), Reps: ip(8)}); err != nil {
		t.Fatalf("UpdateExercise: %v", err)
	}

	sess, _ := s.Session(id)
	if sess.Items[0].Weight == nil || *sess.Items[0].Weight != 60 {
		t.Errorf("weight = %v, want 60", sess.Items[0].Weight)
	}
	if sess.Items[0].Reps != 8 {
		t.Errorf("reps = %d, want 8", sess.Items[0].Reps)
	}
	if sess.Items[0].Name != "Bench" {
		t.Errorf("name = %q, patch must not clear unset fields", sess.Items[0].Name)
	}

	if err := s.RemoveExercise(id, 0); err != nil {
		t.Fatalf("RemoveExercise: %v", err)
	}
	sess, _ = s.Session(id)
	if len(sess.Items) != 1 || sess.Items[0].Name != "Dips" {
		t.Errorf("items = %v, want [Dips]", sess.Items)
	}
}

// TestExerciseIndexErrors verifies the explicit out-of-range and unknown-id
// failures instead of silent writes.
func TestExerciseIndexErrors(t *testing.T) {
	s := New()
	id := s.CreateSession("Push")
	if err := s.AddExercise(id, models.WorkoutExercise{Name: "Bench"}); err != nil {
		t.Fatal(err)
	}

	if err := s.UpdateExercise(id, 5, ExercisePatch{Name: sp("x")}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("UpdateExercise(oob) = %v, want ErrIndexOutOfRange", err)
	}
	if err := s.RemoveExercise(id, -1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("RemoveExercise(-1) = %v, want ErrIndexOutOfRange", err)
	}
	if err := s.UpdateExercise("nope", 0, ExercisePatch{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateExercise(unknown id) = %v, want ErrNotFound", err)
	}
	if err := s.AddExercise("nope", models.WorkoutExercise{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("AddExercise(unknown id) = %v, want ErrNotFound", err)
	}
}

// TestCopyOnWrite verifies that a session returned before a mutation is
// not affected by the mutation.
func TestCopyOnWrite(t *testing.T) {
	s := New()
	id := s.CreateSession("Push")
	if err := s.AddExercise(id, models.WorkoutExercise{Name: "Bench", Sets: 3, Reps: 10}); err != nil {
		t.Fatal(err)
	}

	before, _ := s.Session(id)
	if err := s.UpdateExercise(id, 0, ExercisePatch{Name: sp("Incline Bench")}); err != nil {
		t.Fatal(err)
	}

	if before.Items[0].Name != "Bench" {
		t.Errorf("prior snapshot mutated: name = %q", before.Items[0].Name)
	}
}

// TestFinalize verifies the move-by-copy semantics: the draft disappears
// and its copy (with notes and duration stamped) heads the journal.
func TestFinalize(t *testing.T) {
	s := New()
	j := journal.New()

	id := s.CreateSession("Push")
	if err := s.AddExercise(id, models.WorkoutExercise{Name: "Bench", Sets: 3, Reps: 10, Weight: fp(60)}); err != nil {
		t.Fatal(err)
	}
	other := s.CreateSession("Pull")

	if err := s.Finalize(id, "good session", fp(50), j); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if _, ok := s.Session(id); ok {
		t.Error("finalized draft still present in planner")
	}
	if _, ok := s.Session(other); !ok {
		t.Error("unrelated draft removed")
	}

	entries := j.Sessions()
	if len(entries) != 1 {
		t.Fatalf("journal len = %d, want 1", len(entries))
	}
	got := entries[0]
	if got.ID != id {
		t.Errorf("journal id = %q, want %q", got.ID, id)
	}
	if got.Notes != "good session" {
		t.Errorf("notes = %q, want stamped value", got.Notes)
	}
	if got.DurationMin == nil || *got.DurationMin != 50 {
		t.Errorf("durationMin = %v, want 50", got.DurationMin)
	}
}

// TestFinalizeEmptyRejected verifies the empty-draft guard.
func TestFinalizeEmptyRejected(t *testing.T) {
	s := New()
	j := journal.New()
	id := s.CreateSession("Empty")

	if err := s.Finalize(id, "", nil, j); !errors.Is(err, ErrEmptySession) {
		t.Errorf("Finalize(empty) = %v, want ErrEmptySession", err)
	}
	if _, ok := s.Session(id); !ok {
		t.Error("rejected draft was removed")
	}
	if got := len(j.Sessions()); got != 0 {
		t.Errorf("journal len = %d, want 0", got)
	}

	if err := s.Finalize("nope", "", nil, j); !errors.Is(err, ErrNotFound) {
		t.Errorf("Finalize(unknown) = %v, want ErrNotFound", err)
	}
}

// TestSubscribeNotify verifies subscriber notification on mutation and
// silence after unsubscribe and on Replace.
func TestSubscribeNotify(t *testing.T) {
	s := New()
	count := 0
	unsub := s.Subscribe(func() { count++ })

	id := s.CreateSession("Push")
	s.RenameSession(id, "Push Day")
	if count != 2 {
		t.Errorf("notifications = %d, want 2", count)
	}

	s.Replace([]models.WorkoutSession{{ID: "x", Title: "hydrated", Items: []models.WorkoutExercise{}}})
	if count != 2 {
		t.Errorf("Replace notified subscribers (count = %d)", count)
	}

	unsub()
	s.CreateSession("Another")
	if count != 2 {
		t.Errorf("notified after unsubscribe (count = %d)", count)
	}
}
