package models

// WorkoutExercise is a single planned or logged movement within a session.
// It has no identity beyond its position in the owning session's item list;
// ExerciseID is the catalog id the row was copied from (or a locally
// synthesized id for manually entered rows) and is not guaranteed unique.
type WorkoutExercise struct {
	ExerciseID int      `json:"exerciseId"`
	Name       string   `json:"name"`
	Sets       int      `json:"sets"`
	Reps       int      `json:"reps"`
	Weight     *float64 `json:"weight,omitempty"` // kilograms; nil = not recorded
	Notes      string   `json:"notes,omitempty"`
}

// Clone returns a deep copy of the exercise.
func (e WorkoutExercise) Clone() WorkoutExercise {
	out := e
	if e.Weight != nil {
		w := *e.Weight
		out.Weight = &w
	}
	return out
}

// WorkoutSession is a workout, either an editable planner draft or a
// finalized journal entry. ID is unique within the set it belongs to;
// DateISO is assigned at creation and is the chronological sort key.
type WorkoutSession struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	DateISO     string            `json:"dateISO"`
	Notes       string            `json:"notes,omitempty"`
	DurationMin *float64          `json:"durationMin,omitempty"`
	Items       []WorkoutExercise `json:"items"`
}

// Clone returns a deep copy of the session, including a fresh item slice.
func (s WorkoutSession) Clone() WorkoutSession {
	out := s
	if s.DurationMin != nil {
		d := *s.DurationMin
		out.DurationMin = &d
	}
	out.Items = CloneExercises(s.Items)
	return out
}

// CloneExercises deep-copies a slice of exercises. A nil input yields an
// empty, non-nil slice so sessions always serialize with "items": [].
func CloneExercises(items []WorkoutExercise) []WorkoutExercise {
	out := make([]WorkoutExercise, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

// CloneSessions deep-copies a slice of sessions.
func CloneSessions(sessions []WorkoutSession) []WorkoutSession {
	out := make([]WorkoutSession, len(sessions))
	for i, s := range sessions {
		out[i] = s.Clone()
	}
	return out
}

// CatalogExercise is a normalized record from the remote exercise catalog.
// Immutable once fetched; adding one to a draft copies its fields into a
// WorkoutExercise.
type CatalogExercise struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Category  string   `json:"category,omitempty"`
	Muscles   []string `json:"muscles"`
	Equipment []string `json:"equipment,omitempty"`
}
