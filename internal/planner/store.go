// Package planner owns the in-progress workout drafts: creation, field
// edits, exercise-row mutations, and the finalize flow that moves a draft
// into the journal.
package planner

import (
	"errors"
	"sync"
	"time"

	"github.com/claude/repbook/internal/journal"
	"github.com/claude/repbook/internal/models"
	"github.com/google/uuid"
)

var (
	// ErrNotFound reports an unknown draft id on an item-level operation.
	ErrNotFound = errors.New("draft session not found")
	// ErrIndexOutOfRange reports an item index outside the draft's list.
	ErrIndexOutOfRange = errors.New("exercise index out of range")
	// ErrEmptySession reports an attempt to finalize a draft with no items.
	ErrEmptySession = errors.New("cannot finalize a session with no exercises")
)

// Store holds the draft list, most recent first. Every mutation replaces
// the affected session with a fresh copy (copy-on-write), so previously
// returned sessions stay valid snapshots.
type Store struct {
	mu       sync.Mutex
	sessions []models.WorkoutSession
	subs     map[int]func()
	nextSub  int
}

// New creates an empty draft store.
func New() *Store {
	return &Store{subs: make(map[int]func())}
}

// Subscribe registers fn to run after every mutation and returns an
// unsubscribe function.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// CreateSession allocates a new draft with the given title, a fresh unique
// id, the current time as its date, and no items, prepended to the list
// (most-recent-first display convention). Returns the new id.
func (s *Store) CreateSession(title string) string {
	sess := models.WorkoutSession{
		ID:      uuid.NewString(),
		Title:   title,
		DateISO: time.Now().UTC().Format(time.RFC3339),
		Items:   []models.WorkoutExercise{},
	}

	s.mu.Lock()
	next := make([]models.WorkoutSession, 0, len(s.sessions)+1)
	next = append(next, sess)
	next = append(next, s.sessions...)
	s.sessions = next
	s.mu.Unlock()
	s.notify()
	return sess.ID
}

// RemoveSession deletes the draft with the given id; no-op if absent.
func (s *Store) RemoveSession(id string) {
	s.mutate(func() bool {
		next := s.sessions[:0:0]
		found := false
		for _, sess := range s.sessions {
			if sess.ID == id {
				found = true
				continue
			}
			next = append(next, sess)
		}
		if found {
			s.sessions = next
		}
		return found
	})
}

// RenameSession sets the draft's title; no-op if the id is unknown.
func (s *Store) RenameSession(id, title string) {
	s.update(id, func(sess *models.WorkoutSession) { sess.Title = title })
}

// SetNotes sets the draft's notes; no-op if the id is unknown.
func (s *Store) SetNotes(id, notes string) {
	s.update(id, func(sess *models.WorkoutSession) { sess.Notes = notes })
}

// SetDuration sets the draft's duration in minutes (nil clears it); no-op
// if the id is unknown.
func (s *Store) SetDuration(id string, minutes *float64) {
	s.update(id, func(sess *models.WorkoutSession) {
		if minutes == nil {
			sess.DurationMin = nil
			return
		}
		d := *minutes
		sess.DurationMin = &d
	})
}

// AddExercise appends an exercise row to the end of the draft's item list.
// Returns ErrNotFound for an unknown id.
func (s *Store) AddExercise(id string, item models.WorkoutExercise) error {
	ok := s.update(id, func(sess *models.WorkoutSession) {
		sess.Items = append(sess.Items, item.Clone())
	})
	if !ok {
		return ErrNotFound
	}
	return nil
}

// ExercisePatch holds the fields of an exercise row to overwrite; nil
// fields are left unchanged.
type ExercisePatch struct {
	Name   *string  `json:"name,omitempty"`
	Sets   *int     `json:"sets,omitempty"`
	Reps   *int     `json:"reps,omitempty"`
	Weight *float64 `json:"weight,omitempty"`
	Notes  *string  `json:"notes,omitempty"`
}

// UpdateExercise merges the patch into the item at index. Fails with
// ErrNotFound for an unknown id and ErrIndexOutOfRange for a bad index
// rather than writing through it.
func (s *Store) UpdateExercise(id string, index int, patch ExercisePatch) error {
	var indexErr error
	ok := s.update(id, func(sess *models.WorkoutSession) {
		if index < 0 || index >= len(sess.Items) {
			indexErr = ErrIndexOutOfRange
			return
		}
		it := &sess.Items[index]
		if patch.Name != nil {
			it.Name = *patch.Name
		}
		if patch.Sets != nil {
			it.Sets = *patch.Sets
		}
		if patch.Reps != nil {
			it.Reps = *patch.Reps
		}
		if patch.Weight != nil {
			w := *patch.Weight
			it.Weight = &w
		}
		if patch.Notes != nil {
			it.Notes = *patch.Notes
		}
	})
	if !ok {
		return ErrNotFound
	}
	return indexErr
}

// RemoveExercise deletes the item at index, shifting subsequent items
// down. Fails with ErrNotFound / ErrIndexOutOfRange.
func (s *Store) RemoveExercise(id string, index int) error {
	var indexErr error
	ok := s.update(id, func(sess *models.WorkoutSession) {
		if index < 0 || index >= len(sess.Items) {
			indexErr = ErrIndexOutOfRange
			return
		}
		sess.Items = append(sess.Items[:index], sess.Items[index+1:]...)
	})
	if !ok {
		return ErrNotFound
	}
	return indexErr
}

// Session looks up a draft by id, returning a deep copy and whether it was
// found.
func (s *Store) Session(id string) (models.WorkoutSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess.Clone(), true
		}
	}
	return models.WorkoutSession{}, false
}

// Sessions returns the draft list, most recent first.
func (s *Store) Sessions() []models.WorkoutSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.WorkoutSession, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// Replace swaps in a hydrated session list without notifying subscribers;
// it is only called before persistence subscriptions are installed.
func (s *Store) Replace(sessions []models.WorkoutSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = models.CloneSessions(sessions)
}

// Finalize moves the draft into the journal: the guard against empty
// drafts lives here, once, rather than in the journal store. On success
// the journal receives a copy stamped with the given notes and duration
// and the draft is deleted.
func (s *Store) Finalize(id, notes string, durationMin *float64, j *journal.Store) error {
	s.mu.Lock()
	idx := -1
	for i, sess := range s.sessions {
		if sess.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	if len(s.sessions[idx].Items) == 0 {
		s.mu.Unlock()
		return ErrEmptySession
	}

	completed := s.sessions[idx].Clone()
	completed.Notes = notes
	if durationMin != nil {
		d := *durationMin
		completed.DurationMin = &d
	} else {
		completed.DurationMin = nil
	}

	next := make([]models.WorkoutSession, 0, len(s.sessions)-1)
	next = append(next, s.sessions[:idx]...)
	next = append(next, s.sessions[idx+1:]...)
	s.sessions = next
	s.mu.Unlock()

	j.AddCompleted(completed)
	s.notify()
	return nil
}

// update applies fn to a deep copy of the session with the given id and
// swaps the copy into a fresh list. Returns false if the id is unknown.
func (s *Store) update(id string, fn func(*models.WorkoutSession)) bool {
	found := false
	s.mutate(func() bool {
		next := make([]models.WorkoutSession, len(s.sessions))
		for i, sess := range s.sessions {
			if sess.ID != id {
				next[i] = sess
				continue
			}
			found = true
			copied := sess.Clone()
			fn(&copied)
			next[i] = copied
		}
		if found {
			s.sessions = next
		}
		return found
	})
	return found
}

// mutate runs fn under the lock and notifies subscribers if it reports a
// change.
func (s *Store) mutate(fn func() bool) {
	s.mu.Lock()
	changed := fn()
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}
