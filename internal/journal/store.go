// Package journal owns the finalized workout sessions. The journal is
// append-only from the planner's point of view; entries are never edited,
// only added or cleared wholesale.
package journal

import (
	"sync"

	"github.com/claude/repbook/internal/models"
)

// Store holds the journal list, most recent first. Mutations replace the
// list rather than editing it in place, so slices handed out before a
// mutation stay valid snapshots.
type Store struct {
	mu       sync.Mutex
	sessions []models.WorkoutSession
	subs     map[int]func()
	nextSub  int
}

// New creates an empty journal.
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

// AddCompleted prepends a deep copy of the session. The store itself does
// not validate the session; the empty-items guard lives in the finalize
// flow, so hydration and import can carry whatever a snapshot holds.
func (s *Store) AddCompleted(session models.WorkoutSession) {
	s.mu.Lock()
	next := make([]models.WorkoutSession, 0, len(s.sessions)+1)
	next = append(next, session.Clone())
	next = append(next, s.sessions...)
	s.sessions = next
	s.mu.Unlock()
	s.notify()
}

// ClearAll irreversibly empties the journal.
func (s *Store) ClearAll() {
	s.mu.Lock()
	s.sessions = nil
	s.mu.Unlock()
	s.notify()
}

// Sessions returns the journal list, most recent first. The returned slice
// is the caller's to keep; element contents are never mutated in place.
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
