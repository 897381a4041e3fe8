// Package browse owns the catalog browsing lifecycle: fetch state, the
// accumulated result list with cross-page deduplication, pure view filters,
// and the once-only lookup caches for categories, equipment, and muscles.
package browse

import (
	"context"
	"sync"

	"github.com/claude/repbook/internal/catalog"
	"github.com/claude/repbook/internal/models"
)

// State is the fetch lifecycle state. Any state may transition back to
// StateLoading on a new first-page request.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateError   State = "error"
)

// Source is the slice of the catalog client the store depends on.
type Source interface {
	FetchPage(ctx context.Context, req catalog.PageRequest) (*catalog.Page, error)
	Categories(ctx context.Context) ([]string, error)
	Equipment(ctx context.Context) ([]string, error)
	Muscles(ctx context.Context) ([]string, error)
}

// Compile-time check: *catalog.Client satisfies Source.
var _ Source = (*catalog.Client)(nil)

type lookupState int

const (
	lookupsNotLoaded lookupState = iota
	lookupsLoading
	lookupsLoaded
)

// Store accumulates catalog pages and guards against overlapping and
// stale fetches. All methods are safe for concurrent use.
type Store struct {
	client Source

	mu     sync.Mutex
	state  State
	query  string
	items  []models.CatalogExercise
	seen   map[int]bool
	cursor string
	errMsg string

	// seq stamps each outgoing request; a response is applied only while
	// its stamp still matches, so a superseding fetch wins over a late
	// arrival.
	seq uint64

	lookups    lookupState
	categories []string
	equipment  []string
	muscles    []string
}

// New creates an idle Store over the given catalog source.
func New(client Source) *Store {
	return &Store{
		client: client,
		state:  StateIdle,
		seen:   make(map[int]bool),
	}
}

// SetQuery sets the free-text query used by the next first-page fetch.
func (s *Store) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
}

// FetchFirstPage clears accumulated results and loads the first page for
// the current query. A newer call supersedes any in-flight fetch: the older
// response is discarded when it lands.
func (s *Store) FetchFirstPage(ctx context.Context) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	query := s.query
	s.state = StateLoading
	s.items = nil
	s.seen = make(map[int]bool)
	s.cursor = ""
	s.errMsg = ""
	s.mu.Unlock()

	page, err := s.client.FetchPage(ctx, catalog.PageRequest{Query: query})

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return // superseded while in flight
	}
	if err != nil {
		s.state = StateError
		s.errMsg = err.Error()
		return
	}
	s.items = page.Items
	for _, it := range page.Items {
		s.seen[it.ID] = true
	}
	s.cursor = page.NextCursor
	s.state = StateLoaded
}

// FetchNextPage follows the stored cursor and merges the results into the
// accumulated list, appending only records whose id has not been seen (the
// remote source may return overlapping pages). No-op while a fetch is in
// flight or when there is no cursor.
func (s *Store) FetchNextPage(ctx context.Context) {
	s.mu.Lock()
	if s.state == StateLoading || s.cursor == "" {
		s.mu.Unlock()
		return
	}
	s.seq++
	seq := s.seq
	query := s.query
	cursor := s.cursor
	s.state = StateLoading
	s.errMsg = ""
	s.mu.Unlock()

	page, err := s.client.FetchPage(ctx, catalog.PageRequest{Query: query, Cursor: cursor})

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return
	}
	if err != nil {
		s.state = StateError
		s.errMsg = err.Error()
		return
	}
	for _, it := range page.Items {
		if s.seen[it.ID] {
			continue
		}
		s.seen[it.ID] = true
		s.items = append(s.items, it)
	}
	s.cursor = page.NextCursor
	s.state = StateLoaded
}

// Snapshot is a point-in-time view of the browse state.
type Snapshot struct {
	State   State                    `json:"state"`
	Query   string                   `json:"query"`
	Items   []models.CatalogExercise `json:"items"`
	Error   string                   `json:"error,omitempty"`
	HasMore bool                     `json:"has_more"`
}

// Snapshot returns the current state with a copy of the accumulated items.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]models.CatalogExercise, len(s.items))
	copy(items, s.items)
	return Snapshot{
		State:   s.state,
		Query:   s.query,
		Items:   items,
		Error:   s.errMsg,
		HasMore: s.cursor != "",
	}
}

// Filter selects a subset of accumulated items. Muscles uses AND
// semantics: an item passes only if its muscle set contains every selected
// muscle.
type Filter struct {
	Category  string
	Equipment string
	Muscles   []string
}

// Filtered applies the filter as a pure view over the accumulated items.
// The stored list is never mutated and no fetch is triggered.
func (s *Store) Filtered(f Filter) []models.CatalogExercise {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.CatalogExercise, 0, len(s.items))
	for _, it := range s.items {
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		if f.Equipment != "" && !contains(it.Equipment, f.Equipment) {
			continue
		}
		if !supersetOf(it.Muscles, f.Muscles) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func supersetOf(have, want []string) bool {
	for _, w := range want {
		if !contains(have, w) {
			return false
		}
	}
	return true
}

// LoadLookups fetches the category, equipment, and muscle reference lists.
// Loaded at most once per store lifetime: calls while loading or after a
// successful load are no-ops. A failed load resets the guard so a
// user-initiated retry can succeed.
func (s *Store) LoadLookups(ctx context.Context) error {
	s.mu.Lock()
	if s.lookups != lookupsNotLoaded {
		s.mu.Unlock()
		return nil
	}
	s.lookups = lookupsLoading
	s.mu.Unlock()

	categories, err := s.client.Categories(ctx)
	var equipment, muscles []string
	if err == nil {
		equipment, err = s.client.Equipment(ctx)
	}
	if err == nil {
		muscles, err = s.client.Muscles(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lookups = lookupsNotLoaded
		return err
	}
	s.categories = categories
	s.equipment = equipment
	s.muscles = muscles
	s.lookups = lookupsLoaded
	return nil
}

// Lookups returns the cached reference lists (empty until LoadLookups has
// succeeded).
func (s *Store) Lookups() (categories, equipment, muscles []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.categories...),
		append([]string(nil), s.equipment...),
		append([]string(nil), s.muscles...)
}
