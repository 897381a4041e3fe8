package persist

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/repbook/internal/journal"
	"github.com/claude/repbook/internal/models"
	"github.com/claude/repbook/internal/planner"
)

// DefaultDebounce is the save coalescing window.
const DefaultDebounce = 250 * time.Millisecond

// Bridge mirrors the planner and journal stores to a Blob. Saves are
// debounced trailing-edge: the first mutation arms a timer, further
// mutations inside the window are ignored, and the write captures store
// state at fire time. Storage failures never propagate to callers; the
// worst outcome is state that stays unsaved until the next cycle.
type Bridge struct {
	blob    Blob
	planner *planner.Store
	journal *journal.Store
	log     *slog.Logger
	delay   time.Duration

	mu      sync.Mutex
	armed   bool
	timer   *time.Timer
	profile *models.UserProfile
	unsubs  []func()
}

// NewBridge creates a Bridge over the given backend and stores. A
// non-positive delay falls back to DefaultDebounce.
func NewBridge(blob Blob, p *planner.Store, j *journal.Store, delay time.Duration, log *slog.Logger) *Bridge {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Bridge{blob: blob, planner: p, journal: j, log: log, delay: delay}
}

// Load reads and decodes the stored snapshot. Any read or parse failure
// degrades to "no prior snapshot" (nil); startup never crashes on corrupt
// storage.
func (b *Bridge) Load() *models.AppSnapshot {
	data, err := b.blob.Read()
	if err != nil {
		b.log.Warn("snapshot read failed, starting empty", "error", err)
		return nil
	}
	if data == nil {
		return nil
	}
	snap, err := decodeSnapshot(data, 0)
	if err != nil {
		b.log.Warn("snapshot corrupt, starting empty", "error", err)
		return nil
	}
	return snap
}

// Hydrate loads the stored snapshot, if any, and applies it to both
// stores. Must run before Start: the store Replace path does not notify
// subscribers, so hydration never races the first scheduled save.
func (b *Bridge) Hydrate() {
	snap := b.Load()
	if snap == nil {
		return
	}
	b.planner.Replace(snap.PlannerDrafts)
	b.journal.Replace(snap.JournalSessions)
	b.mu.Lock()
	b.profile = snap.Profile
	b.mu.Unlock()
}

// Start subscribes to both stores and schedules one initial save so a
// freshly created default draft is captured even without further
// mutations. Call Hydrate first.
func (b *Bridge) Start() {
	b.mu.Lock()
	b.unsubs = append(b.unsubs,
		b.planner.Subscribe(b.scheduleSave),
		b.journal.Subscribe(b.scheduleSave),
	)
	b.mu.Unlock()
	b.scheduleSave()
}

// Stop removes the store subscriptions and cancels any pending save.
func (b *Bridge) Stop() {
	b.mu.Lock()
	unsubs := b.unsubs
	b.unsubs = nil
	if b.timer != nil {
		b.timer.Stop()
	}
	b.armed = false
	b.mu.Unlock()
	for _, unsub := range unsubs {
		unsub()
	}
}

// scheduleSave arms the debounce timer. A mutation while a save is already
// pending does not schedule a second one.
func (b *Bridge) scheduleSave() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.armed {
		return
	}
	b.armed = true
	b.timer = time.AfterFunc(b.delay, func() {
		b.mu.Lock()
		b.armed = false
		b.mu.Unlock()
		b.saveNow()
	})
}

// Flush writes the current state immediately and cancels any pending
// debounced save. Used at shutdown.
func (b *Bridge) Flush() {
	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.armed = false
	b.mu.Unlock()
	b.saveNow()
}

// saveNow serializes the full current snapshot and writes it, best-effort.
func (b *Bridge) saveNow() {
	data, err := encodeSnapshot(b.snapshot())
	if err != nil {
		b.log.Warn("snapshot encode failed", "error", err)
		return
	}
	if err := b.blob.Write(data); err != nil {
		b.log.Warn("snapshot write failed, will retry on next change", "error", err)
	}
}

// snapshot assembles the full persisted unit from live store state.
func (b *Bridge) snapshot() models.AppSnapshot {
	b.mu.Lock()
	profile := b.profile
	b.mu.Unlock()
	return models.AppSnapshot{
		Version:         CurrentVersion,
		PlannerDrafts:   b.planner.Sessions(),
		JournalSessions: b.journal.Sessions(),
		Profile:         profile,
	}
}

// Export serializes the stored snapshot (or an empty default when nothing
// has been saved) as human-readable JSON.
func (b *Bridge) Export() string {
	snap := b.Load()
	if snap == nil {
		snap = &models.AppSnapshot{
			Version:         CurrentVersion,
			PlannerDrafts:   []models.WorkoutSession{},
			JournalSessions: []models.WorkoutSession{},
		}
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		b.log.Warn("snapshot export failed", "error", err)
		return ""
	}
	return string(data)
}

// Import parses untrusted snapshot text with the same normalization as
// Load and, on success, immediately overwrites durable state and applies
// the result to both stores. On failure it returns nil and leaves durable
// state untouched.
func (b *Bridge) Import(text string) *models.AppSnapshot {
	snap, err := decodeSnapshot([]byte(text), CurrentVersion)
	if err != nil {
		return nil
	}

	persisted := snap.Clone()
	persisted.Version = CurrentVersion
	data, err := encodeSnapshot(persisted)
	if err != nil {
		b.log.Warn("import encode failed", "error", err)
		return nil
	}
	if err := b.blob.Write(data); err != nil {
		b.log.Warn("import write failed", "error", err)
	}

	b.planner.Replace(snap.PlannerDrafts)
	b.journal.Replace(snap.JournalSessions)
	b.mu.Lock()
	b.profile = snap.Profile
	b.mu.Unlock()
	return snap
}
