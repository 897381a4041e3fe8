// Package progress computes aggregate statistics over completed workout
// sessions. All queries are pure: a Tracker never mutates the sessions it
// was built over and is safe to query repeatedly.
package progress

import (
	"sort"
	"strings"
	"time"

	"github.com/claude/repbook/internal/models"
)

// Tracker answers aggregate queries over an ordered list of sessions.
type Tracker struct {
	sessions []models.WorkoutSession
}

// New creates a Tracker over the given sessions. The slice is not copied;
// callers pass the immutable snapshots the stores hand out.
func New(sessions []models.WorkoutSession) *Tracker {
	return &Tracker{sessions: sessions}
}

// TotalSessions returns the number of sessions.
func (t *Tracker) TotalSessions() int {
	return len(t.sessions)
}

// TotalVolume returns the sum of weight*reps*sets across all items of all
// sessions. A missing weight counts as 0, so bodyweight rows contribute no
// volume but their session still counts toward TotalSessions.
func (t *Tracker) TotalVolume() float64 {
	var sum float64
	for _, s := range t.sessions {
		for _, it := range s.Items {
			var w float64
			if it.Weight != nil {
				w = *it.Weight
			}
			sum += w * float64(it.Reps) * float64(it.Sets)
		}
	}
	return sum
}

// BestForExercise returns the maximum recorded weight for the named
// exercise, matching case-insensitively after trimming. Returns 0 when no
// item matches; a session holding only bodyweight entries for the exercise
// also yields 0, indistinguishable from "never performed".
func (t *Tracker) BestForExercise(name string) float64 {
	target := strings.ToLower(strings.TrimSpace(name))
	var best float64
	for _, s := range t.sessions {
		for _, it := range s.Items {
			if strings.ToLower(strings.TrimSpace(it.Name)) != target {
				continue
			}
			if it.Weight != nil && *it.Weight > best {
				best = *it.Weight
			}
		}
	}
	return best
}

// SessionsWithExercise returns the sessions containing at least one item
// whose name matches, case-insensitively after trimming. Order is
// preserved.
func (t *Tracker) SessionsWithExercise(name string) []models.WorkoutSession {
	target := strings.ToLower(strings.TrimSpace(name))
	var out []models.WorkoutSession
	for _, s := range t.sessions {
		for _, it := range s.Items {
			if strings.ToLower(strings.TrimSpace(it.Name)) == target {
				out = append(out, s.Clone())
				break
			}
		}
	}
	return out
}

// WeeklyCount returns the number of sessions whose date falls within the
// inclusive range [startISO, endISO]. Either bound failing to parse yields
// 0, not an error; sessions with unparseable dates are skipped.
func (t *Tracker) WeeklyCount(startISO, endISO string) int {
	start, err := ParseFlexTime(startISO)
	if err != nil {
		return 0
	}
	end, err := ParseFlexTime(endISO)
	if err != nil {
		return 0
	}

	count := 0
	for _, s := range t.sessions {
		ts, err := ParseFlexTime(s.DateISO)
		if err != nil {
			continue
		}
		if !ts.Before(start) && !ts.After(end) {
			count++
		}
	}
	return count
}

// ExerciseStat holds summary stats for a single exercise name.
type ExerciseStat struct {
	Name        string  `json:"name"`
	Count       int     `json:"count"`
	BestWeight  float64 `json:"best_weight"`
	TotalVolume float64 `json:"total_volume"`
}

// Summary holds aggregate statistics across all sessions.
type Summary struct {
	TotalSessions int            `json:"total_sessions"`
	TotalVolume   float64        `json:"total_volume"`
	Exercises     []ExerciseStat `json:"exercises"`
}

// Summarize returns totals plus per-exercise stats, grouped by trimmed
// lower-cased name and sorted by total volume descending (count, then name,
// as tie-breakers). The display name is the first spelling encountered.
func (t *Tracker) Summarize() Summary {
	type acc struct {
		stat  ExerciseStat
		order int
	}
	byName := make(map[string]*acc)

	for _, s := range t.sessions {
		for _, it := range s.Items {
			key := strings.ToLower(strings.TrimSpace(it.Name))
			if key == "" {
				continue
			}
			a, ok := byName[key]
			if !ok {
				a = &acc{stat: ExerciseStat{Name: strings.TrimSpace(it.Name)}, order: len(byName)}
				byName[key] = a
			}
			var w float64
			if it.Weight != nil {
				w = *it.Weight
			}
			a.stat.Count++
			a.stat.TotalVolume += w * float64(it.Reps) * float64(it.Sets)
			if w > a.stat.BestWeight {
				a.stat.BestWeight = w
			}
		}
	}

	stats := make([]ExerciseStat, 0, len(byName))
	for _, a := range byName {
		stats = append(stats, a.stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalVolume != stats[j].TotalVolume {
			return stats[i].TotalVolume > stats[j].TotalVolume
		}
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Name < stats[j].Name
	})

	return Summary{
		TotalSessions: t.TotalSessions(),
		TotalVolume:   t.TotalVolume(),
		Exercises:     stats,
	}
}

// ParseFlexTime parses an RFC 3339 timestamp, falling back to a plain
// YYYY-MM-DD date.
func ParseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
