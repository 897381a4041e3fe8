// Package persist mirrors the planner and journal stores to durable local
// storage: a versioned snapshot format, defensive decoding of untrusted
// payloads, pluggable blob backends, and a debounced save bridge.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/claude/repbook/internal/models"
)

// CurrentVersion is the snapshot format version written on every save.
const CurrentVersion = 1

// decodeSnapshot parses an untrusted snapshot payload. The top level must
// be a JSON object; every field is then normalized individually: a
// missing or malformed session list becomes empty, a malformed profile
// becomes nil, a missing version becomes defaultVersion. Only a payload
// that is not an object at all fails.
func decodeSnapshot(data []byte, defaultVersion int) (*models.AppSnapshot, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if raw == nil {
		return nil, errors.New("snapshot is not a JSON object")
	}

	snap := &models.AppSnapshot{
		Version:         defaultVersion,
		PlannerDrafts:   decodeSessions(raw["plannerDrafts"]),
		JournalSessions: decodeSessions(raw["journalSessions"]),
	}

	if rm, ok := raw["version"]; ok {
		var v int
		if err := json.Unmarshal(rm, &v); err == nil {
			snap.Version = v
		}
	}
	if rm, ok := raw["profile"]; ok {
		var p *models.UserProfile
		if err := json.Unmarshal(rm, &p); err == nil {
			snap.Profile = p
		}
	}
	return snap, nil
}

// decodeSessions normalizes a session list field: anything that is not an
// array of sessions decodes to an empty list, and each session gets a
// non-nil item slice.
func decodeSessions(rm json.RawMessage) []models.WorkoutSession {
	if rm == nil {
		return []models.WorkoutSession{}
	}
	var sessions []models.WorkoutSession
	if err := json.Unmarshal(rm, &sessions); err != nil || sessions == nil {
		return []models.WorkoutSession{}
	}
	for i := range sessions {
		if sessions[i].Items == nil {
			sessions[i].Items = []models.WorkoutExercise{}
		}
	}
	return sessions
}

// encodeSnapshot serializes a snapshot as the single textual blob the
// backends store.
func encodeSnapshot(snap models.AppSnapshot) ([]byte, error) {
	return json.Marshal(snap)
}
