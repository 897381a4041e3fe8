package models

// Goal is a training goal on the user profile.
type Goal string

const (
	GoalFatLoss        Goal = "fat_loss"
	GoalMuscleGain     Goal = "muscle_gain"
	GoalEndurance      Goal = "endurance"
	GoalGeneralFitness Goal = "general_fitness"
)

// Experience is a self-reported training experience level.
type Experience string

const (
	ExperienceBeginner     Experience = "beginner"
	ExperienceIntermediate Experience = "intermediate"
	ExperienceAdvanced     Experience = "advanced"
)

// UserProfile is carried through snapshots as an opaque pass-through; the
// data layer never reads it beyond serialization.
type UserProfile struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Goal       Goal       `json:"goal,omitempty"`
	Experience Experience `json:"experience,omitempty"`
}

// AppSnapshot is the persisted unit: the complete serializable state of
// drafts, journal, and profile at a point in time.
type AppSnapshot struct {
	Version         int              `json:"version"`
	PlannerDrafts   []WorkoutSession `json:"plannerDrafts"`
	JournalSessions []WorkoutSession `json:"journalSessions"`
	Profile         *UserProfile     `json:"profile"`
}

// Clone returns a deep copy of the snapshot.
func (s AppSnapshot) Clone() AppSnapshot {
	out := AppSnapshot{
		Version:         s.Version,
		PlannerDrafts:   CloneSessions(s.PlannerDrafts),
		JournalSessions: CloneSessions(s.JournalSessions),
	}
	if s.Profile != nil {
		p := *s.Profile
		out.Profile = &p
	}
	return out
}
