// Package importer reads workout log CSV exports and turns them into
// completed journal sessions. Rows sharing a date and title are grouped
// into one session.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/claude/repbook/internal/journal"
	"github.com/claude/repbook/internal/models"
	"github.com/claude/repbook/internal/progress"
)

// Expected header: date,title,exercise,sets,reps,weight,notes
// weight may be empty for bodyweight work; notes is optional.
var expectedColumns = []string{"date", "title", "exercise", "sets", "reps", "weight", "notes"}

// Stats tracks import progress.
type Stats struct {
	RowsParsed         int
	RowsSkipped        int
	SessionsImported   int
	SessionsDuplicated int
}

// Importer parses workout CSV exports into journal sessions.
type Importer struct {
	journal *journal.Store
	log     *slog.Logger
	dryRun  bool
	stats   Stats
}

// New creates a new Importer. With dryRun set, Import parses and reports
// counts without touching the journal.
func New(j *journal.Store, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{journal: j, log: log, dryRun: dryRun}
}

// Import reads CSV rows from r and appends the grouped sessions to the
// journal, oldest first so the newest ends up at the head. Sessions whose
// date and title already appear in the journal are skipped.
func (imp *Importer) Import(r io.Reader) (*Stats, error) {
	sessions, err := imp.parse(r)
	if err != nil {
		return &imp.stats, err
	}

	existing := make(map[string]bool)
	for _, s := range imp.journal.Sessions() {
		existing[sessionKey(s.DateISO, s.Title)] = true
	}

	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		if existing[sessionKey(s.DateISO, s.Title)] {
			imp.stats.SessionsDuplicated++
			imp.log.Info("skipping duplicate session", "date", s.DateISO, "title", s.Title)
			continue
		}
		imp.stats.SessionsImported++
		if imp.dryRun {
			continue
		}
		imp.journal.AddCompleted(s)
	}

	return &imp.stats, nil
}

// parse reads all rows and groups consecutive rows with the same date and
// title into one session. Rows with a bad date or non-numeric sets/reps are
// skipped, not fatal.
func (imp *Importer) parse(r io.Reader) ([]models.WorkoutSession, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var sessions []models.WorkoutSession
	var current *models.WorkoutSession

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		if len(rec) < 5 {
			imp.stats.RowsSkipped++
			continue
		}

		dateISO := strings.TrimSpace(rec[0])
		title := strings.TrimSpace(rec[1])
		if _, err := progress.ParseFlexTime(dateISO); err != nil {
			imp.stats.RowsSkipped++
			imp.log.Warn("skipping row with bad date", "date", dateISO)
			continue
		}

		item, ok := parseItem(rec)
		if !ok {
			imp.stats.RowsSkipped++
			continue
		}
		imp.stats.RowsParsed++

		if current == nil || current.DateISO != dateISO || current.Title != title {
			if current != nil {
				sessions = append(sessions, *current)
			}
			current = &models.WorkoutSession{
				ID:      uuid.NewString(),
				Title:   title,
				DateISO: dateISO,
				Items:   []models.WorkoutExercise{},
			}
		}
		current.Items = append(current.Items, item)
	}

	if current != nil {
		sessions = append(sessions, *current)
	}
	return sessions, nil
}

func parseItem(rec []string) (models.WorkoutExercise, bool) {
	name := strings.TrimSpace(rec[2])
	if name == "" {
		return models.WorkoutExercise{}, false
	}
	sets, err := strconv.Atoi(strings.TrimSpace(rec[3]))
	if err != nil {
		return models.WorkoutExercise{}, false
	}
	reps, err := strconv.Atoi(strings.TrimSpace(rec[4]))
	if err != nil {
		return models.WorkoutExercise{}, false
	}

	item := models.WorkoutExercise{Name: name, Sets: sets, Reps: reps}

	if len(rec) > 5 {
		if ws := strings.TrimSpace(rec[5]); ws != "" {
			w, err := strconv.ParseFloat(ws, 64)
			if err != nil {
				return models.WorkoutExercise{}, false
			}
			item.Weight = &w
		}
	}
	if len(rec) > 6 {
		item.Notes = strings.TrimSpace(rec[6])
	}
	return item, true
}

func checkHeader(header []string) error {
	if len(header) < 5 {
		return fmt.Errorf("header has %d columns, want at least 5", len(header))
	}
	for i, want := range expectedColumns[:5] {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return fmt.Errorf("column %d is %q, want %q", i, header[i], want)
		}
	}
	return nil
}

func sessionKey(dateISO, title string) string {
	return dateISO + "\x00" + strings.ToLower(title)
}
