package importer

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/claude/repbook/internal/journal"
	"github.com/claude/repbook/internal/models"
)

const sampleCSV = `date,title,exercise,sets,reps,weight,notes
2024-06-01,Push Day,Bench Press,3,10,60,felt strong
2024-06-01,Push Day,Overhead Press,3,8,40,
2024-06-03,Pull Day,Pull Up,4,6,,
`

func newImporter(t *testing.T, dryRun bool) (*Importer, *journal.Store) {
	t.Helper()
	j := journal.New()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(j, log, dryRun), j
}

// TestImportGroupsRows verifies rows sharing date and title become one
// session and that the newest session ends at the journal head.
func TestImportGroupsRows(t *testing.T) {
	imp, j := newImporter(t, false)

	stats, err := imp.Import(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	if stats.RowsParsed != 3 || stats.SessionsImported != 2 {
		t.Fatalf("stats = %+v, want 3 rows / 2 sessions", stats)
	}

	sessions := j.Sessions()
	if len(sessions) != 2 {
		t.Fatalf("journal holds %d sessions, want 2", len(sessions))
	}
	if sessions[0].Title != "Pull Day" {
		t.Errorf("head session = %q, want Pull Day (newest first)", sessions[0].Title)
	}
	push := sessions[1]
	if len(push.Items) != 2 {
		t.Fatalf("Push Day items = %d, want 2", len(push.Items))
	}
	if push.Items[0].Weight == nil || *push.Items[0].Weight != 60 {
		t.Errorf("bench weight = %v, want 60", push.Items[0].Weight)
	}
	if push.Items[0].Notes != "felt strong" {
		t.Errorf("bench notes = %q", push.Items[0].Notes)
	}
	if sessions[0].Items[0].Weight != nil {
		t.Errorf("pull up weight = %v, want nil (bodyweight)", sessions[0].Items[0].Weight)
	}
}

// TestImportSkipsBadRows verifies bad dates and non-numeric counts are
// skipped without aborting the import.
func TestImportSkipsBadRows(t *testing.T) {
	imp, j := newImporter(t, false)
	csv := "date,title,exercise,sets,reps,weight,notes\n" +
		"not-a-date,X,Bench,3,10,,\n" +
		"2024-06-01,Push,Bench,three,10,,\n" +
		"2024-06-01,Push,Bench,3,10,60,\n"

	stats, err := imp.Import(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	if stats.RowsSkipped != 2 || stats.RowsParsed != 1 {
		t.Errorf("stats = %+v, want 2 skipped / 1 parsed", stats)
	}
	if len(j.Sessions()) != 1 {
		t.Errorf("journal holds %d sessions, want 1", len(j.Sessions()))
	}
}

// TestImportSkipsDuplicates verifies sessions already in the journal are
// not imported twice.
func TestImportSkipsDuplicates(t *testing.T) {
	imp, j := newImporter(t, false)
	j.AddCompleted(models.WorkoutSession{
		ID: "existing", Title: "Push Day", DateISO: "2024-06-01",
		Items: []models.WorkoutExercise{{Name: "Bench Press", Sets: 3, Reps: 10}},
	})

	stats, err := imp.Import(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	if stats.SessionsDuplicated != 1 || stats.SessionsImported != 1 {
		t.Errorf("stats = %+v, want 1 duplicated / 1 imported", stats)
	}
}

// TestImportDryRun verifies dry-run counts without writing to the journal.
func TestImportDryRun(t *testing.T) {
	imp, j := newImporter(t, true)

	stats, err := imp.Import(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	if stats.SessionsImported != 2 {
		t.Errorf("SessionsImported = %d, want 2", stats.SessionsImported)
	}
	if len(j.Sessions()) != 0 {
		t.Errorf("journal holds %d sessions after dry run, want 0", len(j.Sessions()))
	}
}

// TestImportRejectsBadHeader verifies a wrong header aborts immediately.
func TestImportRejectsBadHeader(t *testing.T) {
	imp, _ := newImporter(t, false)

	if _, err := imp.Import(strings.NewReader("when,what\n2024-06-01,Push\n")); err == nil {
		t.Error("expected error for unrecognized header")
	}
}
