package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/claude/repbook/internal/config"
	"github.com/claude/repbook/internal/importer"
	"github.com/claude/repbook/internal/journal"
	"github.com/claude/repbook/internal/persist"
	"github.com/claude/repbook/internal/planner"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	csvPath := flag.String("path", "", "path to workout log CSV (required)")
	dryRun := flag.Bool("dry-run", false, "report counts without writing the snapshot")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *csvPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: repbook-import -config config.yaml -path workouts.csv [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Open snapshot store
	var blob persist.Blob
	switch cfg.Storage.Backend {
	case "file":
		blob, err = persist.OpenFile(cfg.Storage.Dir)
	default:
		blob, err = persist.OpenSQLite(cfg.Storage.Dir)
	}
	if err != nil {
		log.Error("failed to open snapshot store", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	defer blob.Close()

	plannerStore := planner.New()
	journalStore := journal.New()
	bridge := persist.NewBridge(blob, plannerStore, journalStore,
		time.Duration(cfg.Persist.DebounceMS)*time.Millisecond, log)
	bridge.Hydrate()

	if *dryRun {
		log.Info("DRY RUN mode: no data will be written")
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Error("failed to open CSV", "path", *csvPath, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	imp := importer.New(journalStore, log, *dryRun)
	stats, err := imp.Import(f)
	if err != nil {
		log.Error("import failed", "error", err)
		printStats(log, stats)
		os.Exit(1)
	}

	if !*dryRun && stats.SessionsImported > 0 {
		bridge.Flush()
	}

	printStats(log, stats)
	log.Info("import complete")
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	log.Info("import stats",
		"rows_parsed", stats.RowsParsed,
		"rows_skipped", stats.RowsSkipped,
		"sessions_imported", stats.SessionsImported,
		"sessions_duplicated", stats.SessionsDuplicated,
	)
}
