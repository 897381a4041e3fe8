package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tailscale.com/tsnet"

	"github.com/claude/repbook/internal/browse"
	"github.com/claude/repbook/internal/catalog"
	"github.com/claude/repbook/internal/config"
	"github.com/claude/repbook/internal/journal"
	repmcp "github.com/claude/repbook/internal/mcp"
	"github.com/claude/repbook/internal/persist"
	"github.com/claude/repbook/internal/planner"
	"github.com/claude/repbook/internal/server"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	exportPath := flag.String("export", "", "write a snapshot export to the given file and exit")
	importPath := flag.String("import", "", "import a snapshot from the given file and exit")
	mcpMode := flag.Bool("mcp", false, "serve MCP over stdio instead of HTTP")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(Version)
		return
	}

	logOut := os.Stdout
	if *mcpMode {
		// stdout carries the MCP protocol
		logOut = os.Stderr
	}
	log := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("RepBook starting", "version", Version)

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
	log.Info("snapshot store ready", "backend", cfg.Storage.Backend, "dir", cfg.Storage.Dir)

	// Stores and persistence bridge
	plannerStore := planner.New()
	journalStore := journal.New()
	bridge := persist.NewBridge(blob, plannerStore, journalStore,
		time.Duration(cfg.Persist.DebounceMS)*time.Millisecond, log)

	bridge.Hydrate()

	if *exportPath != "" {
		if err := os.WriteFile(*exportPath, []byte(bridge.Export()), 0o644); err != nil {
			log.Error("export failed", "path", *exportPath, "error", err)
			os.Exit(1)
		}
		log.Info("snapshot exported", "path", *exportPath)
		return
	}

	if *importPath != "" {
		data, err := os.ReadFile(*importPath)
		if err != nil {
			log.Error("import read failed", "path", *importPath, "error", err)
			os.Exit(1)
		}
		snap := bridge.Import(string(data))
		if snap == nil {
			log.Error("import failed: malformed snapshot", "path", *importPath)
			os.Exit(1)
		}
		log.Info("snapshot imported", "path", *importPath,
			"drafts", len(snap.PlannerDrafts), "sessions", len(snap.JournalSessions))
		return
	}

	bridge.Start()
	defer bridge.Stop()

	// Exercise catalog and browse store
	client := catalog.New(cfg.Catalog.BaseURL, cfg.Catalog.PageSize)
	browseStore := browse.New(client)

	if *mcpMode {
		s := repmcp.New(plannerStore, journalStore, browseStore, Version, log)
		log.Info("mcp server starting", "transport", "stdio")
		if err := mcpserver.ServeStdio(s); err != nil {
			log.Error("mcp server error", "error", err)
			os.Exit(1)
		}
		bridge.Flush()
		return
	}

	srv := server.New(plannerStore, journalStore, browseStore, bridge, cfg.Auth.APIKey, log)

	// Start server — tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "local (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	bridge.Flush()
	log.Info("server stopped")
}
