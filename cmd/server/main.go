// Package main is the entry point for the gameshelf server.
//
// MAIN PACKAGE IN GO:
// Every Go program starts execution in the main() function of the "main" package.
// The main package should be kept minimal — its job is to:
// 1. Read configuration (from env vars, flags, or config files)
// 2. Create dependencies (logger, database connections, etc.)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server, internal/handler, etc.).
// This separation makes the app testable and its components reusable.
//
// WHY cmd/server/?
// The cmd/ directory is a Go convention for executable entry points.
// A project might have multiple executables (e.g., cmd/server, cmd/migrate, cmd/cli).
// Each gets its own directory with its own main.go.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/gameshelf/internal/config"
	"github.com/sakif/gameshelf/internal/server"
)

func main() {
	// === 1. READ CONFIGURATION ===
	// config.Load reads a .env file when one exists, then the environment.
	// Everything tunable — port, database path, upstream API URLs, session
	// lifetime — arrives in one struct; nothing else in the app reads env vars.
	cfg, err := config.Load()
	if err != nil {
		// The logger doesn't exist yet, so this one error goes to stderr raw.
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	// === 2. SET UP LOGGING ===
	// slog.New creates a structured logger. slog.NewTextHandler outputs
	// human-readable logs to the terminal.
	//
	// Log levels (from least to most severe): Debug → Info → Warn → Error
	// LOG_LEVEL=debug turns on the noisy lines (enrichment skips, swept
	// sessions); the default "info" keeps production output to one line per
	// request plus sign-in/mutation events.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	// === 3. ENSURE THE DATA DIRECTORY EXISTS ===
	// SQLite creates the database file itself, but not its parent directory.
	// os.MkdirAll creates all parents if needed (like `mkdir -p`) and is a
	// no-op when the directory already exists. ":memory:" has no directory.
	if dir := filepath.Dir(cfg.DBPath); cfg.DBPath != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	// === 4. CREATE AND START THE SERVER ===
	// server.New opens the database (running migrations), parses the page
	// templates, and wires every handler. An error here means the process
	// cannot serve and should exit.
	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// logLevel maps the config string onto a slog.Level. Unknown values fall
// back to Info rather than failing the boot — a typo in LOG_LEVEL should
// cost verbosity, not uptime.
func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
