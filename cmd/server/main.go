// Package main is the entry point for the pinboard web server.
//
// MAIN PACKAGE IN GO:
// Every Go program starts execution in the main() function of the "main" package.
// The main package should be kept minimal — its job is to:
// 1. Read configuration (from env vars, flags, or config files)
// 2. Create dependencies (logger, database connections, etc.)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server, internal/handler, etc.).
//
// WHY cmd/server/?
// The cmd/ directory is a Go convention for executable entry points. This
// project has two executables — cmd/server (the web app) and cmd/adminctl
// (credential management) — each with its own directory and main.go.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/sakif/pinboard/internal/server"
)

func main() {
	// === 1. SET UP LOGGING ===
	// slog.New creates a structured logger. slog.NewTextHandler outputs
	// human-readable logs to the terminal.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	// === 2. READ CONFIGURATION ===
	// godotenv loads a .env file into the process environment if one exists.
	// A missing .env is fine — deployments set real env vars instead.
	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded configuration from .env")
	}

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	// === 3. RESOLVE FILE PATHS ===
	// Template/static dirs sit under web/ at the project root; the upload dir
	// defaults to a photos directory the server also serves statically.
	// filepath.Abs makes the paths independent of later chdir calls.
	templateDir, _ := filepath.Abs(envOr("TEMPLATE_DIR", "web/templates"))
	staticDir, _ := filepath.Abs(envOr("STATIC_DIR", "web/static"))
	uploadDir, _ := filepath.Abs(envOr("UPLOAD_DIR", "data/photos"))

	// === 4. DATABASE PATH ===
	// DB_PATH env var allows overriding for production deployments.
	// Example: DB_PATH=/var/lib/pinboard/prod.db
	dbPath := envOr("DB_PATH", "data/pinboard.db")

	// Ensure the data directory exists.
	// os.MkdirAll creates all parent directories if needed (like `mkdir -p`).
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", dbDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// === 5. SESSION SECRET ===
	// SESSION_SECRET must be a long random string. Use:
	//   SESSION_SECRET=$(openssl rand -hex 32)
	// The dev fallback keeps local runs working but is useless in production —
	// anyone who reads the source can forge admin sessions with it.
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		logger.Warn("SESSION_SECRET not set — using an insecure development secret")
		secret = "dev-only-insecure-session-secret"
	}

	// === 6. CREATE AND START THE SERVER ===
	cfg := server.Config{
		Port:          port,
		TemplateDir:   templateDir,
		StaticDir:     staticDir,
		UploadDir:     uploadDir,
		DBPath:        dbPath,
		SessionSecret: secret,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		// Covers storage initialisation failures: bad DB path, unwritable
		// upload dir, broken templates. Fatal — the process must not serve.
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// envOr returns the environment variable's value, or def if it's unset.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
