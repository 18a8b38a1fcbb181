// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer — it connects handlers, middleware, and routes.
// Think of it as the control centre that decides:
// - Which URL patterns map to which handler functions
// - What middleware runs on which routes
// - How the server starts and stops gracefully
//
// DEPENDENCY INJECTION FLOW:
// main.go creates: config + logger → passed to Server
// Server.New() creates: sqlite.DB → PhotoStore → services → handlers
//
// This is the "composition root" pattern — all dependencies are wired
// in one place (New/setupRoutes), rather than scattered across the codebase.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/pinboard/internal/auth"
	"github.com/sakif/pinboard/internal/handler"
	"github.com/sakif/pinboard/internal/middleware"
	sqliteRepo "github.com/sakif/pinboard/internal/repository/sqlite"
	"github.com/sakif/pinboard/internal/service"
	"github.com/sakif/pinboard/internal/storage"
)

// Config holds server configuration.
// Using a struct for config (instead of individual parameters) makes it easy to
// add new options without changing function signatures.
type Config struct {
	Port          int
	TemplateDir   string
	StaticDir     string
	UploadDir     string // photo uploads; served at /static/photos/
	DBPath        string // path to the SQLite database file
	SessionSecret string // HMAC key for the session marker
}

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the database connection. When the server shuts down, the
// connection must be closed to flush the WAL and release the file lock —
// handled in Start() during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a new Server with the given config.
//
// This is where the entire dependency chain is assembled:
//  1. Open the database (applies the embedded schema on first run)
//  2. Create the photo store (creates the upload dir)
//  3. Create the session/password services
//  4. Create the service layer with the repositories
//  5. Create the handlers and wire them to routes
//
// Each layer only receives what it needs: services get repository
// interfaces (not the concrete sqlite.DB), handlers get services.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close() // Clean up DB if route setup fails
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// GET      /                      → Public map page (HTML, auth flag for UI)
// GET/POST /login                 → Login form / credential check
// GET      /logout                → Clear session cookie
// GET      /admin                 → Admin dashboard (session required, redirect)
// GET      /static/*              → Static files, incl. uploaded photos
// GET      /api/pins              → List pins (JSON, public)
// POST     /api/pins/add          → Create pin (session required, 403)
// POST     /api/pins/delete/{id}  → Delete pin (session required, 403)
//
// MIDDLEWARE ORDER MATTERS:
// Middleware executes in the order it's added:
// 1. RequestID — assigns unique ID to each request (for tracing)
// 2. RealIP — extracts real client IP from proxy headers
// 3. Recoverer — catches panics and returns 500 instead of crashing
// 4. Logger — logs each request with timing info
func (s *Server) setupRoutes() error {
	// === Global Middleware ===
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// === Shared auth services ===
	sessions, err := auth.NewSessionService(s.config.SessionSecret)
	if err != nil {
		return fmt.Errorf("creating session service: %w", err)
	}
	passwords := auth.NewPasswordService()

	// === Photo store ===
	photos, err := storage.NewPhotoStore(s.config.UploadDir)
	if err != nil {
		return fmt.Errorf("creating photo store: %w", err)
	}

	// === Services ===
	pinService := service.NewPinService(s.db.Pins(), photos, s.logger)
	authService := service.NewAuthService(s.db.Users(), sessions, passwords, s.logger)

	// === Handlers ===
	pages, err := handler.NewPageHandler(s.config.TemplateDir, pinService, s.logger)
	if err != nil {
		return fmt.Errorf("creating page handler: %w", err)
	}
	authHandler := handler.NewAuthHandler(authService, pages, s.logger)
	pinHandler := handler.NewPinHandler(pinService, s.logger)

	// === Static Files ===
	// Uploaded photos are mounted INSIDE the static tree, so a recorded
	// filename is fetchable at /static/photos/<name>. The photo mount comes
	// first because chi matches the more specific pattern.
	photoServer := http.FileServer(http.Dir(photos.Dir()))
	s.router.Handle("/static/photos/*", http.StripPrefix("/static/photos/", photoServer))
	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// === Page Routes ===
	s.router.With(auth.OptionalAuth(sessions)).Get("/", pages.HandleMap)
	s.router.Get("/login", authHandler.HandleLoginPage)
	s.router.Post("/login", authHandler.HandleLoginSubmit)
	s.router.Get("/logout", authHandler.HandleLogout)
	s.router.With(auth.RequirePageAuth(sessions)).Get("/admin", pages.HandleAdmin)

	// === API Routes ===
	// The listing is public; the mutations sit behind the API gate, which
	// answers 403 (never a redirect) to unauthenticated callers.
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/pins", pinHandler.HandleList)
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAPIAuth(sessions))
			r.Post("/pins/add", pinHandler.HandleAdd)
			r.Post("/pins/delete/{id}", pinHandler.HandleDelete)
		})
	})

	return nil
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s timeout)
// 3. Close the database connection (flushes WAL, releases file lock)
//
// The `defer s.db.Close()` ensures step 3 happens even if something panics.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
			slog.String("uploads", s.config.UploadDir),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
