// Package handler contains HTTP request handlers for the pinboard application.
//
// HANDLER RESPONSIBILITIES:
// 1. Parse the incoming HTTP request (form fields, URL params, cookies)
// 2. Call business logic on the service layer
// 3. Write the HTTP response (status code, headers, rendered page or JSON)
//
// Handlers should NOT contain business logic — they are the "glue" between
// HTTP and the app.
package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/sakif/pinboard/internal/auth"
	"github.com/sakif/pinboard/internal/service"
)

// PageHandler renders the three HTML pages: public map, admin dashboard, and
// login form.
//
// It holds parsed templates so we don't re-parse them on every request.
// Each page is parsed together with base.html — Go's template composition
// model: base.html defines the page skeleton with a {{template "content" .}}
// placeholder, and each page file fills it with {{define "content"}}.
type PageHandler struct {
	mapTmpl   *template.Template
	adminTmpl *template.Template
	loginTmpl *template.Template
	pins      *service.PinService
	logger    *slog.Logger
}

// NewPageHandler parses the page templates from templateDir.
// Parsing happens once at startup — a broken template fails the boot rather
// than the first request.
func NewPageHandler(templateDir string, pins *service.PinService, logger *slog.Logger) (*PageHandler, error) {
	parse := func(page string) (*template.Template, error) {
		return template.ParseFiles(
			filepath.Join(templateDir, "base.html"),
			filepath.Join(templateDir, page),
		)
	}

	mapTmpl, err := parse("map.html")
	if err != nil {
		return nil, err
	}
	adminTmpl, err := parse("admin.html")
	if err != nil {
		return nil, err
	}
	loginTmpl, err := parse("login.html")
	if err != nil {
		return nil, err
	}

	return &PageHandler{
		mapTmpl:   mapTmpl,
		adminTmpl: adminTmpl,
		loginTmpl: loginTmpl,
		pins:      pins,
		logger:    logger,
	}, nil
}

// HandleMap serves the public map page.
//
// HTTP: GET /
//
// The page itself is public; the Auth flag (from OptionalAuth middleware)
// only toggles the signed-in UI affordances. Pins are loaded client-side
// from /api/pins, so the template needs no pin data.
func (h *PageHandler) HandleMap(w http.ResponseWriter, r *http.Request) {
	_, authed := auth.UsernameFromContext(r.Context())

	h.render(w, h.mapTmpl, http.StatusOK, map[string]interface{}{
		"Title": "Pinboard",
		"Auth":  authed,
	})
}

// HandleAdmin serves the admin dashboard with the full pin listing.
//
// HTTP: GET /admin (behind RequirePageAuth — anonymous browsers are
// redirected to /login before this runs)
func (h *PageHandler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UsernameFromContext(r.Context())

	pins, err := h.pins.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list pins for dashboard", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.render(w, h.adminTmpl, http.StatusOK, map[string]interface{}{
		"Title":    "Pinboard — Admin",
		"Username": username,
		"Pins":     pins,
	})
}

// RenderLogin renders the login form, optionally with a failure message.
// Exported because the auth handler re-renders the form on bad credentials.
// errMsg must already be generic — nothing here filters it.
func (h *PageHandler) RenderLogin(w http.ResponseWriter, errMsg string) {
	h.render(w, h.loginTmpl, http.StatusOK, map[string]interface{}{
		"Title": "Pinboard — Login",
		"Error": errMsg,
	})
}

// render executes a page template against the base layout.
func (h *PageHandler) render(w http.ResponseWriter, tmpl *template.Template, status int, data map[string]interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		// Headers are already sent; all we can do is log.
		h.logger.Error("failed to render template", slog.String("error", err.Error()))
	}
}
