package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/pinboard/internal/apperror"
	"github.com/sakif/pinboard/internal/auth"
	"github.com/sakif/pinboard/internal/service"
)

// sessionMaxAge matches the session marker's own expiry, so the cookie and
// the token inside it die together.
const sessionMaxAge = 24 * 60 * 60 // seconds

// AuthHandler manages the login form flow and session cookie.
//
// HANDLER RESPONSIBILITIES:
//   - HandleLoginPage   → render the login form
//   - HandleLoginSubmit → check credentials, set the session cookie
//   - HandleLogout      → clear the session cookie
//
// The handler owns all the HTTP mechanics (forms, cookies, redirects); the
// credential check itself lives in service.AuthService.
type AuthHandler struct {
	authSvc *service.AuthService
	pages   *PageHandler
	logger  *slog.Logger
}

// NewAuthHandler creates an AuthHandler. The PageHandler is injected so bad
// credentials can re-render the same login template the GET route serves.
func NewAuthHandler(authSvc *service.AuthService, pages *PageHandler, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authSvc: authSvc,
		pages:   pages,
		logger:  logger,
	}
}

// HandleLoginPage serves the empty login form.
//
// HTTP: GET /login
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	h.pages.RenderLogin(w, "")
}

// HandleLoginSubmit authenticates a submitted username + password.
//
// HTTP: POST /login (application/x-www-form-urlencoded: username, password)
//
// FLOW:
//  1. Check credentials via the auth service
//  2. On success: set the signed session marker as an HttpOnly cookie and
//     redirect to the admin dashboard
//  3. On failure: re-render the form with the generic failure message —
//     same message for unknown user and wrong password
//
// COOKIE-BASED SESSION STORAGE:
// HttpOnly means page JavaScript cannot read the marker, which prevents XSS
// from stealing it. SameSite=Lax keeps it off cross-site POSTs.
func (h *AuthHandler) HandleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.logger.Warn("login: malformed form", slog.String("error", err.Error()))
		h.pages.RenderLogin(w, "Invalid username or password")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	token, err := h.authSvc.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, apperror.ErrUnauthorized) {
			// Generic message only — never say which field was wrong.
			h.pages.RenderLogin(w, "Invalid username or password")
			return
		}
		h.logger.Error("login: service failure", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/admin", http.StatusFound)
}

// HandleLogout clears the session cookie and returns to the login form.
//
// HTTP: GET /logout
//
// IDEMPOTENT BY CONSTRUCTION: there is no server-side session to tear down,
// so logging out twice (or while anonymous) just expires a cookie that may
// not exist. MaxAge: -1 tells the browser to delete it immediately.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/login", http.StatusFound)
}
