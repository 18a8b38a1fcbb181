package handler_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/pinboard/internal/apperror"
	"github.com/sakif/pinboard/internal/auth"
	"github.com/sakif/pinboard/internal/handler"
	"github.com/sakif/pinboard/internal/model"
	"github.com/sakif/pinboard/internal/service"
)

// memUserRepo is a minimal in-memory user repository for login tests.
type memUserRepo struct {
	users map[string]*model.User
}

func (m *memUserRepo) Create(ctx context.Context, user *model.User) error {
	m.users[user.Username] = user
	return nil
}

func (m *memUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, apperror.NotFound("user", username)
	}
	return u, nil
}

func (m *memUserRepo) List(ctx context.Context) ([]model.User, error) {
	out := []model.User{}
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memUserRepo) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	u, ok := m.users[username]
	if !ok {
		return apperror.NotFound("user", username)
	}
	u.PasswordHash = passwordHash
	return nil
}

func (m *memUserRepo) Delete(ctx context.Context, username string) error {
	delete(m.users, username)
	return nil
}

// newSeededUserRepo returns a repo holding one admin with the real digest of
// the given password.
func newSeededUserRepo(t *testing.T, passwords *auth.PasswordService, username, password string) *memUserRepo {
	t.Helper()
	return &memUserRepo{users: map[string]*model.User{
		username: {ID: 1, Username: username, PasswordHash: passwords.Hash(password)},
	}}
}

// writeTestTemplates lays down just enough HTML for the page handler to
// parse. Content doesn't matter beyond the markers the assertions look for.
func writeTestTemplates(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"base.html":  `{{define "base"}}<html><body>{{template "content" .}}</body></html>{{end}}`,
		"map.html":   `{{define "content"}}map auth={{.Auth}}{{end}}`,
		"admin.html": `{{define "content"}}admin {{len .Pins}} pins{{end}}`,
		"login.html": `{{define "content"}}login{{if .Error}} error={{.Error}}{{end}}{{end}}`,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

// newTestAuthHandler wires a real AuthService over in-memory storage, with
// one seeded admin ("admin" / "secret").
func newTestAuthHandler(t *testing.T) (*handler.AuthHandler, *auth.SessionService) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	passwords := auth.NewPasswordService()
	sessions, err := auth.NewSessionService("test-secret-at-least-16-chars!!")
	require.NoError(t, err)

	users := newSeededUserRepo(t, passwords, "admin", "secret")
	authSvc := service.NewAuthService(users, sessions, passwords, logger)

	pinSvc := service.NewPinService(&memPinRepo{}, &memPhotoSaver{}, logger)
	pages, err := handler.NewPageHandler(writeTestTemplates(t), pinSvc, logger)
	require.NoError(t, err)

	return handler.NewAuthHandler(authSvc, pages, logger), sessions
}

func loginForm(username, password string) *http.Request {
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHandleLoginSubmit(t *testing.T) {
	t.Run("valid credentials set session and redirect", func(t *testing.T) {
		h, sessions := newTestAuthHandler(t)

		rr := httptest.NewRecorder()
		h.HandleLoginSubmit(rr, loginForm("admin", "secret"))

		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/admin", rr.Header().Get("Location"))

		// The response must carry a valid HttpOnly session cookie.
		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, auth.SessionCookieName, c.Name)
		assert.True(t, c.HttpOnly)

		username, err := sessions.Validate(c.Value)
		require.NoError(t, err)
		assert.Equal(t, "admin", username)
	})

	t.Run("wrong password re-renders with generic message", func(t *testing.T) {
		h, _ := newTestAuthHandler(t)

		rr := httptest.NewRecorder()
		h.HandleLoginSubmit(rr, loginForm("admin", "wrong"))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Invalid username or password")
		assert.Empty(t, rr.Result().Cookies(), "no session cookie on failure")
	})

	t.Run("unknown user gets the SAME message", func(t *testing.T) {
		h, _ := newTestAuthHandler(t)

		rrUser := httptest.NewRecorder()
		h.HandleLoginSubmit(rrUser, loginForm("ghost", "secret"))
		rrPass := httptest.NewRecorder()
		h.HandleLoginSubmit(rrPass, loginForm("admin", "wrong"))

		// Field-level detail must not leak through differing responses.
		assert.Equal(t, rrUser.Body.String(), rrPass.Body.String())
	})
}

func TestHandleLogout(t *testing.T) {
	h, _ := newTestAuthHandler(t)

	// Logout twice — both must behave identically (idempotent).
	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		h.HandleLogout(rr, httptest.NewRequest(http.MethodGet, "/logout", nil))

		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/login", rr.Header().Get("Location"))

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, auth.SessionCookieName, cookies[0].Name)
		assert.Less(t, cookies[0].MaxAge, 0, "cookie must be expired")
	}
}

func TestHandleLoginPage(t *testing.T) {
	h, _ := newTestAuthHandler(t)

	rr := httptest.NewRecorder()
	h.HandleLoginPage(rr, httptest.NewRequest(http.MethodGet, "/login", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "login")
	assert.NotContains(t, rr.Body.String(), "error=")
}
