// Package service — authentication business logic.
//
// AuthService is the business logic layer for the login flow. It sits between
// the HTTP handlers and the repository/auth utilities:
//
//	AuthHandler (HTTP) → AuthService (business rules) → UserRepository (DB)
//	                   ↘ SessionService (signed marker)
//
// KEY RESPONSIBILITIES:
//   - Check submitted credentials against the users table
//   - Issue the session marker on success
//   - Keep the failure mode generic — the caller never learns whether the
//     username or the password was wrong
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/pinboard/internal/apperror"
	"github.com/sakif/pinboard/internal/auth"
	"github.com/sakif/pinboard/internal/repository"
)

// AuthService handles the login business logic.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users      repository.UserRepository  → read admin accounts
//   - sessions   *auth.SessionService       → sign session markers
//   - passwords  *auth.PasswordService      → legacy digest compare
//   - logger     *slog.Logger               → structured logging
type AuthService struct {
	users     repository.UserRepository
	sessions  *auth.SessionService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
// Call this in server.go when wiring the dependency graph.
func NewAuthService(
	users repository.UserRepository,
	sessions *auth.SessionService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		sessions:  sessions,
		passwords: passwords,
		logger:    logger,
	}
}

// Login checks the submitted credentials and, on success, returns a signed
// session marker for the handler to set as a cookie.
//
// FAILURE IS ALWAYS GENERIC:
// Unknown username and wrong password both return apperror.ErrUnauthorized
// with the same message. Distinguishing them would let an attacker enumerate
// valid usernames. We log the username on failure (operators may watch for
// probing) but the client sees nothing field-specific.
//
// There is deliberately NO rate limiting or lockout here — a single-round
// unsalted digest plus unlimited attempts is the documented legacy posture.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Info("login failed", slog.String("username", username))
			return "", apperror.Unauthorized()
		}
		return "", fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if !s.passwords.Verify(user.PasswordHash, password) {
		s.logger.Info("login failed", slog.String("username", username))
		return "", apperror.Unauthorized()
	}

	token, err := s.sessions.Issue(user.Username)
	if err != nil {
		return "", fmt.Errorf("service/auth: issuing session for %s: %w", user.Username, err)
	}

	s.logger.Info("admin logged in", slog.String("username", user.Username))

	return token, nil
}
