// Package auth provides the session marker for the admin login flow.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. Admin submits the /login form with username + password
// 2. Server checks the digest against the users table
// 3. On match, the server issues a signed session token stored in an
//    HttpOnly cookie
// 4. On admin-gated requests, middleware reads the cookie, validates the
//    token, and puts the username in the request context
// 5. /logout expires the cookie — there is no server-side session table
//
// WHY A SIGNED TOKEN INSTEAD OF A SESSION STORE?
// The session marker is stateless — everything the server needs (who logged
// in, when it expires) lives inside the signed token. The signature ensures
// nobody can forge or tamper with it without the secret key, and there is no
// sessions table to create, query, or garbage-collect. The trade-off: there is
// no server-side revocation list, so logout only removes the client's copy.
//
// TOKEN STRUCTURE (three base64-encoded parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header: algorithm + token type → {"alg":"HS256","typ":"JWT"}
//	- Payload: claims (data) → {"sub":"admin","exp":1234567890}
//	- Signature: HMAC-SHA256(header+"."+payload, secretKey)
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

// sessionTTL is how long a login lasts before the admin must sign in again.
// There is no refresh mechanism — expiry is the only lifetime control the
// session marker has.
const sessionTTL = 24 * time.Hour

// SessionService signs and validates session markers.
//
// It holds the HMAC secret key used to sign and verify tokens. The same
// secret must be used for both operations, and changing it invalidates every
// outstanding session.
type SessionService struct {
	secret []byte
}

// NewSessionService creates a SessionService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: SESSION_SECRET=$(openssl rand -hex 32)
func NewSessionService(secret string) (*SessionService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	return &SessionService{secret: []byte(secret)}, nil
}

// claims is the token payload. It embeds jwt.RegisteredClaims which includes
// standard fields like Issuer, Subject, ExpiresAt, IssuedAt.
//
// We use "sub" (Subject) to carry the username — the only identity the app
// has, since all authenticated users are equivalent admins.
type claims struct {
	jwt.RegisteredClaims
}

// Issue creates and signs a session marker for the given username.
//
// Signing algorithm: HS256 (HMAC-SHA256)
// - Symmetric: same key for signing and verifying
// - Fast and simple — good for single-server deployments
//
// The "jti" (token ID) claim gets a fresh xid so two logins in the same
// second still produce distinct tokens.
func (s *SessionService) Issue(username string) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ID:        xid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
			Issuer:    "pinboard",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing session token: %w", err)
	}

	return signed, nil
}

// issueWithDuration creates a token with a custom expiry duration.
// Unexported helper used by the expiry tests in this package.
func (s *SessionService) issueWithDuration(username string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ID:        xid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    "pinboard",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing session token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a session marker.
// Returns the username (stored in the "sub" claim) if the token is valid.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired (ExpiresAt is in the future)
//   - Issuer matches "pinboard" (prevents tokens from other apps)
//   - Algorithm is HS256 (prevents algorithm confusion attacks)
//
// ALGORITHM CONFUSION ATTACK:
// Without checking the algorithm, an attacker could send a token signed with
// "none" and the library might accept it. Passing jwt.WithValidMethods prevents this.
func (s *SessionService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			// Reject tokens that aren't signed with HS256
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer("pinboard"),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		// Translate jwt library errors into cleaner messages
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: session expired")
		}
		return "", fmt.Errorf("auth: invalid session token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid session claims")
	}

	username := c.Subject
	if username == "" {
		return "", fmt.Errorf("auth: session token has no subject")
	}

	return username, nil
}
