package auth

import (
	"context"
	"net/http"
)

// SessionCookieName is the cookie that carries the session marker.
// Set on login, cleared on logout. HttpOnly so page scripts can't read it.
const SessionCookieName = "session"

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string like
// context.WithValue(ctx, "user", name), ANY package that knows the string "user"
// can read or shadow your value. Using a package-private type prevents collisions:
// only THIS package can create a key of type contextKey, so only this package
// can read or write the identity value in the context.
type contextKey string

const usernameKey contextKey = "username"

// RequireAPIAuth gates admin-only API routes (pin add/delete).
//
// It reads the session cookie, validates the signed marker, and stores the
// username in the request context. If the marker is missing or invalid, it
// returns 403 Forbidden and stops the request chain — API callers get a
// status code, never a redirect.
//
// MIDDLEWARE PATTERN IN GO:
// A middleware is a function that takes an http.Handler and returns a new
// http.Handler. The new handler "wraps" the original:
//
//	func Middleware(next http.Handler) http.Handler {
//	    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	        // ... do stuff before the handler ...
//	        next.ServeHTTP(w, r)
//	    })
//	}
//
// Chi applies middlewares in a chain: req → M1 → M2 → Handler → M2 → M1 → resp
func RequireAPIAuth(sessions *SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, err := extractUsername(r, sessions)
			if err != nil {
				http.Error(w, "unauth", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), usernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePageAuth gates admin-only PAGE routes (the dashboard).
//
// Same check as RequireAPIAuth, but an unauthenticated browser is redirected
// to the login form instead of being shown a bare 403 — that's the friendly
// behaviour for a human clicking a bookmark.
func RequirePageAuth(sessions *SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, err := extractUsername(r, sessions)
			if err != nil {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), usernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth extracts the identity if a valid session is present, but does
// NOT block the request if it's missing or invalid.
//
// Used on the public map page, which renders an "add pin" affordance for
// signed-in admins but is otherwise identical for anonymous visitors.
func OptionalAuth(sessions *SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if username, err := extractUsername(r, sessions); err == nil && username != "" {
				ctx := context.WithValue(r.Context(), usernameKey, username)
				r = r.WithContext(ctx)
			}
			// Always continue — no rejection even without a session
			next.ServeHTTP(w, r)
		})
	}
}

// UsernameFromContext retrieves the authenticated admin's username from the
// request context.
//
// Returns ("", false) if the request is anonymous. This is the session
// guard's is-authenticated check:
//
//	_, ok := auth.UsernameFromContext(r.Context())
//	if !ok {
//	    // anonymous
//	}
func UsernameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(usernameKey).(string)
	return name, ok && name != ""
}

// extractUsername reads the session cookie and validates the marker.
// Private helper shared by all three middlewares.
func extractUsername(r *http.Request, sessions *SessionService) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		// http.ErrNoCookie — not an error, just anonymous
		return "", err
	}

	return sessions.Validate(cookie.Value)
}
