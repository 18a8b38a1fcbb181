package auth

import (
	"strings"
	"testing"
	"time"
)

// newTestSessionService creates a SessionService for testing.
// It uses a fixed, known secret so tests are deterministic.
func newTestSessionService(t *testing.T) *SessionService {
	t.Helper()
	ss, err := NewSessionService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewSessionService: %v", err)
	}
	return ss
}

// =========================================================================
// SERVICE CONSTRUCTION TESTS
// =========================================================================

func TestNewSessionService_ShortSecret(t *testing.T) {
	_, err := NewSessionService("short")
	if err == nil {
		t.Fatal("NewSessionService() should reject secrets shorter than 16 chars")
	}
}

func TestNewSessionService_ValidSecret(t *testing.T) {
	_, err := NewSessionService("this-is-16-chars")
	if err != nil {
		t.Fatalf("NewSessionService() unexpected error for valid secret: %v", err)
	}
}

// =========================================================================
// ISSUE TESTS
// =========================================================================

func TestIssue_ReturnsNonEmptyToken(t *testing.T) {
	ss := newTestSessionService(t)

	token, err := ss.Issue("admin")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if token == "" {
		t.Error("Issue() returned empty token")
	}

	// A JWT always has exactly three dot-separated parts.
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Errorf("Issue() token has %d parts, want 3", len(parts))
	}
}

func TestIssue_TokensAreUnique(t *testing.T) {
	ss := newTestSessionService(t)

	// The jti claim carries a fresh xid, so two logins by the same admin
	// in the same instant still get distinct markers.
	t1, err := ss.Issue("admin")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	t2, err := ss.Issue("admin")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if t1 == t2 {
		t.Error("Issue() returned identical tokens for two logins")
	}
}

// =========================================================================
// VALIDATE TESTS
// =========================================================================

func TestValidate_RoundTrip(t *testing.T) {
	ss := newTestSessionService(t)

	token, err := ss.Issue("admin")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	username, err := ss.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if username != "admin" {
		t.Errorf("Validate() username = %q, want %q", username, "admin")
	}
}

func TestValidate_TamperedToken(t *testing.T) {
	ss := newTestSessionService(t)

	token, err := ss.Issue("admin")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Flip a character in the payload — the signature check must fail.
	tampered := token[:len(token)/2] + "x" + token[len(token)/2+1:]
	if _, err := ss.Validate(tampered); err == nil {
		t.Error("Validate() accepted a tampered token")
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	ss := newTestSessionService(t)

	other, err := NewSessionService("a-completely-different-secret")
	if err != nil {
		t.Fatalf("NewSessionService: %v", err)
	}

	token, err := other.Issue("admin")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := ss.Validate(token); err == nil {
		t.Error("Validate() accepted a token signed with a different secret")
	}
}

func TestValidate_ExpiredToken(t *testing.T) {
	ss := newTestSessionService(t)

	// Issue a token that expired a minute ago.
	token, err := ss.issueWithDuration("admin", -time.Minute)
	if err != nil {
		t.Fatalf("issueWithDuration() error = %v", err)
	}

	if _, err := ss.Validate(token); err == nil {
		t.Error("Validate() accepted an expired token")
	}
}

func TestValidate_Garbage(t *testing.T) {
	ss := newTestSessionService(t)

	for _, bad := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := ss.Validate(bad); err == nil {
			t.Errorf("Validate(%q) accepted garbage input", bad)
		}
	}
}
