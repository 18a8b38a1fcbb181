// Package auth — password hashing utilities.
//
// WHY SHA-256 AND NOT BCRYPT?
// Stored credentials in the users table are hex-encoded, unsalted, single-round
// SHA-256 digests — that is the format the existing admin tooling wrote and the
// format every row in deployed databases carries. Switching to bcrypt (or any
// salted KDF) would invalidate every stored hash and lock all admins out until
// their passwords were reset.
//
// THIS IS A KNOWN WEAKNESS. An unsalted fast hash offers no protection against
// rainbow tables or GPU brute force if the database leaks. Upgrading requires a
// coordinated migration of the users table (e.g. rehash-on-next-login), which
// is deliberately out of scope here. Do not reuse this package elsewhere.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// PasswordService hashes and verifies passwords in the legacy credential format.
//
// It's a struct (not free functions) so the web server's service layer and the
// admin CLI share one injected dependency, mirroring how the other auth pieces
// are wired.
type PasswordService struct{}

// NewPasswordService creates a PasswordService.
func NewPasswordService() *PasswordService {
	return &PasswordService{}
}

// Hash returns the hex-encoded SHA-256 digest of the plaintext.
//
// Output is always 64 lowercase hex characters, e.g.:
//
//	"secret" → "2bb80d537b1da3e38bd30361aa855686bde0eacd7162fef6a25fe97bf527a25b"
//
// Store this string directly in the users.password column.
func (p *PasswordService) Hash(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether a plaintext password matches a stored hash.
//
// TIMING SAFETY:
// The stored value and the recomputed digest are compared with
// subtle.ConstantTimeCompare, so response time doesn't reveal how many
// leading bytes of the hash matched.
func (p *PasswordService) Verify(hash, plaintext string) bool {
	computed := p.Hash(plaintext)
	return subtle.ConstantTimeCompare([]byte(hash), []byte(computed)) == 1
}
