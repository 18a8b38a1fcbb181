// Package model defines the data structures used throughout the application.
package model

// User represents an administrator account.
//
// There are no roles — anyone with a row in the users table is an admin.
// Accounts are managed exclusively by the adminctl CLI; the web server only
// ever reads this table during login.
//
// PasswordHash holds the hex-encoded SHA-256 digest of the password (see
// internal/auth/password.go for why the format is fixed). It is never
// serialized: the `json:"-"` tag makes encoding/json skip the field, so a
// User can be passed to templates or logs without leaking the hash.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}
