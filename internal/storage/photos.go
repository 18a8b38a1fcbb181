// Package storage persists uploaded pin photos on the local filesystem.
//
// Photos live in a single flat directory that is also served as static
// content, so a stored filename is directly fetchable at
// /static/photos/<filename>. Only the bare filename is ever recorded in the
// database — never a path.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// PhotoStore writes uploaded photos into a fixed directory.
type PhotoStore struct {
	dir string
}

// NewPhotoStore creates the upload directory if needed and returns a store
// rooted there.
func NewPhotoStore(dir string) (*PhotoStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: creating upload dir %s: %w", dir, err)
	}
	return &PhotoStore{dir: dir}, nil
}

// Dir returns the upload directory path. Used by the server to mount the
// static file route.
func (s *PhotoStore) Dir() string {
	return s.dir
}

// Save sanitizes the declared filename and writes the photo bytes under it.
// Returns the sanitized filename — the exact string to record on the pin.
//
// COLLISION POLICY: SILENT OVERWRITE.
// If a file of the same sanitized name already exists it is truncated and
// replaced. Stored filenames are public static URLs that admins refer to by
// name, so content-addressing was rejected; the overwrite behaviour is the
// documented trade-off. A consequence: two pins may share one filename, which
// is why pin deletion never removes photo files.
func (s *PhotoStore) Save(declaredName string, r io.Reader) (string, error) {
	name := SanitizeFilename(declaredName)
	if name == "" {
		return "", fmt.Errorf("storage: filename %q sanitizes to nothing", declaredName)
	}

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("storage: creating photo %s: %w", name, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("storage: writing photo %s: %w", name, err)
	}

	return name, nil
}

// SanitizeFilename reduces a browser-declared filename to something safe to
// store and serve from a flat directory:
//
//   - path components are stripped (both / and \ — Windows browsers send
//     full paths), so "../../etc/passwd" becomes "passwd"
//   - whitespace runs become single underscores ("a b.jpg" → "a_b.jpg")
//   - any rune outside [A-Za-z0-9._-] is dropped
//   - leading dots are trimmed so the result is never hidden or "." / ".."
//
// Returns "" when nothing safe remains; callers treat that as "no photo".
func SanitizeFilename(name string) string {
	// Strip directory components. filepath.Base handles the native
	// separator; the manual cut handles the other platform's.
	name = filepath.Base(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}

	var b strings.Builder
	lastUnderscore := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
			lastUnderscore = false
		case r == ' ' || r == '\t':
			// Collapse whitespace runs into a single underscore.
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		default:
			// Drop anything else (control chars, quotes, unicode, ...).
		}
	}

	out := strings.Trim(b.String(), "._")
	// Re-allow inner dots/underscores; the Trim above only removes the
	// leading/trailing ones that could hide the file or escape the dir.
	return out
}
