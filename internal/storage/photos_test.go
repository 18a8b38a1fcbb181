package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// =========================================================================
// SANITIZE TESTS
// =========================================================================

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain name unchanged", in: "photo.jpg", want: "photo.jpg"},
		{name: "spaces become underscores", in: "a b.jpg", want: "a_b.jpg"},
		{name: "whitespace run collapses", in: "a   b.jpg", want: "a_b.jpg"},
		{name: "unix path stripped", in: "../../etc/passwd", want: "passwd"},
		{name: "windows path stripped", in: `C:\Users\me\pic.png`, want: "pic.png"},
		{name: "unsafe runes dropped", in: "pic<>:\"|?*.png", want: "pic.png"},
		{name: "leading dot trimmed", in: ".hidden.jpg", want: "hidden.jpg"},
		{name: "dot-dot alone is empty", in: "..", want: ""},
		{name: "separators alone are empty", in: "///", want: ""},
		{name: "empty stays empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.in); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilename_NeverContainsSeparators(t *testing.T) {
	// Property check over a handful of hostile inputs: whatever comes out,
	// it must be safe to join into the flat upload directory.
	inputs := []string{
		"../../../a b/../c.jpg",
		`..\..\boot.ini`,
		"/absolute/path/file.png",
		"weird\x00name.jpg",
	}
	for _, in := range inputs {
		got := SanitizeFilename(in)
		if strings.ContainsAny(got, `/\ `) {
			t.Errorf("SanitizeFilename(%q) = %q contains a separator or space", in, got)
		}
		if got == "." || got == ".." {
			t.Errorf("SanitizeFilename(%q) = %q is a relative path element", in, got)
		}
	}
}

// =========================================================================
// SAVE TESTS
// =========================================================================

func TestSave_WritesSanitizedFile(t *testing.T) {
	// t.TempDir() creates a directory that is removed when the test ends.
	store, err := NewPhotoStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewPhotoStore() error = %v", err)
	}

	name, err := store.Save("a b.jpg", strings.NewReader("jpegbytes"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if name != "a_b.jpg" {
		t.Errorf("Save() returned name %q, want %q", name, "a_b.jpg")
	}

	// The returned name must be exactly what's on disk.
	data, err := os.ReadFile(filepath.Join(store.Dir(), name))
	if err != nil {
		t.Fatalf("reading saved photo: %v", err)
	}
	if string(data) != "jpegbytes" {
		t.Errorf("saved bytes = %q, want %q", data, "jpegbytes")
	}
}

func TestSave_OverwritesOnCollision(t *testing.T) {
	store, err := NewPhotoStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewPhotoStore() error = %v", err)
	}

	if _, err := store.Save("pic.jpg", strings.NewReader("first")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := store.Save("pic.jpg", strings.NewReader("second")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Silent overwrite — the second upload wins.
	data, err := os.ReadFile(filepath.Join(store.Dir(), "pic.jpg"))
	if err != nil {
		t.Fatalf("reading saved photo: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("saved bytes = %q, want %q (overwrite policy)", data, "second")
	}
}

func TestSave_RejectsUnsalvageableName(t *testing.T) {
	store, err := NewPhotoStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewPhotoStore() error = %v", err)
	}

	if _, err := store.Save("..", strings.NewReader("x")); err == nil {
		t.Error("Save() accepted a name that sanitizes to nothing")
	}
}

func TestNewPhotoStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "photos")

	if _, err := NewPhotoStore(dir); err != nil {
		t.Fatalf("NewPhotoStore() error = %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("upload dir was not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("upload path exists but is not a directory")
	}
}
