// Package testutil provides shared test helpers for session stores and image
// directories.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/ainotes/internal/session"
	"github.com/starford/ainotes/internal/storage"
)

// TestSessions opens a session store in a temporary directory. It is closed
// when the test ends.
func TestSessions(t *testing.T) *session.SQLite {
	t.Helper()
	store, err := session.Open(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// TestPicker creates a temporary directory holding the named files, each
// containing its own name, and a picker rooted there.
func TestPicker(t *testing.T, names ...string) (string, *storage.Picker) {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	picker, err := storage.NewPicker(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, picker
}
