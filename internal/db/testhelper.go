package db

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// OpenTestStore opens a migrated metadata store in t.TempDir() and
// registers cleanup. It returns the pool and the file path so tests can
// reopen the same file read-only.
func OpenTestStore(t *testing.T) (*sql.DB, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "metadata.sqlite")

	db, err := OpenStore(path, ModeWrite)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db, path
}
