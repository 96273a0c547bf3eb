package store

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// createTestDB writes a database with the given statements and returns its path.
func createTestDB(t *testing.T, stmts ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("sql.Open() failed: %v", err)
	}
	defer db.Close()

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q failed: %v", stmt, err)
		}
	}
	return path
}

// openTestStore opens path read-only and closes it with the test.
func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

const customersSchema = `CREATE TABLE customers (id INTEGER PRIMARY KEY, name TEXT, region TEXT, note BLOB)`
