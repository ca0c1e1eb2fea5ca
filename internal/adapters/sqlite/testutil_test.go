// Package sqlite_test contains integration tests for SQLite repositories.
//
// Every test database is created through db.OpenMemory, which runs the
// embedded goose migrations. Tests never declare their own tables, so the
// repositories are always exercised against the schema production uses.
package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/example/flux/internal/db"
)

// setupTestDB creates an in-memory database with the migrated schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := db.OpenMemory(context.Background())
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedCycle inserts a test cycle and returns its ID.
func seedCycle(t *testing.T, database *sql.DB, id, start, end string) string {
	t.Helper()
	var endDate any
	if end != "" {
		endDate = end
	}
	_, err := database.Exec("INSERT INTO cycles (id, start_date, end_date) VALUES (?, ?, ?)", id, start, endDate)
	if err != nil {
		t.Fatalf("failed to seed cycle: %v", err)
	}
	return id
}
