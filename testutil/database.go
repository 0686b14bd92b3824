// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"trading-reports/database"
)

// SetupTestDB opens a file-backed SQLite database in the test's temp dir
// with the schema created. The pool is closed when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *database.Database {
	t.Helper()

	db, err := database.Connect(database.Config{
		URL:     "sqlite:///" + filepath.Join(t.TempDir(), "reports_test.db"),
		Testing: true,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(db.Close)

	if err := db.InitDB(context.Background()); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	return db
}
