// Package testutil provides shared test infrastructure for integration tests.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"

	"github.com/akylbek/payment-system/fraud-detector/migrations"
)

// PGTest opens a test database connection, applies the embedded migrations
// and returns the *sql.DB plus a cleanup function.
//
//	db, cleanup := testutil.PGTest(t)
//	defer cleanup()
//
// If POSTGRES_URL is not set, the test is skipped.
func PGTest(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	dbURL := os.Getenv("POSTGRES_URL")
	if dbURL == "" {
		t.Skip("POSTGRES_URL not set, skipping integration test")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		t.Fatalf("pgtest: open database: %v", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		t.Fatalf("pgtest: connect to database: %v", err)
	}

	ctx := context.Background()
	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		t.Fatalf("pgtest: run migrations: %v", err)
	}

	cleanup := func() {
		// detections references accounts, so CASCADE clears both.
		_, _ = db.ExecContext(ctx, "TRUNCATE accounts RESTART IDENTITY CASCADE")
		_ = db.Close()
	}
	// Start from a clean slate in case a previous run aborted.
	_, _ = db.ExecContext(ctx, "TRUNCATE accounts RESTART IDENTITY CASCADE")

	return db, cleanup
}
