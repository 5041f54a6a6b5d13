package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// The in-memory store is per-connection; a second pooled connection
	// would see an empty schema.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the production migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- Plan catalog
		CREATE TABLE plan (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			duration_days INTEGER NOT NULL CHECK (duration_days > 0),
			rate_percent TEXT NOT NULL,
			compounding BOOLEAN NOT NULL DEFAULT FALSE,
			payout_mode VARCHAR(25) NOT NULL,
			min_deposit_cents INTEGER NOT NULL,
			max_deposit_cents INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);

		-- User balance store
		CREATE TABLE account (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL UNIQUE,
			email VARCHAR(255),
			balance_cents INTEGER NOT NULL DEFAULT 0
		);

		-- Investment ledger
		CREATE TABLE investment (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			plan_id VARCHAR(36) NOT NULL,
			status VARCHAR(10) NOT NULL,
			deposit_amount_cents INTEGER NOT NULL,
			daily_return_cents INTEGER NOT NULL,
			total_return_cents INTEGER NOT NULL,
			total_earned_cents INTEGER NOT NULL DEFAULT 0,
			return_amount_cents INTEGER NOT NULL DEFAULT 0,
			rate_percent TEXT NOT NULL,
			duration_days INTEGER NOT NULL,
			compounding BOOLEAN NOT NULL DEFAULT FALSE,
			payout_mode VARCHAR(25) NOT NULL,
			investment_start TEXT NOT NULL,
			investment_end TEXT NOT NULL,
			last_credited_at TEXT,
			last_status_change_at TEXT NOT NULL,
			payout_credited BOOLEAN NOT NULL DEFAULT FALSE,
			approved_by VARCHAR(36),
			approval_note TEXT,
			rejection_reason TEXT,
			created_at TEXT NOT NULL,
			FOREIGN KEY(plan_id) REFERENCES plan(id)
		);

		CREATE INDEX idx_investment_status_end ON investment (status, investment_end);
		CREATE INDEX idx_investment_status_credited ON investment (status, last_credited_at);
		CREATE INDEX idx_investment_user ON investment (user_id);

		-- Reconciliation alerts
		CREATE TABLE reconciliation_alert (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			investment_id VARCHAR(36) NOT NULL,
			user_id VARCHAR(36) NOT NULL,
			amount_cents INTEGER NOT NULL,
			stage VARCHAR(50) NOT NULL,
			message TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
	`

	_, err := db.Exec(schema)
	return err
}
