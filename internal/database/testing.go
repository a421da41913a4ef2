package database

import (
	"context"
	"os"
	"testing"
	"time"
)

// TestDSNEnv names the environment variable holding the integration test DSN
const TestDSNEnv = "RACE_ADVISOR_TEST_DSN"

// SetupTestDB connects to the integration database, skipping the test when
// TestDSNEnv is unset
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv(TestDSNEnv)
	if dsn == "" {
		t.Skipf("Integration test - set %s to run", TestDSNEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := Connect(ctx, dsn, 4)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	return db
}

// TeardownTestDB truncates the race table and closes the pool
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.pool.Exec(ctx, "TRUNCATE races"); err != nil {
		t.Logf("warning: failed to truncate races: %v", err)
	}
	db.Close()
}
