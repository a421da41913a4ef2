package database

import (
	"context"
	"fmt"

	"github.com/yourusername/race-advisor/internal/config"
)

// Schema holds the race corpus table. Entrants and results are stored as a
// jsonb payload; the GIN index serves horse lookups by containment.
const Schema = `
CREATE TABLE IF NOT EXISTS races (
	id          TEXT PRIMARY KEY,
	race_date   TIMESTAMPTZ,
	venue       TEXT NOT NULL DEFAULT '',
	surface     TEXT NOT NULL DEFAULT '',
	payload     JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_races_race_date ON races (race_date);
CREATE INDEX IF NOT EXISTS idx_races_payload ON races USING GIN (payload jsonb_path_ops);
`

// Initialize creates a database connection pool and applies the schema
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates the race tables if they do not exist
func EnsureSchema(ctx context.Context, db *DB) error {
	if _, err := db.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
