package database

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/race-advisor/internal/config"
)

func TestConnectRejectsInvalidDSN(t *testing.T) {
	_, err := Connect(context.Background(), "postgres://%zz", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse database config")
}

func TestNewDBUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewDB(ctx, &config.DatabaseConfig{
		Host:           "127.0.0.1",
		Port:           1,
		Name:           "races",
		User:           "advisor",
		SSLMode:        "disable",
		MaxConnections: 2,
	})
	assert.Error(t, err)
}

func TestDBIntegration(t *testing.T) {
	db := SetupTestDB(t)
	defer TeardownTestDB(t, db)

	ctx := context.Background()
	require.NoError(t, db.Ping(ctx))
	require.NoError(t, db.HealthCheck(ctx))
	require.NoError(t, EnsureSchema(ctx, db), "schema is idempotent")

	err := db.WithTransaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, "INSERT INTO races (id, payload) VALUES ('tx-rollback', '{}')")
		require.NoError(t, err)
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	var count int
	require.NoError(t, db.Pool().QueryRow(ctx, "SELECT COUNT(*) FROM races WHERE id = 'tx-rollback'").Scan(&count))
	assert.Zero(t, count)
}
