package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/race-advisor/internal/database"
	"github.com/yourusername/race-advisor/internal/models"
)

const errScanRace = "failed to scan race: %w"

const upsertRaceQuery = `
	INSERT INTO races (id, race_date, venue, surface, payload)
	VALUES ($1, $2, $3, $4, $5::jsonb)
	ON CONFLICT (id) DO UPDATE SET
		race_date = EXCLUDED.race_date,
		venue = EXCLUDED.venue,
		surface = EXCLUDED.surface,
		payload = EXCLUDED.payload,
		updated_at = NOW()
`

// PostgresRaceRepository implements RaceRepository for PostgreSQL
type PostgresRaceRepository struct {
	db *database.DB
}

// NewPostgresRaceRepository creates a new race repository
func NewPostgresRaceRepository(db *database.DB) RaceRepository {
	return &PostgresRaceRepository{db: db}
}

// Save inserts or replaces a race
func (r *PostgresRaceRepository) Save(ctx context.Context, race *models.RaceRecord) error {
	args, err := raceArgs(*race)
	if err != nil {
		return err
	}

	if _, err := r.db.Pool().Exec(ctx, upsertRaceQuery, args...); err != nil {
		return fmt.Errorf("failed to save race: %w", err)
	}
	return nil
}

// SaveBatch saves all races in one transaction
func (r *PostgresRaceRepository) SaveBatch(ctx context.Context, races []models.RaceRecord) (int, error) {
	if len(races) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for i := range races {
		args, err := raceArgs(races[i])
		if err != nil {
			return 0, err
		}
		batch.Queue(upsertRaceQuery, args...)
	}

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		results := tx.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("failed to save race %s: %w", races[i].ID, err)
			}
		}
		return results.Close()
	})
	if err != nil {
		return 0, err
	}

	return len(races), nil
}

// GetByID retrieves a race by ID
func (r *PostgresRaceRepository) GetByID(ctx context.Context, id string) (*models.RaceRecord, error) {
	var payload []byte
	err := r.db.Pool().QueryRow(ctx, `SELECT payload FROM races WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get race: %w", err)
	}

	race, err := decodeRace(payload)
	if err != nil {
		return nil, err
	}
	return &race, nil
}

// List retrieves races within a date range
func (r *PostgresRaceRepository) List(ctx context.Context, start, end time.Time) ([]models.RaceRecord, error) {
	query := `
		SELECT payload FROM races
		WHERE ($1::timestamptz IS NULL OR race_date >= $1)
		  AND ($2::timestamptz IS NULL OR race_date <= $2)
		ORDER BY race_date ASC NULLS LAST, id ASC
	`

	return r.queryRaces(ctx, query, optionalTime(start), optionalTime(end))
}

// ListByHorse retrieves races whose results include the horse
func (r *PostgresRaceRepository) ListByHorse(ctx context.Context, horseID string) ([]models.RaceRecord, error) {
	filter, err := json.Marshal(map[string]interface{}{
		"results": []map[string]string{{"id": horseID}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build horse filter: %w", err)
	}

	query := `
		SELECT payload FROM races
		WHERE payload @> $1::jsonb
		ORDER BY race_date ASC NULLS LAST, id ASC
	`

	return r.queryRaces(ctx, query, string(filter))
}

// Count returns the number of stored races
func (r *PostgresRaceRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.Pool().QueryRow(ctx, `SELECT COUNT(*) FROM races`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count races: %w", err)
	}
	return count, nil
}

func (r *PostgresRaceRepository) queryRaces(ctx context.Context, query string, args ...interface{}) ([]models.RaceRecord, error) {
	rows, err := r.db.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query races: %w", err)
	}
	defer rows.Close()

	races := []models.RaceRecord{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf(errScanRace, err)
		}
		race, err := decodeRace(payload)
		if err != nil {
			return nil, err
		}
		races = append(races, race)
	}

	return races, rows.Err()
}

// raceArgs returns the upsert arguments, assigning an id to the stored copy if needed
func raceArgs(race models.RaceRecord) ([]interface{}, error) {
	if race.ID == "" {
		race.ID = uuid.NewString()
	}

	payload, err := json.Marshal(race)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidRaceRecord, err)
	}

	return []interface{}{race.ID, race.Date, race.Venue, race.Surface, string(payload)}, nil
}

func decodeRace(payload []byte) (models.RaceRecord, error) {
	var race models.RaceRecord
	if err := json.Unmarshal(payload, &race); err != nil {
		return race, fmt.Errorf(errScanRace, err)
	}
	return race, nil
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
