package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/race-advisor/internal/models"
)

// MemoryRaceRepository implements RaceRepository in process memory. Races are
// deep-copied on the way in and out.
type MemoryRaceRepository struct {
	mu    sync.RWMutex
	races map[string]models.RaceRecord
}

// NewMemoryRaceRepository creates an empty in-memory repository
func NewMemoryRaceRepository() *MemoryRaceRepository {
	return &MemoryRaceRepository{races: make(map[string]models.RaceRecord)}
}

// Save inserts or replaces a race
func (r *MemoryRaceRepository) Save(ctx context.Context, race *models.RaceRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stored, err := cloneRace(*race)
	if err != nil {
		return err
	}
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}

	r.mu.Lock()
	r.races[stored.ID] = stored
	r.mu.Unlock()
	return nil
}

// SaveBatch saves all races or none
func (r *MemoryRaceRepository) SaveBatch(ctx context.Context, races []models.RaceRecord) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	staged := make([]models.RaceRecord, 0, len(races))
	for i := range races {
		stored, err := cloneRace(races[i])
		if err != nil {
			return 0, err
		}
		if stored.ID == "" {
			stored.ID = uuid.NewString()
		}
		staged = append(staged, stored)
	}

	r.mu.Lock()
	for _, race := range staged {
		r.races[race.ID] = race
	}
	r.mu.Unlock()
	return len(staged), nil
}

// GetByID retrieves a race by ID
func (r *MemoryRaceRepository) GetByID(ctx context.Context, id string) (*models.RaceRecord, error) {
	r.mu.RLock()
	race, ok := r.races[id]
	r.mu.RUnlock()
	if !ok {
		return nil, models.ErrNotFound
	}

	out, err := cloneRace(race)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List retrieves races within a date range
func (r *MemoryRaceRepository) List(ctx context.Context, start, end time.Time) ([]models.RaceRecord, error) {
	return r.filter(ctx, func(race *models.RaceRecord) bool {
		if start.IsZero() && end.IsZero() {
			return true
		}
		if race.Date == nil {
			return false
		}
		if !start.IsZero() && race.Date.Before(start) {
			return false
		}
		return end.IsZero() || !race.Date.After(end)
	})
}

// ListByHorse retrieves races whose results include the horse
func (r *MemoryRaceRepository) ListByHorse(ctx context.Context, horseID string) ([]models.RaceRecord, error) {
	return r.filter(ctx, func(race *models.RaceRecord) bool {
		for _, result := range race.Results {
			if result.ID == horseID {
				return true
			}
		}
		return false
	})
}

// Count returns the number of stored races
func (r *MemoryRaceRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.races), nil
}

func (r *MemoryRaceRepository) filter(ctx context.Context, keep func(*models.RaceRecord) bool) ([]models.RaceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	races := make([]models.RaceRecord, 0, len(r.races))
	for _, race := range r.races {
		if keep(&race) {
			out, err := cloneRace(race)
			if err != nil {
				r.mu.RUnlock()
				return nil, err
			}
			races = append(races, out)
		}
	}
	r.mu.RUnlock()

	sortRaces(races)
	return races, nil
}

// sortRaces orders by date with undated races last, then by id, matching the
// PostgreSQL ordering
func sortRaces(races []models.RaceRecord) {
	sort.SliceStable(races, func(i, j int) bool {
		di, dj := races[i].Date, races[j].Date
		switch {
		case di == nil && dj == nil:
			return races[i].ID < races[j].ID
		case di == nil:
			return false
		case dj == nil:
			return true
		case !di.Equal(*dj):
			return di.Before(*dj)
		default:
			return races[i].ID < races[j].ID
		}
	})
}

func cloneRace(race models.RaceRecord) (models.RaceRecord, error) {
	data, err := json.Marshal(race)
	if err != nil {
		return models.RaceRecord{}, fmt.Errorf("%w: %v", models.ErrInvalidRaceRecord, err)
	}
	var out models.RaceRecord
	if err := json.Unmarshal(data, &out); err != nil {
		return models.RaceRecord{}, fmt.Errorf("%w: %v", models.ErrInvalidRaceRecord, err)
	}
	return out, nil
}
