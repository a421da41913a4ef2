package repository

import (
	"context"
	"time"

	"github.com/yourusername/race-advisor/internal/models"
)

// RaceRepository defines the interface for race corpus access
type RaceRepository interface {
	// Save inserts or replaces a race, assigning an id when it has none
	Save(ctx context.Context, race *models.RaceRecord) error
	// SaveBatch saves races atomically and returns how many were written
	SaveBatch(ctx context.Context, races []models.RaceRecord) (int, error)
	GetByID(ctx context.Context, id string) (*models.RaceRecord, error)
	// List returns races dated within the range, oldest first. Zero bounds are open.
	List(ctx context.Context, start, end time.Time) ([]models.RaceRecord, error)
	// ListByHorse returns races whose results include the horse, oldest first
	ListByHorse(ctx context.Context, horseID string) ([]models.RaceRecord, error)
	Count(ctx context.Context) (int, error)
}
