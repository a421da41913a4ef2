package repository

import (
	"fmt"

	"github.com/yourusername/race-advisor/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Race RaceRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Race: NewPostgresRaceRepository(db),
	}, nil
}

// NewMemoryRepositories returns in-process repositories for runs without a database
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Race: NewMemoryRaceRepository(),
	}
}
