package service

import (
	"fmt"

	"github.com/yourusername/race-advisor/internal/models"
)

// DataValidator checks the structure of race records before they are stored.
// Missing odds or weights are allowed; those surface as malformed entries only
// when a computation needs them.
type DataValidator struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() *DataValidator {
	return &DataValidator{}
}

// ValidateRace validates race data for required fields and constraints
func (v *DataValidator) ValidateRace(race *models.RaceRecord) []string {
	var errors []string

	seen := make(map[string]bool, len(race.Horses))
	for i, horse := range race.Horses {
		errors = append(errors, v.ValidateHorse(i, &horse)...)
		if horse.ID == "" {
			continue
		}
		if seen[horse.ID] {
			errors = append(errors, fmt.Sprintf("horse %d: duplicate id %s", i, horse.ID))
		}
		seen[horse.ID] = true
	}

	for i, result := range race.Results {
		if result.ID == "" {
			errors = append(errors, fmt.Sprintf("result %d: id is required", i))
		}
		if result.Position != nil && *result.Position < 0 {
			errors = append(errors, fmt.Sprintf("result %d: position cannot be negative, got %d", i, *result.Position))
		}
	}

	return errors
}

// ValidateHorse validates a single entrant
func (v *DataValidator) ValidateHorse(index int, horse *models.HorseEntry) []string {
	var errors []string

	if horse.ID == "" {
		errors = append(errors, fmt.Sprintf("horse %d: id is required", index))
	}
	if horse.Odds != nil && *horse.Odds <= 0 {
		errors = append(errors, fmt.Sprintf("horse %d: odds must be positive, got %v", index, *horse.Odds))
	}
	if horse.Weight != nil && *horse.Weight < 0 {
		errors = append(errors, fmt.Sprintf("horse %d: weight cannot be negative, got %v", index, *horse.Weight))
	}

	return errors
}
