package models

import (
	"time"
)

// DefaultSurface is reported when a race record carries no surface
const DefaultSurface = "Unknown"

// RaceRecord represents one race's entrants and, optionally, its results
type RaceRecord struct {
	ID      string        `json:"id,omitempty"`
	Date    *time.Time    `json:"date,omitempty"`
	Venue   string        `json:"venue,omitempty"`
	Surface string        `json:"surface,omitempty"`
	Horses  []HorseEntry  `json:"horses"`
	Results []ResultEntry `json:"results,omitempty"`
}

// SurfaceOrDefault returns the race surface or DefaultSurface if it is unset
func (r *RaceRecord) SurfaceOrDefault() string {
	if r.Surface == "" {
		return DefaultSurface
	}
	return r.Surface
}

// HasResults checks if the race carries post-race outcomes
func (r *RaceRecord) HasResults() bool {
	return len(r.Results) > 0
}

// HorseEntry represents a pre-race entrant. Odds and Weight are pointers so an
// absent field can be told apart from a zero value.
type HorseEntry struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Odds   *float64 `json:"odds,omitempty"`
	Weight *float64 `json:"weight,omitempty"`
}

// NewHorseEntry builds a fully populated entry
func NewHorseEntry(id, name string, odds, weight float64) HorseEntry {
	return HorseEntry{
		ID:     id,
		Name:   name,
		Odds:   &odds,
		Weight: &weight,
	}
}

// GetOdds returns the odds or 0 if nil
func (h *HorseEntry) GetOdds() float64 {
	if h.Odds == nil {
		return 0
	}
	return *h.Odds
}

// GetWeight returns the weight or 0 if nil
func (h *HorseEntry) GetWeight() float64 {
	if h.Weight == nil {
		return 0
	}
	return *h.Weight
}
