package service

import (
	"fmt"
	"sync"
	"time"
)

// SyncMetrics tracks statistics about corpus synchronisation
type SyncMetrics struct {
	mu               sync.RWMutex
	StartTime        time.Time
	Duration         time.Duration
	TotalRaces       int
	StoredRaces      int
	ValidationErrors int
	Errors           int
}

// NewSyncMetrics creates a new metrics tracker
func NewSyncMetrics() *SyncMetrics {
	return &SyncMetrics{
		StartTime: time.Now(),
	}
}

// Reset resets all metrics
func (m *SyncMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartTime = time.Now()
	m.Duration = 0
	m.TotalRaces = 0
	m.StoredRaces = 0
	m.ValidationErrors = 0
	m.Errors = 0
}

// RecordFetched sets the number of races returned by the gateway
func (m *SyncMetrics) RecordFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TotalRaces = n
}

// RecordStored adds to the stored race count
func (m *SyncMetrics) RecordStored(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StoredRaces += n
}

// RecordError increments error count
func (m *SyncMetrics) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors++
}

// RecordValidationError increments validation error count
func (m *SyncMetrics) RecordValidationError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidationErrors++
}

// Finish records the elapsed time since the last reset
func (m *SyncMetrics) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Duration = time.Since(m.StartTime)
}

// Snapshot returns a copy of the current counters
func (m *SyncMetrics) Snapshot() SyncStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return SyncStats{
		Duration:         m.Duration,
		TotalRaces:       m.TotalRaces,
		StoredRaces:      m.StoredRaces,
		ValidationErrors: m.ValidationErrors,
		Errors:           m.Errors,
	}
}

// SyncStats is a point-in-time copy of SyncMetrics
type SyncStats struct {
	Duration         time.Duration `json:"duration"`
	TotalRaces       int           `json:"total_races"`
	StoredRaces      int           `json:"stored_races"`
	ValidationErrors int           `json:"validation_errors"`
	Errors           int           `json:"errors"`
}

// String returns a formatted string representation of metrics
func (m *SyncMetrics) String() string {
	s := m.Snapshot()

	storedRate := float64(0)
	if s.TotalRaces > 0 {
		storedRate = float64(s.StoredRaces) / float64(s.TotalRaces) * 100
	}

	return fmt.Sprintf(
		"SyncMetrics{Total=%d, Stored=%d (%.1f%%), ValidationErrors=%d, Errors=%d, Duration=%v}",
		s.TotalRaces,
		s.StoredRaces,
		storedRate,
		s.ValidationErrors,
		s.Errors,
		s.Duration,
	)
}
