package models

// NoHistoricalData is the performance text reported for a horse with no past results
const NoHistoricalData = "No historical data"

// RecentFormLength is the number of most recent positions kept as recent form
const RecentFormLength = 5

// PerformanceResult is the outcome of a history lookup for one horse. It is
// either a PerformanceProfile or NoHistory; callers switch on the concrete type.
type PerformanceResult interface {
	GetHorseID() string
	HasHistory() bool
	performanceResult()
}

// PerformanceProfile represents a horse's aggregated historical results
type PerformanceProfile struct {
	HorseID         string  `json:"horse_id"`
	TotalRaces      int     `json:"total_races"`
	AveragePosition float64 `json:"average_position"`
	WinRate         float64 `json:"win_rate"`
	RecentForm      []int   `json:"recent_form"`
}

// GetHorseID returns the profiled horse id
func (p *PerformanceProfile) GetHorseID() string { return p.HorseID }

// HasHistory always reports true for a profile
func (p *PerformanceProfile) HasHistory() bool { return true }

func (p *PerformanceProfile) performanceResult() {}

// NoHistory is returned when a horse appears in none of the supplied results
type NoHistory struct {
	HorseID     string `json:"horse_id"`
	Performance string `json:"performance"`
}

// NewNoHistory creates the degenerate result for a horse id
func NewNoHistory(horseID string) *NoHistory {
	return &NoHistory{HorseID: horseID, Performance: NoHistoricalData}
}

// GetHorseID returns the horse id that had no history
func (n *NoHistory) GetHorseID() string { return n.HorseID }

// HasHistory always reports false
func (n *NoHistory) HasHistory() bool { return false }

func (n *NoHistory) performanceResult() {}

// ProfileOf returns the profile inside a result, or nil for NoHistory
func ProfileOf(result PerformanceResult) *PerformanceProfile {
	if p, ok := result.(*PerformanceProfile); ok {
		return p
	}
	return nil
}
