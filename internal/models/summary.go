package models

import "encoding/json"

// RaceSummary holds aggregate statistics for one race. The averages are nil
// when the race has no horses.
type RaceSummary struct {
	TotalHorses   int      `json:"total_horses"`
	AverageOdds   *float64 `json:"average_odds,omitempty"`
	AverageWeight *float64 `json:"average_weight,omitempty"`
	Surface       string   `json:"surface"`
}

// SummaryResult pairs a race summary with the race it was derived from
type SummaryResult struct {
	Analysis      *RaceSummary `json:"analysis"`
	ProcessedData RaceRecord   `json:"processed_data"`
}

// IsEmpty checks if the summarized race had no horses
func (s *SummaryResult) IsEmpty() bool {
	return s.Analysis == nil
}

// MarshalJSON encodes an empty analysis as {} rather than null
func (s SummaryResult) MarshalJSON() ([]byte, error) {
	var analysis interface{} = struct{}{}
	if s.Analysis != nil {
		analysis = s.Analysis
	}
	return json.Marshal(struct {
		Analysis      interface{} `json:"analysis"`
		ProcessedData RaceRecord  `json:"processed_data"`
	}{
		Analysis:      analysis,
		ProcessedData: s.ProcessedData,
	})
}
