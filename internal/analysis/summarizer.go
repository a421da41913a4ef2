// Package analysis implements the race advisory pipeline: race summaries,
// historical performance aggregation and per-horse bet recommendations.
// Every function here is pure; none of them log, block or keep state.
package analysis

import (
	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/race-advisor/internal/models"
)

// Summarize reduces a race's horse list to aggregate statistics.
// A race without horses yields an empty analysis and the race unchanged.
func Summarize(race models.RaceRecord) (models.SummaryResult, error) {
	if len(race.Horses) == 0 {
		return models.SummaryResult{ProcessedData: race}, nil
	}

	odds := make([]float64, len(race.Horses))
	weights := make([]float64, len(race.Horses))
	for i := range race.Horses {
		horse := &race.Horses[i]
		if horse.Odds == nil {
			return models.SummaryResult{}, models.NewMalformedEntryError("horse", i, horse.ID, "odds")
		}
		if horse.Weight == nil {
			return models.SummaryResult{}, models.NewMalformedEntryError("horse", i, horse.ID, "weight")
		}
		odds[i] = *horse.Odds
		weights[i] = *horse.Weight
	}

	averageOdds := stat.Mean(odds, nil)
	averageWeight := stat.Mean(weights, nil)

	return models.SummaryResult{
		Analysis: &models.RaceSummary{
			TotalHorses:   len(race.Horses),
			AverageOdds:   &averageOdds,
			AverageWeight: &averageWeight,
			Surface:       race.SurfaceOrDefault(),
		},
		ProcessedData: race,
	}, nil
}
