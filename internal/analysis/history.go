package analysis

import (
	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/race-advisor/internal/models"
)

// AnalyzeHistory aggregates a horse's finishing positions across a corpus of
// past races. Races are matched strictly on result id and positions keep
// corpus order, so recent form is the tail of the supplied sequence.
func AnalyzeHistory(horseID string, races []models.RaceRecord) models.PerformanceResult {
	var positions []int
	matchedRaces := 0

	for _, race := range races {
		matched := false
		for i := range race.Results {
			result := &race.Results[i]
			if result.ID != horseID {
				continue
			}
			matched = true
			positions = append(positions, result.GetPosition())
		}
		if matched {
			matchedRaces++
		}
	}

	if matchedRaces == 0 {
		return models.NewNoHistory(horseID)
	}

	return &models.PerformanceProfile{
		HorseID:         horseID,
		TotalRaces:      matchedRaces,
		AveragePosition: averagePosition(positions),
		WinRate:         winRate(positions),
		RecentForm:      recentForm(positions),
	}
}

// AnalyzeField runs AnalyzeHistory for every horse in a race, keyed by horse id
func AnalyzeField(race models.RaceRecord, historical []models.RaceRecord) map[string]models.PerformanceResult {
	results := make(map[string]models.PerformanceResult, len(race.Horses))
	for _, horse := range race.Horses {
		if horse.ID == "" {
			continue
		}
		if _, seen := results[horse.ID]; seen {
			continue
		}
		results[horse.ID] = AnalyzeHistory(horse.ID, historical)
	}
	return results
}

func averagePosition(positions []int) float64 {
	if len(positions) == 0 {
		return 0
	}
	values := make([]float64, len(positions))
	for i, p := range positions {
		values[i] = float64(p)
	}
	return stat.Mean(values, nil)
}

func winRate(positions []int) float64 {
	if len(positions) == 0 {
		return 0
	}
	wins := 0
	for _, p := range positions {
		if p == 1 {
			wins++
		}
	}
	return float64(wins) / float64(len(positions))
}

func recentForm(positions []int) []int {
	start := 0
	if len(positions) > models.RecentFormLength {
		start = len(positions) - models.RecentFormLength
	}
	form := make([]int, len(positions)-start)
	copy(form, positions[start:])
	return form
}
