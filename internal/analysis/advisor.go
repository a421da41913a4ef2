package analysis

import (
	"context"
	"fmt"

	"github.com/yourusername/race-advisor/internal/models"
)

// Recommendation thresholds and odds adjustment
const (
	WinThreshold       = 0.7
	PlaceThreshold     = 0.4
	OddsRiskAdjustment = 0.5
)

// Advisor turns a race into one bet recommendation per horse
type Advisor struct {
	provider ConfidenceProvider
}

// NewAdvisor creates an advisor. A nil provider falls back to the time-seeded
// placeholder.
func NewAdvisor(provider ConfidenceProvider) *Advisor {
	if provider == nil {
		provider = NewUniformConfidenceFrom(nil)
	}
	return &Advisor{provider: provider}
}

// Advise returns recommendations in race.Horses order. When historical is
// non-nil each horse's profile is computed from it and handed to the
// confidence provider.
func (a *Advisor) Advise(ctx context.Context, race models.RaceRecord, historical []models.RaceRecord) ([]models.Recommendation, error) {
	var profiles map[string]models.PerformanceResult
	if historical != nil {
		profiles = AnalyzeField(race, historical)
	}

	recommendations := make([]models.Recommendation, 0, len(race.Horses))
	for i, horse := range race.Horses {
		if err := validateAdvisoryEntry(i, &horse); err != nil {
			return nil, err
		}

		confidence, err := a.provider.Confidence(ctx, horse, models.ProfileOf(profiles[horse.ID]))
		if err != nil {
			return nil, fmt.Errorf("confidence for horse %s: %w", horse.ID, err)
		}
		if confidence <= 0 || confidence >= 1 {
			return nil, fmt.Errorf("horse %s: %w: %v", horse.ID, models.ErrInvalidConfidence, confidence)
		}

		recommendations = append(recommendations, Recommend(horse, confidence))
	}

	return recommendations, nil
}

// Recommend builds the recommendation for a horse at a given confidence
func Recommend(horse models.HorseEntry, confidence float64) models.Recommendation {
	return models.Recommendation{
		HorseID:        horse.ID,
		HorseName:      horse.Name,
		Confidence:     confidence,
		RecommendedBet: BetFor(confidence),
		Reasoning:      fmt.Sprintf("Based on historical performance analysis (confidence: %.2f)", confidence),
		ExpectedOdds:   ExpectedOdds(horse.GetOdds(), confidence),
	}
}

// BetFor maps a confidence onto a bet type
func BetFor(confidence float64) models.BetType {
	switch {
	case confidence > WinThreshold:
		return models.BetTypeWin
	case confidence > PlaceThreshold:
		return models.BetTypePlace
	default:
		return models.BetTypeNoBet
	}
}

// ExpectedOdds inflates quoted odds as confidence drops: full confidence
// leaves them unchanged and zero confidence scales them by 1.5.
func ExpectedOdds(odds, confidence float64) float64 {
	return odds * (1 + (1-confidence)*OddsRiskAdjustment)
}

func validateAdvisoryEntry(index int, horse *models.HorseEntry) error {
	if horse.ID == "" {
		return models.NewMalformedEntryError("horse", index, "", "id")
	}
	if horse.Name == "" {
		return models.NewMalformedEntryError("horse", index, horse.ID, "name")
	}
	if horse.Odds == nil {
		return models.NewMalformedEntryError("horse", index, horse.ID, "odds")
	}
	return nil
}
