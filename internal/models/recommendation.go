package models

// BetType represents the kind of bet an advisory recommends
type BetType string

const (
	BetTypeWin   BetType = "Win"
	BetTypePlace BetType = "Place"
	BetTypeNoBet BetType = "No Bet"
)

// Recommendation represents the advisory output for one horse in one race
type Recommendation struct {
	HorseID        string  `json:"horse_id"`
	HorseName      string  `json:"horse_name"`
	Confidence     float64 `json:"confidence"`
	RecommendedBet BetType `json:"recommended_bet"`
	Reasoning      string  `json:"reasoning"`
	ExpectedOdds   float64 `json:"expected_odds"`
}

// IsBet checks if the recommendation suggests placing a bet
func (r *Recommendation) IsBet() bool {
	return r.RecommendedBet != BetTypeNoBet
}

// MeetsThreshold checks if the confidence meets the given threshold
func (r *Recommendation) MeetsThreshold(threshold float64) bool {
	return r.Confidence >= threshold
}
