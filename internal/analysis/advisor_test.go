package analysis

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/race-advisor/internal/models"
)

func fixedConfidence(c float64) ConfidenceProvider {
	return ConfidenceFunc(func(context.Context, models.HorseEntry, *models.PerformanceProfile) (float64, error) {
		return c, nil
	})
}

func testRace() models.RaceRecord {
	return models.RaceRecord{
		Surface: "Turf",
		Horses: []models.HorseEntry{
			models.NewHorseEntry("h1", "Alpha", 3.0, 120),
			models.NewHorseEntry("h2", "Beta", 5.0, 115),
			models.NewHorseEntry("h3", "Gamma", 8.0, 118),
		},
	}
}

func TestBetForThresholds(t *testing.T) {
	tests := []struct {
		confidence float64
		expected   models.BetType
	}{
		{0.95, models.BetTypeWin},
		{0.7000001, models.BetTypeWin},
		{0.7, models.BetTypePlace},
		{0.55, models.BetTypePlace},
		{0.4000001, models.BetTypePlace},
		{0.4, models.BetTypeNoBet},
		{0.1, models.BetTypeNoBet},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, BetFor(tt.confidence), "confidence %v", tt.confidence)
	}
}

func TestExpectedOdds(t *testing.T) {
	assert.InDelta(t, 4.0, ExpectedOdds(4.0, 1), 1e-9)
	assert.InDelta(t, 6.0, ExpectedOdds(4.0, 0), 1e-9)
	assert.InDelta(t, 5.0, ExpectedOdds(4.0, 0.5), 1e-9)
}

func TestExpectedOddsMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(99))

	for i := 0; i < 500; i++ {
		odds := 1.01 + rng.Float64()*100
		c1 := rng.Float64()
		c2 := rng.Float64()
		if c1 > c2 {
			c1, c2 = c2, c1
		}
		assert.GreaterOrEqual(t, ExpectedOdds(odds, c1), ExpectedOdds(odds, c2))
	}
}

func TestAdviseOnePerHorseInOrder(t *testing.T) {
	advisor := NewAdvisor(NewUniformConfidence(1))
	race := testRace()

	recommendations, err := advisor.Advise(context.Background(), race, nil)
	require.NoError(t, err)
	require.Len(t, recommendations, len(race.Horses))

	for i, rec := range recommendations {
		assert.Equal(t, race.Horses[i].ID, rec.HorseID)
		assert.Equal(t, race.Horses[i].Name, rec.HorseName)
		assert.Greater(t, rec.Confidence, MinPlaceholderConfidence)
		assert.Less(t, rec.Confidence, MaxPlaceholderConfidence)
		assert.Equal(t, BetFor(rec.Confidence), rec.RecommendedBet)
		assert.InDelta(t, ExpectedOdds(race.Horses[i].GetOdds(), rec.Confidence), rec.ExpectedOdds, 1e-9)
	}
}

func TestAdviseSeededIsDeterministic(t *testing.T) {
	first, err := NewAdvisor(NewUniformConfidence(2024)).Advise(context.Background(), testRace(), nil)
	require.NoError(t, err)
	second, err := NewAdvisor(NewUniformConfidence(2024)).Advise(context.Background(), testRace(), nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAdviseReasoning(t *testing.T) {
	recommendations, err := NewAdvisor(fixedConfidence(0.812)).Advise(context.Background(), testRace(), nil)
	require.NoError(t, err)

	assert.Equal(t, "Based on historical performance analysis (confidence: 0.81)", recommendations[0].Reasoning)
	assert.Equal(t, models.BetTypeWin, recommendations[0].RecommendedBet)
}

func TestAdviseMalformedEntry(t *testing.T) {
	tests := []struct {
		name  string
		horse models.HorseEntry
		field string
	}{
		{"missing id", models.HorseEntry{Name: "Delta", Odds: floatPtr(4)}, "id"},
		{"missing name", models.HorseEntry{ID: "h4", Odds: floatPtr(4)}, "name"},
		{"missing odds", models.HorseEntry{ID: "h4", Name: "Delta"}, "odds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			race := testRace()
			race.Horses = append(race.Horses, tt.horse)

			_, err := NewAdvisor(fixedConfidence(0.5)).Advise(context.Background(), race, nil)
			require.Error(t, err)

			var malformed *models.MalformedEntryError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, tt.field, malformed.Field)
			assert.Equal(t, 3, malformed.Index)
		})
	}
}

func TestAdviseMissingWeightIsAccepted(t *testing.T) {
	race := models.RaceRecord{Horses: []models.HorseEntry{{ID: "h1", Name: "Alpha", Odds: floatPtr(2)}}}

	recommendations, err := NewAdvisor(fixedConfidence(0.3)).Advise(context.Background(), race, nil)
	require.NoError(t, err)
	assert.Equal(t, models.BetTypeNoBet, recommendations[0].RecommendedBet)
}

func TestAdvisePassesHistoricalProfile(t *testing.T) {
	historical := []models.RaceRecord{
		{Results: []models.ResultEntry{models.NewResultEntry("h1", 1), models.NewResultEntry("h2", 2)}},
	}

	seen := map[string]*models.PerformanceProfile{}
	provider := ConfidenceFunc(func(_ context.Context, horse models.HorseEntry, profile *models.PerformanceProfile) (float64, error) {
		seen[horse.ID] = profile
		return 0.5, nil
	})

	_, err := NewAdvisor(provider).Advise(context.Background(), testRace(), historical)
	require.NoError(t, err)

	require.NotNil(t, seen["h1"])
	assert.InDelta(t, 1.0, seen["h1"].WinRate, 1e-9)
	require.NotNil(t, seen["h2"])
	assert.Nil(t, seen["h3"])
}

func TestAdviseWithoutHistoricalPassesNilProfile(t *testing.T) {
	provider := ConfidenceFunc(func(_ context.Context, _ models.HorseEntry, profile *models.PerformanceProfile) (float64, error) {
		assert.Nil(t, profile)
		return 0.5, nil
	})

	_, err := NewAdvisor(provider).Advise(context.Background(), testRace(), nil)
	require.NoError(t, err)
}

func TestAdviseRejectsOutOfRangeConfidence(t *testing.T) {
	for _, c := range []float64{0, 1, -0.2, 1.5} {
		_, err := NewAdvisor(fixedConfidence(c)).Advise(context.Background(), testRace(), nil)
		assert.ErrorIs(t, err, models.ErrInvalidConfidence, "confidence %v", c)
	}
}

func TestAdviseProviderError(t *testing.T) {
	boom := errors.New("model unavailable")
	provider := ConfidenceFunc(func(context.Context, models.HorseEntry, *models.PerformanceProfile) (float64, error) {
		return 0, boom
	})

	_, err := NewAdvisor(provider).Advise(context.Background(), testRace(), nil)
	assert.ErrorIs(t, err, boom)
}

func TestAdviseEmptyRace(t *testing.T) {
	recommendations, err := NewAdvisor(nil).Advise(context.Background(), models.RaceRecord{}, nil)
	require.NoError(t, err)
	assert.Empty(t, recommendations)
}

func TestUniformConfidenceConcurrentUse(t *testing.T) {
	advisor := NewAdvisor(NewUniformConfidence(5))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			recommendations, err := advisor.Advise(context.Background(), testRace(), nil)
			assert.NoError(t, err)
			assert.Len(t, recommendations, 3)
		}()
	}
	wg.Wait()
}

func TestDrawOpenRedrawsBounds(t *testing.T) {
	draws := []float64{0, math.Nextafter(1, 0), 0.5}
	next := func() float64 {
		v := draws[0]
		draws = draws[1:]
		return v
	}

	c := drawOpen(next, MinPlaceholderConfidence, MaxPlaceholderConfidence)
	assert.Greater(t, c, MinPlaceholderConfidence)
	assert.Less(t, c, MaxPlaceholderConfidence)
}

func TestUniformConfidenceZeroSourceStaysOpen(t *testing.T) {
	provider := NewUniformConfidenceFrom(rand.New(&zeroFirstSource{}))

	c, err := provider.Confidence(context.Background(), models.HorseEntry{}, nil)
	require.NoError(t, err)
	assert.Greater(t, c, MinPlaceholderConfidence)
}

// zeroFirstSource yields 0 once, then a mid-range value
type zeroFirstSource struct {
	calls int
}

func (s *zeroFirstSource) Int63() int64 {
	s.calls++
	if s.calls == 1 {
		return 0
	}
	return 1 << 61
}

func (s *zeroFirstSource) Seed(int64) {}
