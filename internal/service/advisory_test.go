package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/race-advisor/internal/analysis"
	"github.com/yourusername/race-advisor/internal/models"
)

func position(p int) *int { return &p }

func fixedProvider(c float64) analysis.ConfidenceProvider {
	return analysis.ConfidenceFunc(func(ctx context.Context, horse models.HorseEntry, profile *models.PerformanceProfile) (float64, error) {
		return c, nil
	})
}

func wellFormedRace(id string) models.RaceRecord {
	return models.RaceRecord{
		ID:      id,
		Surface: "Turf",
		Horses: []models.HorseEntry{
			models.NewHorseEntry("h1", "Golden Sixty", 3.5, 126),
			models.NewHorseEntry("h2", "Romantic Warrior", 4.5, 124),
		},
	}
}

func missingOddsRace(id string) models.RaceRecord {
	return models.RaceRecord{
		ID:     id,
		Horses: []models.HorseEntry{{ID: "h9", Name: "No Price"}},
	}
}

func TestSummarizeBatchCollectsErrors(t *testing.T) {
	svc := NewAdvisoryService(fixedProvider(0.5), nil, 2)
	races := []models.RaceRecord{
		wellFormedRace("r1"),
		missingOddsRace("r2"),
		{ID: "r3"},
		wellFormedRace("r4"),
	}

	batch, err := svc.SummarizeBatch(context.Background(), races)
	require.NoError(t, err)

	require.Len(t, batch.Summaries, 3)
	assert.Equal(t, "r1", batch.Summaries[0].RaceID)
	assert.Equal(t, "r3", batch.Summaries[1].RaceID)
	assert.True(t, batch.Summaries[1].Summary.IsEmpty())
	assert.Equal(t, "r4", batch.Summaries[2].RaceID)
	assert.Equal(t, 2, batch.Summaries[0].Summary.Analysis.TotalHorses)

	require.Len(t, batch.Errors, 1)
	assert.Equal(t, "r2", batch.Errors[0].RaceID)
	assert.Equal(t, 1, batch.Errors[0].Index)
	assert.Equal(t, StageSummarize, batch.Errors[0].Stage)
	assert.True(t, errors.Is(batch.Errors[0], models.ErrMalformedEntry))
}

func TestSummarizeBatchCancelled(t *testing.T) {
	svc := NewAdvisoryService(fixedProvider(0.5), nil, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.SummarizeBatch(ctx, []models.RaceRecord{wellFormedRace("r1")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHistoryFor(t *testing.T) {
	svc := NewAdvisoryService(nil, nil, 0)
	corpus := []models.RaceRecord{
		{ID: "a", Results: []models.ResultEntry{{ID: "h1", Position: position(1)}}},
		{ID: "b", Results: []models.ResultEntry{{ID: "h1", Position: position(3)}}},
	}

	profile := models.ProfileOf(svc.HistoryFor("h1", corpus))
	require.NotNil(t, profile)
	assert.Equal(t, 2, profile.TotalRaces)
	assert.Equal(t, 2.0, profile.AveragePosition)

	result := svc.HistoryFor("h2", corpus)
	assert.False(t, result.HasHistory())
}

func TestAdviseRace(t *testing.T) {
	svc := NewAdvisoryService(fixedProvider(0.75), nil, 0)

	recs, err := svc.AdviseRace(context.Background(), wellFormedRace("r1"), nil)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, models.BetTypeWin, recs[0].RecommendedBet)
	assert.Equal(t, "h2", recs[1].HorseID)
}

func TestRunSkipsMalformedRaces(t *testing.T) {
	svc := NewAdvisoryService(fixedProvider(0.5), nil, 0)
	races := []models.RaceRecord{
		wellFormedRace("r1"),
		missingOddsRace("r2"),
		{ID: "r3", Horses: []models.HorseEntry{{Name: "No Id", Odds: floatPtr(2), Weight: floatPtr(120)}}},
		wellFormedRace("r4"),
	}

	report, err := svc.Run(context.Background(), races, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	require.Len(t, report.Races, 2)
	assert.Equal(t, "r1", report.Races[0].RaceID)
	assert.Equal(t, "r4", report.Races[1].RaceID)
	for _, advice := range report.Races {
		assert.Len(t, advice.Recommendations, 2)
		assert.False(t, advice.Summary.IsEmpty())
	}

	require.Len(t, report.Skipped, 2)
	assert.Equal(t, "r2", report.Skipped[0].RaceID)
	assert.Equal(t, StageSummarize, report.Skipped[0].Stage)
	assert.Equal(t, "r3", report.Skipped[1].RaceID)
	assert.Equal(t, StageAdvise, report.Skipped[1].Stage)
}

func TestRunSeededIsReproducible(t *testing.T) {
	races := []models.RaceRecord{wellFormedRace("r1"), wellFormedRace("r2")}

	first, err := NewAdvisoryService(analysis.NewUniformConfidence(7), nil, 0).Run(context.Background(), races, nil)
	require.NoError(t, err)
	second, err := NewAdvisoryService(analysis.NewUniformConfidence(7), nil, 0).Run(context.Background(), races, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Races, second.Races)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRunAbortsOnProviderFailure(t *testing.T) {
	boom := errors.New("model offline")
	provider := analysis.ConfidenceFunc(func(ctx context.Context, horse models.HorseEntry, profile *models.PerformanceProfile) (float64, error) {
		return 0, boom
	})
	svc := NewAdvisoryService(provider, nil, 0)

	_, err := svc.Run(context.Background(), []models.RaceRecord{wellFormedRace("r1")}, nil)
	assert.ErrorIs(t, err, boom)
}

func TestRunSkipsInvalidConfidence(t *testing.T) {
	svc := NewAdvisoryService(fixedProvider(1.5), nil, 0)

	report, err := svc.Run(context.Background(), []models.RaceRecord{wellFormedRace("r1")}, nil)
	require.NoError(t, err)
	assert.Empty(t, report.Races)
	require.Len(t, report.Skipped, 1)
	assert.ErrorIs(t, report.Skipped[0], models.ErrInvalidConfidence)
}

func TestRaceErrorJSON(t *testing.T) {
	raceErr := &RaceError{RaceID: "r2", Index: 1, Stage: StageSummarize, Err: errors.New("horse 0 (h9): missing odds")}

	data, err := json.Marshal(raceErr)
	require.NoError(t, err)
	assert.JSONEq(t, `{"race_id":"r2","index":1,"stage":"summarize","error":"horse 0 (h9): missing odds"}`, string(data))
}

func floatPtr(v float64) *float64 { return &v }
