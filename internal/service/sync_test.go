package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/race-advisor/internal/datasource"
	"github.com/yourusername/race-advisor/internal/models"
	"github.com/yourusername/race-advisor/internal/repository"
)

type fakeGateway struct {
	outcome datasource.Outcome
}

func (f *fakeGateway) Fetch(ctx context.Context, startDate, endDate time.Time) datasource.Outcome {
	return f.outcome
}

func TestSyncStoresValidRaces(t *testing.T) {
	bad := wellFormedRace("bad")
	bad.Horses = append(bad.Horses, models.NewHorseEntry("h1", "Duplicate", 5, 120))

	gw := &fakeGateway{outcome: datasource.Outcome{
		Source: "file",
		Races:  []models.RaceRecord{wellFormedRace("r1"), bad, wellFormedRace("r2")},
	}}
	repo := repository.NewMemoryRaceRepository()
	svc := NewSyncService(gw, repo, nil)

	result, err := svc.Sync(context.Background(), time.Now().AddDate(0, 0, -7), time.Now())
	require.NoError(t, err)

	assert.True(t, result.Outcome.Available())
	assert.Equal(t, 3, result.Stats.TotalRaces)
	assert.Equal(t, 2, result.Stats.StoredRaces)
	assert.Equal(t, 1, result.Stats.ValidationErrors)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = repo.GetByID(context.Background(), "bad")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSyncReturnsReportWhenUnavailable(t *testing.T) {
	report := models.NewSourceReport(models.SourceStatusAccessDenied, "HKJC site returned status 403")
	gw := &fakeGateway{outcome: datasource.Outcome{Source: "hkjc", Report: report}}
	repo := repository.NewMemoryRaceRepository()

	result, err := NewSyncService(gw, repo, nil).Sync(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.False(t, result.Outcome.Available())
	assert.Same(t, report, result.Outcome.Report)
	assert.Zero(t, result.Stats.StoredRaces)
}

func TestSyncWithoutRepository(t *testing.T) {
	gw := &fakeGateway{outcome: datasource.Outcome{Source: "file", Races: []models.RaceRecord{wellFormedRace("r1")}}}

	result, err := NewSyncService(gw, nil, nil).Sync(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.TotalRaces)
	assert.Zero(t, result.Stats.StoredRaces)
}

func TestDataValidator(t *testing.T) {
	v := NewDataValidator()

	assert.Empty(t, v.ValidateRace(&models.RaceRecord{ID: "ok", Horses: []models.HorseEntry{{ID: "h1", Name: "No Price"}}}),
		"absent odds and weight are allowed")

	race := &models.RaceRecord{
		Horses: []models.HorseEntry{
			{ID: "", Name: "Anon"},
			{ID: "h1", Odds: floatPtr(0)},
			{ID: "h1", Weight: floatPtr(-1)},
		},
		Results: []models.ResultEntry{{ID: ""}, {ID: "h1", Position: position(-2)}},
	}
	problems := v.ValidateRace(race)
	assert.Len(t, problems, 6)
	assert.Contains(t, problems, "horse 0: id is required")
	assert.Contains(t, problems, "horse 2: duplicate id h1")
	assert.Contains(t, problems, "result 1: position cannot be negative, got -2")
}

func TestSyncMetricsString(t *testing.T) {
	m := NewSyncMetrics()
	m.RecordFetched(4)
	m.RecordStored(3)
	m.RecordValidationError()
	m.Finish()

	assert.Contains(t, m.String(), "Total=4, Stored=3 (75.0%)")

	m.Reset()
	assert.Zero(t, m.Snapshot().TotalRaces)
}
