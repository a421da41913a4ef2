package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/race-advisor/internal/database"
	"github.com/yourusername/race-advisor/internal/models"
)

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func position(p int) *int { return &p }

func sampleRaces() []models.RaceRecord {
	return []models.RaceRecord{
		{
			ID:      "r2",
			Date:    datePtr(2024, 3, 9),
			Venue:   "Happy Valley",
			Surface: "Turf",
			Horses:  []models.HorseEntry{models.NewHorseEntry("h1", "Golden Sixty", 2.5, 128)},
			Results: []models.ResultEntry{{ID: "h1", Position: position(3)}},
		},
		{
			ID:      "r1",
			Date:    datePtr(2024, 3, 2),
			Venue:   "Sha Tin",
			Surface: "Turf",
			Horses: []models.HorseEntry{
				models.NewHorseEntry("h1", "Golden Sixty", 3.5, 126),
				models.NewHorseEntry("h2", "Romantic Warrior", 4.5, 124),
			},
			Results: []models.ResultEntry{{ID: "h1", Position: position(1)}, {ID: "h2", Position: position(2)}},
		},
		{
			ID:     "r3",
			Horses: []models.HorseEntry{models.NewHorseEntry("h3", "California Spangle", 6, 120)},
		},
	}
}

func raceIDs(races []models.RaceRecord) []string {
	ids := make([]string, len(races))
	for i, r := range races {
		ids[i] = r.ID
	}
	return ids
}

// runRaceRepositoryContract exercises behaviour every RaceRepository must share
func runRaceRepositoryContract(t *testing.T, repo RaceRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	n, err := repo.SaveBatch(ctx, sampleRaces())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	t.Run("get by id", func(t *testing.T) {
		race, err := repo.GetByID(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, "Sha Tin", race.Venue)
		require.Len(t, race.Horses, 2)
		assert.Equal(t, 4.5, race.Horses[1].GetOdds())
		require.NotNil(t, race.Date)
		assert.True(t, race.Date.Equal(*datePtr(2024, 3, 2)))

		_, err = repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("list all is ordered with undated last", func(t *testing.T) {
		races, err := repo.List(ctx, time.Time{}, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, []string{"r1", "r2", "r3"}, raceIDs(races))
	})

	t.Run("list by date range", func(t *testing.T) {
		races, err := repo.List(ctx, *datePtr(2024, 3, 5), time.Time{})
		require.NoError(t, err)
		assert.Equal(t, []string{"r2"}, raceIDs(races))
	})

	t.Run("list by horse", func(t *testing.T) {
		races, err := repo.ListByHorse(ctx, "h1")
		require.NoError(t, err)
		assert.Equal(t, []string{"r1", "r2"}, raceIDs(races))

		races, err = repo.ListByHorse(ctx, "h3")
		require.NoError(t, err)
		assert.NotNil(t, races)
		assert.Empty(t, races, "entrants without results are not history")
	})

	t.Run("save replaces and assigns ids", func(t *testing.T) {
		updated := sampleRaces()[0]
		updated.Venue = "Sha Tin"
		require.NoError(t, repo.Save(ctx, &updated))

		race, err := repo.GetByID(ctx, "r2")
		require.NoError(t, err)
		assert.Equal(t, "Sha Tin", race.Venue)

		fresh := models.RaceRecord{Horses: []models.HorseEntry{models.NewHorseEntry("h9", "New", 9, 115)}}
		require.NoError(t, repo.Save(ctx, &fresh))
		assert.Empty(t, fresh.ID, "generated id stays on the stored copy")

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, count)

		batch := []models.RaceRecord{{Horses: []models.HorseEntry{models.NewHorseEntry("h8", "Batch", 4, 118)}}}
		stored, err := repo.SaveBatch(ctx, batch)
		require.NoError(t, err)
		assert.Equal(t, 1, stored)
		assert.Empty(t, batch[0].ID, "caller's slice is not modified")

		count, err = repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, count)
	})
}

func TestMemoryRaceRepository(t *testing.T) {
	runRaceRepositoryContract(t, NewMemoryRaceRepository())
}

func TestMemoryRaceRepositoryIsolatesCallers(t *testing.T) {
	repo := NewMemoryRaceRepository()
	ctx := context.Background()

	race := sampleRaces()[1]
	require.NoError(t, repo.Save(ctx, &race))

	race.Horses[0].Name = "mutated"
	stored, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "Golden Sixty", stored.Horses[0].Name)

	stored.Horses[0].Name = "mutated again"
	again, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "Golden Sixty", again.Horses[0].Name)
}

func TestMemoryRaceRepositoryCancelledContext(t *testing.T) {
	repo := NewMemoryRaceRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.SaveBatch(ctx, sampleRaces())
	assert.ErrorIs(t, err, context.Canceled)
	_, err = repo.List(ctx, time.Time{}, time.Time{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPostgresRaceRepository(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	require.NoError(t, err)
	runRaceRepositoryContract(t, repos.Race)
}

func TestNewRepositoriesRequiresDB(t *testing.T) {
	_, err := NewRepositories(nil)
	assert.Error(t, err)

	repos := NewMemoryRepositories()
	assert.IsType(t, &MemoryRaceRepository{}, repos.Race)
}
