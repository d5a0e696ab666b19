package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/dpup/migration.ersn.net/server/internal/dataset"
	"github.com/dpup/migration.ersn.net/server/internal/lib/geo"
	"github.com/dpup/migration.ersn.net/server/internal/lib/migration"
	"github.com/dpup/migration.ersn.net/server/internal/lib/segment"
)

// Two 40 km/h steps three days apart and a 400 km jump at the end
const storksCSV = `individual_id,timestamp,location_lat,location_long
stork-1,2020-04-01 00:00:00.000,50,10
stork-1,2020-04-01 01:00:00.000,50.36,10
stork-1,2020-04-04 00:00:00.000,50.36,10
stork-1,2020-04-04 01:00:00.000,50.72,10
stork-1,2020-04-06 00:00:00.000,50.72,10
stork-1,2020-04-06 01:00:00.000,54.32,10
`

func testCatalog(t *testing.T) *dataset.Catalog {
	t.Helper()
	catalog, err := dataset.NewCatalog([]dataset.Species{
		{ID: "storks", Name: "White stork", ScientificName: "Ciconia ciconia", MovebankID: 10449318},
		{ID: "owls", Name: "Snowy owl", ScientificName: "Bubo scandiacus"},
	})
	require.NoError(t, err)
	return catalog
}

func newTestService(t *testing.T) *MigrationService {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "storks"+dataset.CleanedSuffix), []byte(storksCSV), 0o600))

	return NewMigrationService(
		dataset.NewCSVStore(dir),
		testCatalog(t),
		migration.NewEngine(segment.DefaultPolicy()),
	)
}

func TestMigrationService_ListSpecies(t *testing.T) {
	svc := newTestService(t)

	species := svc.ListSpecies(context.Background())
	require.Len(t, species, 2)
	assert.Equal(t, "owls", species[0].ID)
	assert.Equal(t, "storks", species[1].ID)
}

func TestMigrationService_GetStats(t *testing.T) {
	svc := newTestService(t)

	stats, err := svc.GetStats(context.Background(), "storks", language.English)
	require.NoError(t, err)

	assert.Equal(t, "Ciconia ciconia", stats.Species.ScientificName)
	assert.Equal(t, migration.MigrationStats{
		AvgActiveDistanceKm:   80,
		AvgActiveDurationDays: 5,
		AvgSpeedKmh:           40,
		MaxAmplitudeKm:        480,
	}, stats.Stats)
	assert.InDelta(t, 80.06, stats.TotalDistanceKm, 0.01)
	assert.Equal(t, 1, stats.Individuals)
	assert.Equal(t, 6, stats.Fixes)
	require.NotNil(t, stats.FirstFix)
	require.NotNil(t, stats.LastFix)
	assert.Equal(t, time.Date(2020, 4, 1, 0, 0, 0, 0, time.UTC), *stats.FirstFix)
	assert.Equal(t, time.Date(2020, 4, 6, 1, 0, 0, 0, time.UTC), *stats.LastFix)

	require.Len(t, stats.Seasons, 4)
	assert.Equal(t, SeasonSummary{Season: geo.Spring, Label: "Spring", Fixes: 6}, stats.Seasons[0])
	assert.Equal(t, 0, stats.Seasons[3].Fixes)
}

func TestMigrationService_GetStats_LocalizedSeasons(t *testing.T) {
	svc := newTestService(t)

	stats, err := svc.GetStats(context.Background(), "storks", language.French)
	require.NoError(t, err)
	assert.Equal(t, "Printemps", stats.Seasons[0].Label)
	assert.Equal(t, "Hiver", stats.Seasons[3].Label)
}

func TestMigrationService_NotFound(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// owls is in the catalog without a dataset, bats is unknown
	for _, id := range []string{"owls", "bats"} {
		_, err := svc.GetStats(ctx, id, language.English)
		assert.ErrorIs(t, err, dataset.ErrNotFound, id)

		_, err = svc.GetMonthlySummary(ctx, id)
		assert.ErrorIs(t, err, dataset.ErrNotFound, id)

		_, err = svc.GetMonthlySpeeds(ctx, id)
		assert.ErrorIs(t, err, dataset.ErrNotFound, id)

		_, err = svc.GetTrackLines(ctx, id)
		assert.ErrorIs(t, err, dataset.ErrNotFound, id)
	}
}

func TestMigrationService_GetMonthlySummary(t *testing.T) {
	svc := newTestService(t)

	summary, err := svc.GetMonthlySummary(context.Background(), "storks")
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, migration.Period{Year: 2020, Month: time.April}, summary[0].Period)
	assert.InDelta(t, 80.06, summary[0].MeanKm, 0.01)
	assert.Equal(t, 1, summary[0].Individuals)
}

func TestMigrationService_GetMonthlySpeeds(t *testing.T) {
	svc := newTestService(t)

	speeds, err := svc.GetMonthlySpeeds(context.Background(), "storks")
	require.NoError(t, err)
	require.Len(t, speeds, 1)
	assert.Equal(t, time.April, speeds[0].Month)
	assert.InDelta(t, 80.06, speeds[0].TotalDistanceKm, 0.01)
}

func TestMigrationService_GetTrackLines(t *testing.T) {
	svc := newTestService(t)

	lines, err := svc.GetTrackLines(context.Background(), "storks")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Len(t, lines[0].Points, 5)
	assert.Len(t, lines[1].Points, 1)
	assert.NotEmpty(t, lines[0].Polyline)
}
