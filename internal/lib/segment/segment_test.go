package segment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/migration.ersn.net/server/internal/lib/geo"
	"github.com/dpup/migration.ersn.net/server/internal/lib/track"
)

var t0 = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

func fix(lat, lon float64, offset time.Duration) track.Fix {
	return track.Fix{IndividualID: "A1", Timestamp: t0.Add(offset), Latitude: lat, Longitude: lon}
}

func TestSteps_Length(t *testing.T) {
	for n := 0; n < 6; n++ {
		fixes := make([]track.Fix, n)
		for i := range fixes {
			fixes[i] = fix(50+float64(i)*0.1, 10, time.Duration(i)*time.Hour)
		}

		steps, err := Steps(fixes)
		require.NoError(t, err)

		expected := n - 1
		if n == 0 {
			expected = 0
		}
		assert.Len(t, steps, expected, "trajectory with %d fixes", n)
	}
}

func TestSteps_DistanceAndSpeed(t *testing.T) {
	steps, err := Steps([]track.Fix{
		fix(50.0, 10.0, 0),
		fix(50.1, 10.0, time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, steps, 1)

	step := steps[0]
	assert.InDelta(t, 11.12, step.DistanceKm, 0.05)
	assert.Equal(t, 1.0, step.ElapsedHours)
	assert.InDelta(t, 11.12, step.SpeedKmh, 0.05)
	assert.True(t, step.Timed())
	assert.False(t, step.Active(DefaultPolicy()), "11 km/h is below the active threshold")
	assert.False(t, step.Outlier(DefaultPolicy()))
}

func TestSteps_ZeroElapsed(t *testing.T) {
	steps, err := Steps([]track.Fix{
		fix(50.0, 10.0, 0),
		fix(50.0, 10.0, 0),
		fix(51.0, 10.0, 0),
	})
	require.NoError(t, err)
	require.Len(t, steps, 2)

	for _, step := range steps {
		assert.Equal(t, 0.0, step.SpeedKmh)
		assert.False(t, step.Timed())
		assert.False(t, step.Active(DefaultPolicy()))
	}
	assert.Equal(t, 0.0, steps[0].DistanceKm)
	assert.Greater(t, steps[1].DistanceKm, 100.0)
}

func TestSteps_NegativeElapsed(t *testing.T) {
	steps, err := Steps([]track.Fix{
		fix(50.0, 10.0, time.Hour),
		fix(51.0, 10.0, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, steps[0].SpeedKmh)
	assert.False(t, steps[0].Active(DefaultPolicy()))
}

func TestSteps_OutlierIsFlaggedNotClipped(t *testing.T) {
	// ~400 km north in one hour
	steps, err := Steps([]track.Fix{
		fix(50.0, 10.0, 0),
		fix(53.6, 10.0, time.Hour),
		fix(53.7, 10.0, 2*time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, steps, 2)

	policy := DefaultPolicy()
	assert.True(t, steps[0].Outlier(policy))
	assert.Greater(t, steps[0].DistanceKm, 300.0)
	assert.False(t, steps[1].Outlier(policy))
	assert.Equal(t, steps[0].To, steps[1].From)
}

func TestSteps_InvalidCoordinate(t *testing.T) {
	_, err := Steps([]track.Fix{
		fix(50.0, 10.0, 0),
		fix(150.0, 10.0, time.Hour),
	})
	assert.ErrorIs(t, err, geo.ErrInvalidCoordinate)
}

func TestPolicy_ThresholdsAreIndependent(t *testing.T) {
	step := Step{DistanceKm: 40, ElapsedHours: 1, SpeedKmh: 40}
	assert.True(t, step.Active(DefaultPolicy()))
	assert.False(t, step.Outlier(DefaultPolicy()))

	strict := Policy{MaxStepDistanceKm: 30, ActiveSpeedKmh: 50}
	assert.False(t, step.Active(strict))
	assert.True(t, step.Outlier(strict))

	boundary := Step{DistanceKm: 20, ElapsedHours: 1, SpeedKmh: 20}
	assert.True(t, boundary.Active(DefaultPolicy()), "the threshold is inclusive")
	assert.False(t, Step{DistanceKm: 300}.Outlier(DefaultPolicy()), "exactly 300 km is kept")
}

func TestSpeeds(t *testing.T) {
	speeds, err := Speeds([]track.Fix{
		fix(50.0, 10.0, 0),
		fix(50.1, 10.0, time.Hour),
		fix(50.1, 10.0, 2*time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, speeds, 3)
	assert.Equal(t, 0.0, speeds[0])
	assert.InDelta(t, 11.12, speeds[1], 0.05)
	assert.Equal(t, 0.0, speeds[2])

	speeds, err = Speeds(nil)
	require.NoError(t, err)
	assert.Empty(t, speeds)
}
