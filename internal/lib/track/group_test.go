package track

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByIndividual(t *testing.T) {
	base := time.Date(2021, 4, 1, 0, 0, 0, 0, time.UTC)
	fixes := []Fix{
		{IndividualID: "B", Timestamp: base.Add(2 * time.Hour), Latitude: 1},
		{IndividualID: "A", Timestamp: base.Add(time.Hour), Latitude: 2},
		{IndividualID: "B", Timestamp: base, Latitude: 3},
		{IndividualID: "A", Timestamp: base, Latitude: 4},
		{IndividualID: "B", Timestamp: base, Latitude: 5},
	}
	original := append([]Fix(nil), fixes...)

	trajectories := GroupByIndividual(fixes)

	require.Len(t, trajectories, 2)
	assert.Equal(t, "A", trajectories[0].IndividualID)
	assert.Equal(t, "B", trajectories[1].IndividualID)

	a := trajectories[0].Fixes
	require.Len(t, a, 2)
	assert.Equal(t, 4.0, a[0].Latitude)
	assert.Equal(t, 2.0, a[1].Latitude)

	// Equal timestamps keep their input order
	b := trajectories[1].Fixes
	require.Len(t, b, 3)
	assert.Equal(t, []float64{3, 5, 1}, []float64{b[0].Latitude, b[1].Latitude, b[2].Latitude})

	assert.Equal(t, original, fixes, "input should not be reordered")
	assert.Equal(t, []string{"A", "B"}, Individuals(fixes))
}

func TestGroupByIndividual_Empty(t *testing.T) {
	assert.Empty(t, GroupByIndividual(nil))
	assert.Empty(t, Individuals(nil))
}
