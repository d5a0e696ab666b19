package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance_KnownFixtures(t *testing.T) {
	// One degree of longitude along the equator
	distance, err := Distance(0, 0, 0, 1)
	require.NoError(t, err)
	assert.InEpsilon(t, 111.19, distance, 0.005, "1° longitude at the equator should be ~111.19km")

	// Angels Camp to Murphys, ~11.0 km
	distance, err = Distance(38.0675, -120.5436, 38.1391, -120.4561)
	require.NoError(t, err)
	assert.InDelta(t, 11.046, distance, 0.1)

	// 0.1° of latitude
	distance, err = Distance(50.0, 10.0, 50.1, 10.0)
	require.NoError(t, err)
	assert.InDelta(t, 11.12, distance, 0.05)
}

func TestDistance_Properties(t *testing.T) {
	points := []Point{
		{Latitude: 0, Longitude: 0},
		{Latitude: 52.52, Longitude: 13.405},
		{Latitude: -33.8688, Longitude: 151.2093},
		{Latitude: 90, Longitude: 0},
		{Latitude: -90, Longitude: 180},
		{Latitude: 14.7167, Longitude: -17.4677},
	}

	maxDistance := math.Pi * EarthRadiusKm
	for _, a := range points {
		d, err := PointToPoint(a, a)
		require.NoError(t, err)
		assert.Equal(t, 0.0, d, "distance from a point to itself should be 0")

		for _, b := range points {
			ab, err := PointToPoint(a, b)
			require.NoError(t, err)
			ba, err := PointToPoint(b, a)
			require.NoError(t, err)

			assert.InDelta(t, ab, ba, 1e-9, "distance should be symmetric")
			assert.LessOrEqual(t, ab, maxDistance+1e-6, "distance should not exceed half the circumference")
			assert.False(t, math.IsNaN(ab))
		}
	}
}

func TestDistance_Antipodal(t *testing.T) {
	distance, err := Distance(0, 0, 0, 180)
	require.NoError(t, err)
	assert.InDelta(t, 20015.09, distance, 0.1)
}

func TestDistance_InvalidCoordinates(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
	}{
		{"latitude too high", 91, 0, 0, 0},
		{"latitude too low", 0, 0, -90.5, 0},
		{"longitude too high", 0, 181, 0, 0},
		{"longitude too low", 0, 0, 0, -200},
		{"nan latitude", math.NaN(), 0, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Distance(tc.lat1, tc.lon1, tc.lat2, tc.lon2)
			assert.ErrorIs(t, err, ErrInvalidCoordinate)
		})
	}
}

func TestNewPoint(t *testing.T) {
	p, err := NewPoint(38.0675, -120.5436)
	require.NoError(t, err)
	assert.Equal(t, Point{Latitude: 38.0675, Longitude: -120.5436}, p)

	_, err = NewPoint(200, -300)
	assert.ErrorIs(t, err, ErrInvalidCoordinate)
}

func TestPolylineRoundTrip(t *testing.T) {
	points := []Point{
		{Latitude: 38.5, Longitude: -120.2},
		{Latitude: 40.7, Longitude: -120.95},
		{Latitude: 43.252, Longitude: -126.453},
	}

	encoded := EncodePolyline(points)
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", encoded)

	decoded, err := DecodePolyline(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, len(points))
	for i := range points {
		assert.InDelta(t, points[i].Latitude, decoded[i].Latitude, 1e-5)
		assert.InDelta(t, points[i].Longitude, decoded[i].Longitude, 1e-5)
	}

	_, err = DecodePolyline("")
	assert.Error(t, err)
}
