package geo

import (
	"fmt"
	"math"

	"github.com/twpayne/go-polyline"
)

// Distance returns the great-circle distance in kilometers between two
// coordinates given in degrees, using the haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) (float64, error) {
	return PointToPoint(Point{Latitude: lat1, Longitude: lon1}, Point{Latitude: lat2, Longitude: lon2})
}

// PointToPoint calculates great-circle distance between two points in kilometers
func PointToPoint(p1, p2 Point) (float64, error) {
	if !IsValid(p1) {
		return 0, fmt.Errorf("%w: (%v, %v)", ErrInvalidCoordinate, p1.Latitude, p1.Longitude)
	}
	if !IsValid(p2) {
		return 0, fmt.Errorf("%w: (%v, %v)", ErrInvalidCoordinate, p2.Latitude, p2.Longitude)
	}

	// If points are the same, distance is 0
	if p1 == p2 {
		return 0, nil
	}

	return haversine(p1, p2), nil
}

// haversine assumes both points are valid.
func haversine(p1, p2 Point) float64 {
	lat1 := toRadians(p1.Latitude)
	lat2 := toRadians(p2.Latitude)
	dlat := lat2 - lat1
	dlon := toRadians(p2.Longitude - p1.Longitude)

	sinLat := math.Sin(dlat / 2)
	sinLon := math.Sin(dlon / 2)
	a := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	// Rounding can push a just above 1 for antipodal points
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// NewPoint creates a Point from latitude and longitude values with validation
func NewPoint(latitude, longitude float64) (Point, error) {
	point := Point{Latitude: latitude, Longitude: longitude}
	if !IsValid(point) {
		return Point{}, fmt.Errorf("%w: (%v, %v)", ErrInvalidCoordinate, latitude, longitude)
	}
	return point, nil
}

// IsValid reports whether the point lies within the valid latitude and
// longitude ranges. NaN coordinates are invalid.
func IsValid(point Point) bool {
	return point.Latitude >= -90 && point.Latitude <= 90 &&
		point.Longitude >= -180 && point.Longitude <= 180
}

// EncodePolyline encodes points using the Google polyline algorithm
func EncodePolyline(points []Point) string {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Latitude, p.Longitude}
	}
	return string(polyline.EncodeCoords(coords))
}

// DecodePolyline decodes Google polyline string to point sequence
func DecodePolyline(encoded string) ([]Point, error) {
	if encoded == "" {
		return nil, fmt.Errorf("encoded polyline string is empty")
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode polyline: %w", err)
	}

	points := make([]Point, len(coords))
	for i, coord := range coords {
		points[i] = Point{
			Latitude:  coord[0],
			Longitude: coord[1],
		}

		if !IsValid(points[i]) {
			return nil, fmt.Errorf("decoded polyline contains %w", ErrInvalidCoordinate)
		}
	}

	return points, nil
}
