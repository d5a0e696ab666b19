package geo

import "errors"

// EarthRadiusKm is the mean Earth radius used for great-circle distances
const EarthRadiusKm = 6371.0

// ErrInvalidCoordinate is returned when a latitude is outside [-90, 90] or a
// longitude is outside [-180, 180]
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Point represents a geographic coordinate
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}
