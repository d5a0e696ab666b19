package migration

import (
	"fmt"
	"time"

	"github.com/dpup/migration.ersn.net/server/internal/lib/geo"
)

// MigrationStats is the aggregate result for one individual or species
type MigrationStats struct {
	AvgActiveDistanceKm   int `json:"avg_active_distance_km"`
	AvgActiveDurationDays int `json:"avg_active_duration_days"`
	AvgSpeedKmh           int `json:"avg_speed_kmh"`
	MaxAmplitudeKm        int `json:"max_amplitude_km"`
}

// Period is a calendar year-month
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the UTC year-month of t
func PeriodOf(t time.Time) Period {
	t = t.UTC()
	return Period{Year: t.Year(), Month: t.Month()}
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Before reports whether p is earlier than other
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// MarshalText renders the period as YYYY-MM
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// MonthlyDistanceSummary aggregates per-individual distance totals of one
// year-month period
type MonthlyDistanceSummary struct {
	Period      Period  `json:"period"`
	MeanKm      float64 `json:"mean_km"`
	MinKm       float64 `json:"min_km"`
	MaxKm       float64 `json:"max_km"`
	Individuals int     `json:"individuals"`
}

// MonthlySpeed aggregates speeds by month of year across all years
type MonthlySpeed struct {
	Month           time.Month `json:"month"`
	MeanSpeedKmh    float64    `json:"mean_speed_kmh"`
	TotalDistanceKm float64    `json:"total_distance_km"`
	Individuals     int        `json:"individuals"`
}

// SeasonCount is the number of fixes recorded in a season
type SeasonCount struct {
	Season geo.Season `json:"season"`
	Fixes  int        `json:"fixes"`
}

// TrackLine is a continuous piece of an individual's path with no step longer
// than the outlier threshold
type TrackLine struct {
	IndividualID string      `json:"individual_id"`
	Start        time.Time   `json:"start"`
	End          time.Time   `json:"end"`
	Points       []geo.Point `json:"-"`
	Polyline     string      `json:"polyline"`
}
