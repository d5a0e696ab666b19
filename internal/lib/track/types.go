package track

import (
	"slices"
	"time"

	"github.com/dpup/migration.ersn.net/server/internal/lib/geo"
)

// Canonical column names of a cleaned telemetry dataset
const (
	ColumnIndividualID    = "individual_id"
	ColumnTimestamp       = "timestamp"
	ColumnLatitude        = "location_lat"
	ColumnLongitude       = "location_long"
	ColumnLocalIdentifier = "individual_local_identifier"
	ColumnEventID         = "event_id"
)

// CanonicalColumns is the column order of a cleaned dataset
var CanonicalColumns = []string{ColumnIndividualID, ColumnTimestamp, ColumnLatitude, ColumnLongitude}

// ExpectedColumns are the fields selected from raw provider exports
var ExpectedColumns = []string{
	ColumnIndividualID,
	ColumnTimestamp,
	ColumnLongitude,
	ColumnLatitude,
	ColumnLocalIdentifier,
	ColumnEventID,
}

// Fix is one telemetry observation of a tracked individual
type Fix struct {
	IndividualID string    `json:"individual_id"`
	Timestamp    time.Time `json:"timestamp"`
	Latitude     float64   `json:"lat"`
	Longitude    float64   `json:"lng"`
}

// Point returns the fix location
func (f Fix) Point() geo.Point {
	return geo.Point{Latitude: f.Latitude, Longitude: f.Longitude}
}

// Trajectory is the time-ordered sequence of fixes of one individual
type Trajectory struct {
	IndividualID string `json:"individual_id"`
	Fixes        []Fix  `json:"fixes"`
}

// RawTable is a tabular record set as read from a provider export. Rows may be
// shorter than the header.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// Report summarizes what cleaning dropped. It is diagnostic only.
type Report struct {
	InputRows       int      `json:"input_rows"`
	MissingColumns  []string `json:"missing_columns,omitempty"`
	DuplicateRows   int      `json:"duplicate_rows"`
	DuplicateFixes  int      `json:"duplicate_fixes"`
	BadTimestamps   int      `json:"bad_timestamps"`
	BadCoordinates  int      `json:"bad_coordinates"`
	MissingIdentity int      `json:"missing_identity"`
	OutputRows      int      `json:"output_rows"`
}

// Dropped returns the number of input rows that did not become fixes
func (r Report) Dropped() int {
	return r.InputRows - r.OutputRows
}

// MissingRequired returns the missing columns without which no fix can be
// produced. The identifier is required only when neither identity column is
// present.
func (r Report) MissingRequired() []string {
	var required []string
	missingID := false
	for _, name := range r.MissingColumns {
		switch name {
		case ColumnTimestamp, ColumnLatitude, ColumnLongitude:
			required = append(required, name)
		case ColumnIndividualID:
			missingID = true
		}
	}
	if missingID && slices.Contains(r.MissingColumns, ColumnLocalIdentifier) {
		required = append(required, ColumnIndividualID)
	}
	return required
}

// Result is the output of Clean
type Result struct {
	Fixes  []Fix
	Report Report
}
