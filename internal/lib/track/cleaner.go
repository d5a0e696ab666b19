package track

import (
	"math"
	"strconv"
	"strings"

	"github.com/dpup/migration.ersn.net/server/internal/lib/geo"
)

const keySeparator = "\x1f"

// Clean converts a raw record set into canonical fixes. Rows that duplicate an
// earlier row, carry an unparsable timestamp, lack an identifier, or have
// out-of-range coordinates are dropped and counted in the report. Missing
// expected columns are reported, not treated as errors. The input table is
// not modified.
func Clean(table RawTable) Result {
	report := Report{InputRows: len(table.Rows)}

	columns := indexColumns(table.Header)
	for _, name := range ExpectedColumns {
		if _, ok := columns[name]; !ok {
			report.MissingColumns = append(report.MissingColumns, name)
		}
	}

	// Only the selected columns take part in duplicate detection
	selected := make([]int, 0, len(ExpectedColumns))
	for _, name := range ExpectedColumns {
		if idx, ok := columns[name]; ok {
			selected = append(selected, idx)
		}
	}

	tsIdx, hasTS := columns[ColumnTimestamp]
	latIdx, hasLat := columns[ColumnLatitude]
	lonIdx, hasLon := columns[ColumnLongitude]
	idIdx, hasID := columns[ColumnIndividualID]
	localIdx, hasLocal := columns[ColumnLocalIdentifier]

	if !hasTS || !hasLat || !hasLon || (!hasID && !hasLocal) {
		return Result{Fixes: []Fix{}, Report: report}
	}

	seenRows := make(map[string]struct{}, len(table.Rows))
	seenFixes := make(map[string]struct{}, len(table.Rows))
	fixes := make([]Fix, 0, len(table.Rows))

	for _, row := range table.Rows {
		rowKey := selectKey(row, selected)
		if _, dup := seenRows[rowKey]; dup {
			report.DuplicateRows++
			continue
		}
		seenRows[rowKey] = struct{}{}

		id := ""
		if hasID {
			id = cell(row, idIdx)
		}
		if id == "" && hasLocal {
			id = cell(row, localIdx)
		}
		if id == "" {
			report.MissingIdentity++
			continue
		}

		ts, err := ParseTimestamp(cell(row, tsIdx))
		if err != nil {
			report.BadTimestamps++
			continue
		}

		lat, latErr := parseCoordinate(cell(row, latIdx))
		lon, lonErr := parseCoordinate(cell(row, lonIdx))
		if latErr != nil || lonErr != nil || !geo.IsValid(geo.Point{Latitude: lat, Longitude: lon}) {
			report.BadCoordinates++
			continue
		}

		fixKey := id + keySeparator + strconv.FormatInt(ts.UnixNano(), 10)
		if _, dup := seenFixes[fixKey]; dup {
			report.DuplicateFixes++
			continue
		}
		seenFixes[fixKey] = struct{}{}

		fixes = append(fixes, Fix{
			IndividualID: id,
			Timestamp:    ts,
			Latitude:     lat,
			Longitude:    lon,
		})
	}

	report.OutputRows = len(fixes)
	return Result{Fixes: fixes, Report: report}
}

func indexColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, exists := columns[name]; !exists {
			columns[name] = i
		}
	}
	return columns
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func selectKey(row []string, selected []int) string {
	var b strings.Builder
	for i, idx := range selected {
		if i > 0 {
			b.WriteString(keySeparator)
		}
		b.WriteString(cell(row, idx))
	}
	return b.String()
}

func parseCoordinate(value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrRange
	}
	return v, nil
}
