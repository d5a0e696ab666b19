package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dpup/migration.ersn.net/server/internal/lib/track"
)

// ReadTable reads a CSV export into a raw table. The first record is the
// header; later records may have fewer or more fields than the header.
func ReadTable(r io.Reader) (track.RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return track.RawTable{}, nil
	}
	if err != nil {
		return track.RawTable{}, fmt.Errorf("failed to read CSV header: %w", err)
	}

	table := track.RawTable{Header: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return track.RawTable{}, fmt.Errorf("failed to read CSV record %d: %w", len(table.Rows)+1, err)
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}

// WriteFixes writes fixes as a cleaned dataset with the canonical columns
func WriteFixes(w io.Writer, fixes []track.Fix) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(track.CanonicalColumns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, fix := range fixes {
		record := []string{
			fix.IndividualID,
			track.FormatTimestamp(fix.Timestamp),
			strconv.FormatFloat(fix.Latitude, 'f', -1, 64),
			strconv.FormatFloat(fix.Longitude, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write fix for %s: %w", fix.IndividualID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
