// Package dataset provides access to cleaned per-species telemetry datasets.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dpup/migration.ersn.net/server/internal/lib/track"
	"github.com/dpup/prefab/logging"
)

// ErrNotFound is returned when no dataset exists for a species
var ErrNotFound = errors.New("dataset not found")

// CleanedSuffix and RawSuffix name the files of a species dataset
const (
	CleanedSuffix = "_cleaned.csv"
	RawSuffix     = "_raw.csv"
)

// Repository resolves a species id to its cleaned fixes
type Repository interface {
	Fixes(ctx context.Context, speciesID string) ([]track.Fix, error)
}

// CSVStore reads cleaned datasets from <dir>/<id>_cleaned.csv
type CSVStore struct {
	dir string
}

// NewCSVStore creates a store rooted at dir
func NewCSVStore(dir string) *CSVStore {
	return &CSVStore{dir: dir}
}

// Path returns the file backing a species dataset
func (s *CSVStore) Path(speciesID string) string {
	return filepath.Join(s.dir, speciesID+CleanedSuffix)
}

// Fixes loads and re-validates the cleaned dataset of a species
func (s *CSVStore) Fixes(ctx context.Context, speciesID string) ([]track.Fix, error) {
	if err := validateID(speciesID); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path(speciesID))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("species %q: %w", speciesID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", speciesID, err)
	}
	defer f.Close()

	table, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", speciesID, err)
	}

	result := track.Clean(table)
	LogReport(ctx, speciesID, result.Report)
	return result.Fixes, nil
}

// LogReport logs cleaning diagnostics when anything was dropped
func LogReport(ctx context.Context, speciesID string, report track.Report) {
	if missing := report.MissingRequired(); len(missing) > 0 {
		logging.Warnw(ctx, "Dataset is missing required columns",
			"species", speciesID, "columns", missing)
	}
	if report.Dropped() > 0 {
		logging.Warnw(ctx, "Dropped rows while cleaning dataset",
			"species", speciesID,
			"input_rows", report.InputRows,
			"output_rows", report.OutputRows,
			"duplicate_rows", report.DuplicateRows,
			"duplicate_fixes", report.DuplicateFixes,
			"bad_timestamps", report.BadTimestamps,
			"bad_coordinates", report.BadCoordinates,
			"missing_identity", report.MissingIdentity)
	}
}

func validateID(speciesID string) error {
	if speciesID == "" || strings.ContainsAny(speciesID, `/\`) || strings.Contains(speciesID, "..") {
		return fmt.Errorf("invalid species id %q: %w", speciesID, ErrNotFound)
	}
	return nil
}
