package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dpup/migration.ersn.net/server/internal/lib/track"
)

// RawIDs lists the species ids of every <id>_raw.csv file in dir
func RawIDs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list raw datasets: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, RawSuffix) {
			continue
		}
		if id := strings.TrimSuffix(name, RawSuffix); id != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// CleanFile cleans the raw export of a species from rawDir and writes the
// canonical dataset to cleanedDir. The cleaned file is replaced atomically.
func CleanFile(rawDir, cleanedDir, speciesID string) (track.Report, error) {
	if err := validateID(speciesID); err != nil {
		return track.Report{}, err
	}

	in, err := os.Open(filepath.Join(rawDir, speciesID+RawSuffix))
	if err != nil {
		return track.Report{}, fmt.Errorf("failed to open raw dataset %s: %w", speciesID, err)
	}
	defer in.Close()

	table, err := ReadTable(in)
	if err != nil {
		return track.Report{}, fmt.Errorf("raw dataset %s: %w", speciesID, err)
	}
	result := track.Clean(table)

	if err := os.MkdirAll(cleanedDir, 0o755); err != nil {
		return result.Report, fmt.Errorf("failed to create %s: %w", cleanedDir, err)
	}

	tmp, err := os.CreateTemp(cleanedDir, speciesID+"-*.tmp")
	if err != nil {
		return result.Report, fmt.Errorf("failed to create cleaned dataset %s: %w", speciesID, err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteFixes(tmp, result.Fixes); err != nil {
		tmp.Close()
		return result.Report, fmt.Errorf("cleaned dataset %s: %w", speciesID, err)
	}
	if err := tmp.Close(); err != nil {
		return result.Report, fmt.Errorf("cleaned dataset %s: %w", speciesID, err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(cleanedDir, speciesID+CleanedSuffix)); err != nil {
		return result.Report, fmt.Errorf("failed to replace cleaned dataset %s: %w", speciesID, err)
	}
	return result.Report, nil
}
