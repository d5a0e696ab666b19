package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rawCSV = `event_id,timestamp,location_long,location_lat,individual_id,individual_local_identifier,tag_voltage
1,2020-04-01 00:00:00.000,10,50,,stork-1,3.1
2,2020-04-01 01:00:00.000,10,50.36,,stork-1,3.1
2,2020-04-01 01:00:00.000,10,50.36,,stork-1,3.0
3,2020-04-01 02:00:00.000,10,95,,stork-1,3.0
4,garbage,10,50.4,,stork-1,3.0
`

func TestRawIDs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "storks"+RawSuffix, rawCSV)
	writeFile(t, dir, "geese"+RawSuffix, rawCSV)
	writeFile(t, dir, "notes.txt", "ignored")
	writeFile(t, dir, RawSuffix, "no id")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"+RawSuffix), 0o755))

	ids, err := RawIDs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"geese", "storks"}, ids)

	_, err = RawIDs(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestCleanFile(t *testing.T) {
	rawDir := t.TempDir()
	cleanedDir := filepath.Join(t.TempDir(), "cleaned")
	writeFile(t, rawDir, "storks"+RawSuffix, rawCSV)

	report, err := CleanFile(rawDir, cleanedDir, "storks")
	require.NoError(t, err)

	assert.Equal(t, 5, report.InputRows)
	assert.Equal(t, 2, report.OutputRows)
	assert.Equal(t, 1, report.DuplicateRows)
	assert.Equal(t, 1, report.BadCoordinates)
	assert.Equal(t, 1, report.BadTimestamps)

	data, err := os.ReadFile(filepath.Join(cleanedDir, "storks"+CleanedSuffix))
	require.NoError(t, err)
	assert.Equal(t, `individual_id,timestamp,location_lat,location_long
stork-1,2020-04-01 00:00:00.000,50,10
stork-1,2020-04-01 01:00:00.000,50.36,10
`, string(data))

	entries, err := os.ReadDir(cleanedDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file is removed")

	fixes, err := NewCSVStore(cleanedDir).Fixes(context.Background(), "storks")
	require.NoError(t, err)
	assert.Len(t, fixes, 2)
}

func TestCleanFile_MissingRaw(t *testing.T) {
	_, err := CleanFile(t.TempDir(), t.TempDir(), "storks")
	assert.Error(t, err)

	_, err = CleanFile(t.TempDir(), t.TempDir(), "../storks")
	assert.ErrorIs(t, err, ErrNotFound)
}
