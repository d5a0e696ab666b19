package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/dpup/migration.ersn.net/server/internal/config"
	"github.com/dpup/migration.ersn.net/server/internal/dataset"
)

func main() {
	defaults := config.DefaultConfig()
	rawDir := flag.String("raw", defaults.Data.RawDir, "Directory of <id>_raw.csv provider exports")
	cleanedDir := flag.String("cleaned", defaults.Data.CleanedDir, "Directory to write <id>_cleaned.csv datasets to")
	species := flag.String("species", "", "Clean a single species instead of every raw export")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ids := []string{*species}
	if *species == "" {
		ids, err = dataset.RawIDs(*rawDir)
		if err != nil {
			logger.Fatal("Failed to list raw datasets", zap.String("dir", *rawDir), zap.Error(err))
		}
	}
	if len(ids) == 0 {
		logger.Warn("No raw datasets found", zap.String("dir", *rawDir))
		return
	}

	failed := 0
	for _, id := range ids {
		report, err := dataset.CleanFile(*rawDir, *cleanedDir, id)
		if err != nil {
			logger.Error("Failed to clean dataset", zap.String("species", id), zap.Error(err))
			failed++
			continue
		}

		if len(report.MissingColumns) > 0 {
			logger.Warn("Raw dataset is missing expected columns",
				zap.String("species", id), zap.Strings("columns", report.MissingColumns))
		}
		logger.Debug("Cleaning report",
			zap.String("species", id),
			zap.Int("duplicate_rows", report.DuplicateRows),
			zap.Int("duplicate_fixes", report.DuplicateFixes),
			zap.Int("bad_timestamps", report.BadTimestamps),
			zap.Int("bad_coordinates", report.BadCoordinates),
			zap.Int("missing_identity", report.MissingIdentity))
		logger.Info("Cleaned dataset",
			zap.String("species", id),
			zap.Int("input_rows", report.InputRows),
			zap.Int("output_rows", report.OutputRows),
			zap.Int("dropped", report.Dropped()))
	}

	if failed > 0 {
		logger.Error("Cleaning finished with failures", zap.Int("failed", failed), zap.Int("total", len(ids)))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}
