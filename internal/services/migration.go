package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dpup/prefab/logging"
	"golang.org/x/text/language"

	"github.com/dpup/migration.ersn.net/server/internal/dataset"
	"github.com/dpup/migration.ersn.net/server/internal/lib/geo"
	"github.com/dpup/migration.ersn.net/server/internal/lib/migration"
	"github.com/dpup/migration.ersn.net/server/internal/lib/track"
)

// MigrationService answers migration analytics queries for catalog species
type MigrationService struct {
	repo    dataset.Repository
	catalog *dataset.Catalog
	engine  *migration.Engine
}

// NewMigrationService creates a new MigrationService
func NewMigrationService(repo dataset.Repository, catalog *dataset.Catalog, engine *migration.Engine) *MigrationService {
	return &MigrationService{
		repo:    repo,
		catalog: catalog,
		engine:  engine,
	}
}

// SpeciesStats is the statistics overview of one species
type SpeciesStats struct {
	Species         dataset.Species          `json:"species"`
	Stats           migration.MigrationStats `json:"stats"`
	TotalDistanceKm float64                  `json:"total_distance_km"`
	Individuals     int                      `json:"individuals"`
	Fixes           int                      `json:"fixes"`
	FirstFix        *time.Time               `json:"first_fix,omitempty"`
	LastFix         *time.Time               `json:"last_fix,omitempty"`
	Seasons         []SeasonSummary          `json:"seasons"`
}

// SeasonSummary is a season fix count with a localized label
type SeasonSummary struct {
	Season geo.Season `json:"season"`
	Label  string     `json:"label"`
	Fixes  int        `json:"fixes"`
}

// ListSpecies returns every catalog species
func (s *MigrationService) ListSpecies(ctx context.Context) []dataset.Species {
	species := s.catalog.Species()
	logging.Infow(ctx, "ListSpecies called", "count", len(species))
	return species
}

// GetStats computes the statistics overview of a species. Season labels use
// the closest supported language to lang.
func (s *MigrationService) GetStats(ctx context.Context, speciesID string, lang language.Tag) (*SpeciesStats, error) {
	species, fixes, err := s.load(ctx, speciesID)
	if err != nil {
		return nil, err
	}

	stats, err := s.engine.Stats(fixes)
	if err != nil {
		return nil, fmt.Errorf("stats for %s: %w", speciesID, err)
	}
	total, err := s.engine.TotalDistance(fixes)
	if err != nil {
		return nil, fmt.Errorf("total distance for %s: %w", speciesID, err)
	}

	result := &SpeciesStats{
		Species:         species,
		Stats:           stats,
		TotalDistanceKm: total,
		Individuals:     len(track.Individuals(fixes)),
		Fixes:           len(fixes),
	}

	for i := range fixes {
		ts := fixes[i].Timestamp
		if result.FirstFix == nil || ts.Before(*result.FirstFix) {
			result.FirstFix = &ts
		}
		if result.LastFix == nil || ts.After(*result.LastFix) {
			result.LastFix = &ts
		}
	}

	for _, count := range migration.SeasonalBreakdown(fixes) {
		result.Seasons = append(result.Seasons, SeasonSummary{
			Season: count.Season,
			Label:  count.Season.Label(lang),
			Fixes:  count.Fixes,
		})
	}

	return result, nil
}

// GetMonthlySummary returns per year-month distance summaries of a species
func (s *MigrationService) GetMonthlySummary(ctx context.Context, speciesID string) ([]migration.MonthlyDistanceSummary, error) {
	_, fixes, err := s.load(ctx, speciesID)
	if err != nil {
		return nil, err
	}

	summary, err := s.engine.MonthlyDistanceSummary(fixes)
	if err != nil {
		return nil, fmt.Errorf("monthly summary for %s: %w", speciesID, err)
	}
	return summary, nil
}

// GetMonthlySpeeds returns the month-of-year speed profile of a species
func (s *MigrationService) GetMonthlySpeeds(ctx context.Context, speciesID string) ([]migration.MonthlySpeed, error) {
	_, fixes, err := s.load(ctx, speciesID)
	if err != nil {
		return nil, err
	}

	profile, err := s.engine.MonthlySpeedProfile(fixes)
	if err != nil {
		return nil, fmt.Errorf("monthly speeds for %s: %w", speciesID, err)
	}
	return profile, nil
}

// GetTrackLines returns the continuous track lines of every individual
func (s *MigrationService) GetTrackLines(ctx context.Context, speciesID string) ([]migration.TrackLine, error) {
	_, lines, err := s.trackLines(ctx, speciesID)
	return lines, err
}

func (s *MigrationService) trackLines(ctx context.Context, speciesID string) (dataset.Species, []migration.TrackLine, error) {
	species, fixes, err := s.load(ctx, speciesID)
	if err != nil {
		return dataset.Species{}, nil, err
	}

	lines, err := s.engine.TrackLines(fixes)
	if err != nil {
		return dataset.Species{}, nil, fmt.Errorf("track lines for %s: %w", speciesID, err)
	}
	return species, lines, nil
}

// load resolves a catalog species and its fixes. Unknown species and species
// without a dataset both fail with dataset.ErrNotFound.
func (s *MigrationService) load(ctx context.Context, speciesID string) (dataset.Species, []track.Fix, error) {
	species, err := s.catalog.Lookup(speciesID)
	if err != nil {
		return dataset.Species{}, nil, err
	}

	fixes, err := s.repo.Fixes(ctx, speciesID)
	if err != nil {
		logging.Warnw(ctx, "Failed to load dataset", "species", speciesID, "error", err)
		return dataset.Species{}, nil, err
	}
	return species, fixes, nil
}
