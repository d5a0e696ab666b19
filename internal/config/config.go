package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dpup/migration.ersn.net/server/internal/lib/segment"
)

// Cache backends
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config represents the complete server configuration. Each field maps to a
// top-level section of prefab.yaml.
type Config struct {
	Data     DataConfig     `koanf:"data"`
	Cache    CacheConfig    `koanf:"cache"`
	Analysis AnalysisConfig `koanf:"analysis"`
}

// DataConfig locates the species datasets on disk
type DataConfig struct {
	CleanedDir  string `koanf:"cleaned_dir"`
	RawDir      string `koanf:"raw_dir"`
	CatalogFile string `koanf:"catalog_file"`
}

// CacheConfig holds dataset cache settings
type CacheConfig struct {
	Backend      string        `koanf:"backend"`
	MaxEntries   int           `koanf:"max_entries"`
	TTL          time.Duration `koanf:"ttl"`
	RedisAddr    string        `koanf:"redis_addr"`
	RedisPrefix  string        `koanf:"redis_prefix"`
	WarmInterval time.Duration `koanf:"warm_interval"`
}

// AnalysisConfig holds the step filter thresholds
type AnalysisConfig struct {
	MaxStepDistanceKm float64 `koanf:"max_step_distance_km"`
	ActiveSpeedKmh    float64 `koanf:"active_speed_kmh"`
}

// Policy converts the analysis section to a step policy
func (a AnalysisConfig) Policy() segment.Policy {
	return segment.Policy{
		MaxStepDistanceKm: a.MaxStepDistanceKm,
		ActiveSpeedKmh:    a.ActiveSpeedKmh,
	}
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	policy := segment.DefaultPolicy()
	return &Config{
		Data: DataConfig{
			CleanedDir:  "data/cleaned",
			RawDir:      "data/raw",
			CatalogFile: "data/catalog.json",
		},
		Cache: CacheConfig{
			Backend:      CacheBackendMemory,
			MaxEntries:   16,
			TTL:          6 * time.Hour,
			RedisAddr:    "localhost:6379",
			RedisPrefix:  "migration:",
			WarmInterval: time.Hour,
		},
		Analysis: AnalysisConfig{
			MaxStepDistanceKm: policy.MaxStepDistanceKm,
			ActiveSpeedKmh:    policy.ActiveSpeedKmh,
		},
	}
}

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	var errs []error

	if c.Data.CleanedDir == "" {
		errs = append(errs, errors.New("data.cleaned_dir is required"))
	}
	if c.Data.CatalogFile == "" {
		errs = append(errs, errors.New("data.catalog_file is required"))
	}

	switch c.Cache.Backend {
	case CacheBackendMemory:
		if c.Cache.MaxEntries <= 0 {
			errs = append(errs, fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries))
		}
	case CacheBackendRedis:
		if c.Cache.RedisAddr == "" {
			errs = append(errs, errors.New("cache.redis_addr is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown cache.backend %q", c.Cache.Backend))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, fmt.Errorf("cache.ttl must not be negative, got %s", c.Cache.TTL))
	}
	if c.Cache.WarmInterval < 0 {
		errs = append(errs, fmt.Errorf("cache.warm_interval must not be negative, got %s", c.Cache.WarmInterval))
	}

	if c.Analysis.MaxStepDistanceKm <= 0 {
		errs = append(errs, fmt.Errorf("analysis.max_step_distance_km must be positive, got %g", c.Analysis.MaxStepDistanceKm))
	}
	if c.Analysis.ActiveSpeedKmh <= 0 {
		errs = append(errs, fmt.Errorf("analysis.active_speed_kmh must be positive, got %g", c.Analysis.ActiveSpeedKmh))
	}

	return errors.Join(errs...)
}
