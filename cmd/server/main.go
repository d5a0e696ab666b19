package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"

	"github.com/dpup/prefab"
	"github.com/redis/go-redis/v9"

	"github.com/dpup/migration.ersn.net/server/internal/cache"
	"github.com/dpup/migration.ersn.net/server/internal/config"
	"github.com/dpup/migration.ersn.net/server/internal/dataset"
	"github.com/dpup/migration.ersn.net/server/internal/lib/migration"
	"github.com/dpup/migration.ersn.net/server/internal/services"
)

func main() {
	// Load configuration using Prefab's config system
	appConfig := loadConfig()

	catalog, err := dataset.LoadCatalog(appConfig.Data.CatalogFile)
	if err != nil {
		log.Fatalf("Failed to load species catalog: %v", err)
	}

	// Cleaned datasets are read through a shared cache
	store := newCacheStore(appConfig.Cache)
	repo := dataset.NewCachedRepository(dataset.NewCSVStore(appConfig.Data.CleanedDir), store)

	engine := migration.NewEngine(appConfig.Analysis.Policy())
	migrationService := services.NewMigrationService(repo, catalog, engine)

	log.Printf("Migration API Server starting")
	log.Printf("Species in catalog: %d", len(catalog.IDs()))
	log.Printf("Step policy: outliers above %.0f km, active at %.0f km/h",
		appConfig.Analysis.MaxStepDistanceKm, appConfig.Analysis.ActiveSpeedKmh)

	// Keep every species dataset warm so the first request is not a cold load
	warmer := services.NewCacheWarmer(repo, catalog, appConfig.Cache.WarmInterval)
	warmer.Start(context.Background())
	defer warmer.Stop()

	speciesHandler := services.NewHTTPHandler(migrationService)

	// Create Prefab server with GRPC reflection enabled
	// Server configuration (port, etc.) will be loaded from prefab.yaml/env vars
	server := prefab.New(
		prefab.WithGRPCReflection(),
		prefab.WithHTTPHandlerFunc("/", homepageHandler),
		prefab.WithHTTPHandlerFunc(services.SpeciesPath, speciesHandler.ServeHTTP),
		prefab.WithHTTPHandlerFunc(services.SpeciesPath+"/", speciesHandler.ServeHTTP),
	)

	// Register gRPC services using Prefab's service registrar
	services.RegisterMigrationServer(server.ServiceRegistrar(), services.NewGRPCServer(migrationService))

	// Start the server (blocks until shutdown)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// loadConfig loads configuration using Prefab's config system
// Configuration is loaded from prefab.yaml and environment variables with PF__ prefix
func loadConfig() *config.Config {
	appConfig := config.DefaultConfig()

	// Unmarshal specific sections from Prefab's config using exact key paths
	if err := prefab.Config.Unmarshal("data", &appConfig.Data); err != nil {
		log.Fatalf("Failed to unmarshal data section: %v", err)
	}

	if err := prefab.Config.Unmarshal("cache", &appConfig.Cache); err != nil {
		log.Fatalf("Failed to unmarshal cache section: %v", err)
	}

	if err := prefab.Config.Unmarshal("analysis", &appConfig.Analysis); err != nil {
		log.Fatalf("Failed to unmarshal analysis section: %v", err)
	}

	if err := appConfig.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return appConfig
}

func newCacheStore(cfg config.CacheConfig) cache.Store {
	if cfg.Backend == config.CacheBackendRedis {
		log.Printf("Dataset cache: redis at %s (ttl %s)", cfg.RedisAddr, cfg.TTL)
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return cache.NewRedisStore(client, cfg.RedisPrefix, cfg.TTL)
	}

	log.Printf("Dataset cache: in memory, %d entries (ttl %s)", cfg.MaxEntries, cfg.TTL)
	return cache.NewMemoryStore(cfg.MaxEntries, cfg.TTL)
}

// homepageHandler serves a simple HTML homepage at the server root
func homepageHandler(w http.ResponseWriter, r *http.Request) {
	// Only handle the root path
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	html := `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>migration.ersn.net</title>
    <style>
        body {
            font-family: 'Courier New', Consolas, monospace;
            background: #000;
            color: #0f0;
            padding: 20px;
            line-height: 1.4;
        }
        a { color: #0ff; text-decoration: none; }
        a:hover { text-decoration: underline; }
        pre { margin: 0; }
        .header { color: #ff0; }
    </style>
</head>
<body>
<pre>
<span class="header">migration.ersn.net</span>

Migration analytics for GPS-tracked animal species: active migration
distances and durations, speeds, range amplitude and monthly summaries.

<span class="header">API Endpoints:</span>

  <a href="/api/v1/species">GET /api/v1/species</a>                        - List tracked species
  GET /api/v1/species/{id}/stats             - Migration statistics
  GET /api/v1/species/{id}/monthly           - Distance by year and month
  GET /api/v1/species/{id}/speeds            - Speed by month of year
  GET /api/v1/species/{id}/tracks            - Encoded track lines
  GET /api/v1/species/{id}/tracks.kml        - Track lines as KML

<span class="header">gRPC:</span>
  migration.v1.MigrationService/ListSpecies
  migration.v1.MigrationService/GetStats
  migration.v1.MigrationService/GetMonthlySummary

<span class="header">Data Sources:</span>
  • Movebank telemetry studies, cleaned offline with cmd/clean
</pre>
</body>
</html>`

	if _, err := fmt.Fprint(w, html); err != nil {
		slog.Error("Failed to write homepage HTML", "error", err)
	}
}
