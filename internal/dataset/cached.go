package dataset

import (
	"context"

	"github.com/dpup/migration.ersn.net/server/internal/cache"
	"github.com/dpup/migration.ersn.net/server/internal/lib/track"
)

// CachedRepository reads through a cache in front of another repository
type CachedRepository struct {
	source Repository
	loader *cache.Loader
}

// NewCachedRepository wraps source with a read-through cache on store
func NewCachedRepository(source Repository, store cache.Store) *CachedRepository {
	return &CachedRepository{
		source: source,
		loader: cache.NewLoader(store),
	}
}

func cacheKey(speciesID string) string {
	return "fixes:" + speciesID
}

// Fixes returns the cached dataset, loading it from the source on a miss
func (r *CachedRepository) Fixes(ctx context.Context, speciesID string) ([]track.Fix, error) {
	return cache.Load(ctx, r.loader, cacheKey(speciesID), func(ctx context.Context) ([]track.Fix, error) {
		return r.source.Fixes(ctx, speciesID)
	})
}

// Refresh reloads a dataset from the source and replaces the cached copy
func (r *CachedRepository) Refresh(ctx context.Context, speciesID string) error {
	if err := r.loader.Invalidate(ctx, cacheKey(speciesID)); err != nil {
		return err
	}
	_, err := r.Fixes(ctx, speciesID)
	return err
}
