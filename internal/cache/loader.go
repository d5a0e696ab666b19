package cache

import (
	"context"
	"fmt"

	"github.com/dpup/prefab/logging"
	"golang.org/x/sync/singleflight"
)

// Loader reads through a Store, running at most one load per key at a time.
// Concurrent callers asking for the same missing key share the first caller's
// result.
type Loader struct {
	store Store
	group singleflight.Group
}

// NewLoader creates a read-through loader over store
func NewLoader(store Store) *Loader {
	return &Loader{store: store}
}

// Load returns the cached value for key, or calls load, caches its result and
// returns it. Store failures are logged and fall back to load; load errors are
// returned and nothing is cached.
func Load[T any](ctx context.Context, l *Loader, key string, load func(context.Context) (T, error)) (T, error) {
	var cached T
	found, err := l.store.Get(ctx, key, &cached)
	if err != nil {
		logging.Warnw(ctx, "Cache read failed, loading from source", "key", key, "error", err)
	} else if found {
		return cached, nil
	}

	v, err, _ := l.group.Do(key, func() (any, error) {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if err := l.store.Set(ctx, key, value); err != nil {
			logging.Warnw(ctx, "Cache write failed", "key", key, "error", err)
		}
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	value, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache: unexpected value type %T for key %s", v, key)
	}
	return value, nil
}

// Invalidate drops a key so the next Load reruns the loader
func (l *Loader) Invalidate(ctx context.Context, key string) error {
	l.group.Forget(key)
	return l.store.Delete(ctx, key)
}
