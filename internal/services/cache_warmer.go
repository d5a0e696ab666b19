package services

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"
	"time"

	perrors "github.com/dpup/prefab/errors"
	"github.com/dpup/prefab/logging"

	"github.com/dpup/migration.ersn.net/server/internal/dataset"
)

// Refresher reloads the cached dataset of a species
type Refresher interface {
	Refresh(ctx context.Context, speciesID string) error
}

// CacheWarmer periodically reloads every catalog species so requests are
// served from a warm dataset cache
type CacheWarmer struct {
	refresher Refresher
	catalog   *dataset.Catalog
	interval  time.Duration
	timeout   time.Duration

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	running bool
}

// NewCacheWarmer creates a warmer that runs every interval
func NewCacheWarmer(refresher Refresher, catalog *dataset.Catalog, interval time.Duration) *CacheWarmer {
	return &CacheWarmer{
		refresher: refresher,
		catalog:   catalog,
		interval:  interval,
		timeout:   2 * time.Minute,
	}
}

// WarmCache reloads every catalog species once. Species without a dataset
// are skipped; other failures are logged and the first one returned.
func (w *CacheWarmer) WarmCache(ctx context.Context) error {
	warmCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	var firstErr error
	warmed := 0
	for _, id := range w.catalog.IDs() {
		if err := warmCtx.Err(); err != nil {
			logging.Warnw(ctx, "Cache warming interrupted", "error", err)
			return err
		}

		err := w.refresher.Refresh(warmCtx, id)
		switch {
		case err == nil:
			warmed++
		case errors.Is(err, dataset.ErrNotFound):
			logging.Warnw(ctx, "Cache warming: no dataset for species", "species", id)
		default:
			logging.Errorw(ctx, "Cache warming failed", "species", id, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	logging.Infow(ctx, "Cache warming complete", "warmed", warmed, "species", len(w.catalog.IDs()))
	return firstErr
}

// Start warms the cache immediately and then every interval until Stop is
// called or ctx is cancelled. A zero interval warms once.
func (w *CacheWarmer) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	w.stop = make(chan struct{})
	w.done = make(chan struct{})

	logging.Infow(ctx, "Starting cache warmer", "interval", w.interval.String())
	go w.loop(ctx, w.stop, w.done)
}

// Stop halts the warmer and waits for the current pass to finish
func (w *CacheWarmer) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stop)
	done := w.done
	w.mu.Unlock()

	<-done
}

// IsRunning returns whether the warmer loop is active
func (w *CacheWarmer) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *CacheWarmer) loop(ctx context.Context, stop, done chan struct{}) {
	defer close(done)
	defer w.exited(done)
	defer func() {
		if r := recover(); r != nil {
			err, _ := perrors.ParseStack(debug.Stack())
			skipFrames := 3
			numFrames := 5
			logging.Errorw(ctx, "Cache warmer: recovered from panic",
				"error", r, "error.stack_trace", err.MinimalStack(skipFrames, numFrames))
		}
	}()

	w.warm(ctx)
	if w.interval <= 0 {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			w.warm(ctx)
		}
	}
}

// exited clears the running flag unless a newer loop has been started
func (w *CacheWarmer) exited(done chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done == done {
		w.running = false
	}
}

func (w *CacheWarmer) warm(ctx context.Context) {
	if err := w.WarmCache(ctx); err != nil {
		logging.Warnw(ctx, "Cache warming pass failed", "error", err)
	}
}
