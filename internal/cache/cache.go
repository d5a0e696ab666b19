package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Store is a keyed cache of JSON-serializable values
type Store interface {
	// Get decodes the cached value into result. It reports false when the key
	// is absent or expired.
	Get(ctx context.Context, key string, result any) (bool, error)

	// Set stores data under key
	Set(ctx context.Context, key string, data any) error

	// Delete removes an entry
	Delete(ctx context.Context, key string) error
}

// MemoryStore is a bounded in-process cache. The least recently used entry is
// evicted once MaxEntries is reached and entries expire after the TTL.
type MemoryStore struct {
	entries *expirable.LRU[string, *CacheEntry]
}

// CacheEntry represents a cached item with metadata
type CacheEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMemoryStore creates a cache holding at most maxEntries values for ttl.
// A zero ttl disables expiry.
func NewMemoryStore(maxEntries int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: expirable.NewLRU[string, *CacheEntry](maxEntries, nil, ttl),
	}
}

// Set stores data in cache
func (c *MemoryStore) Set(_ context.Context, key string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data for cache: %w", err)
	}

	c.entries.Add(key, &CacheEntry{
		Key:       key,
		Data:      jsonData,
		CreatedAt: time.Now(),
	})
	return nil
}

// Get retrieves data from cache if present and not expired
func (c *MemoryStore) Get(_ context.Context, key string, result any) (bool, error) {
	entry, ok := c.entries.Get(key)
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(entry.Data, result); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached data: %w", err)
	}
	return true, nil
}

// Entry returns cache metadata without decoding the value
func (c *MemoryStore) Entry(key string) (*CacheEntry, bool) {
	return c.entries.Peek(key)
}

// Delete removes an entry from cache
func (c *MemoryStore) Delete(_ context.Context, key string) error {
	c.entries.Remove(key)
	return nil
}

// Clear removes all entries from cache
func (c *MemoryStore) Clear() {
	c.entries.Purge()
}

// Keys returns all cache keys, oldest first
func (c *MemoryStore) Keys() []string {
	return c.entries.Keys()
}

// Stats returns cache statistics
func (c *MemoryStore) Stats() CacheStats {
	stats := CacheStats{
		TotalEntries: c.entries.Len(),
	}

	for _, entry := range c.entries.Values() {
		if stats.OldestEntry.IsZero() || entry.CreatedAt.Before(stats.OldestEntry) {
			stats.OldestEntry = entry.CreatedAt
		}
		if entry.CreatedAt.After(stats.NewestEntry) {
			stats.NewestEntry = entry.CreatedAt
		}
	}

	return stats
}

// CacheStats provides cache usage statistics
type CacheStats struct {
	TotalEntries int
	OldestEntry  time.Time
	NewestEntry  time.Time
}
