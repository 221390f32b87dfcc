package cache

import (
	"context"
	"time"
)

// Cache is the interface for caching compiled preview programs and schema revisions.
// It provides Get, Set, and Delete operations with TTL support.
type Cache[V any] interface {
	// Get retrieves a value from cache.
	// Returns the value and true if found, or the zero value and false if not found.
	Get(ctx context.Context, key string) (V, bool)

	// Set stores a value in cache with TTL. A zero TTL uses the cache default.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error

	// Delete removes a value from cache.
	Delete(ctx context.Context, key string) error

	// Clear removes all entries from cache.
	Clear(ctx context.Context) error

	// Metrics returns cache statistics.
	Metrics() *Metrics
}

// Metrics holds cache performance statistics.
type Metrics struct {
	Hits        uint64
	Misses      uint64
	KeysAdded   uint64
	KeysEvicted uint64
}

// HitRate returns the cache hit rate (0.0 to 1.0).
func (m *Metrics) HitRate() float64 {
	total := m.Hits + m.Misses
	if total == 0 {
		return 0.0
	}
	return float64(m.Hits) / float64(total)
}
