package memorycache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/asakaida/troschema/pkg/cache"
)

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// Cache is an LRU cache with TTL, bounded by entry count.
type Cache[V any] struct {
	mu sync.Mutex

	items     map[string]*list.Element
	evictList *list.List // front = most recent

	maxEntries int
	ttl        time.Duration
	now        func() time.Time

	metrics cache.Metrics
}

// Config holds configuration for the memory cache.
type Config struct {
	// MaxEntries bounds the number of cached values; least recently used
	// values are evicted first. Zero means unbounded.
	MaxEntries int

	// DefaultTTL applies when Set is called with a zero TTL.
	DefaultTTL time.Duration
}

var _ cache.Cache[string] = (*Cache[string])(nil)

// New creates a new memory cache with the given configuration.
func New[V any](config Config) *Cache[V] {
	return &Cache[V]{
		items:      make(map[string]*list.Element),
		evictList:  list.New(),
		maxEntries: config.MaxEntries,
		ttl:        config.DefaultTTL,
		now:        time.Now,
	}
}

// Get retrieves a value from cache.
func (c *Cache[V]) Get(ctx context.Context, key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.items[key]
	if !ok {
		c.metrics.Misses++
		return zero, false
	}

	ent := elem.Value.(*entry[V])
	if !ent.expiresAt.IsZero() && c.now().After(ent.expiresAt) {
		c.removeElement(elem)
		c.metrics.Misses++
		return zero, false
	}

	c.evictList.MoveToFront(elem)
	c.metrics.Hits++
	return ent.value, true
}

// Set stores a value in cache with the specified TTL.
func (c *Cache[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl == 0 {
		ttl = c.ttl
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.now().Add(ttl)
	}

	if elem, ok := c.items[key]; ok {
		ent := elem.Value.(*entry[V])
		ent.value = value
		ent.expiresAt = expiresAt
		c.evictList.MoveToFront(elem)
		return nil
	}

	c.items[key] = c.evictList.PushFront(&entry[V]{key: key, value: value, expiresAt: expiresAt})
	c.metrics.KeysAdded++

	for c.maxEntries > 0 && c.evictList.Len() > c.maxEntries {
		c.removeElement(c.evictList.Back())
		c.metrics.KeysEvicted++
	}

	return nil
}

// Delete removes a value from cache.
func (c *Cache[V]) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
	return nil
}

// Clear removes all entries from cache.
func (c *Cache[V]) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.evictList.Init()
	return nil
}

// Metrics returns a snapshot of cache statistics.
func (c *Cache[V]) Metrics() *cache.Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.metrics
	return &m
}

// Len returns the current number of items in cache.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

// removeElement must be called with lock held.
func (c *Cache[V]) removeElement(elem *list.Element) {
	c.evictList.Remove(elem)
	delete(c.items, elem.Value.(*entry[V]).key)
}
