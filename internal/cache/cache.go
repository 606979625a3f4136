// Package cache wraps ristretto for small per-user result caches.
package cache

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Cache is a bounded string-keyed cache where every entry costs 1, so
// maxEntries caps the entry count. Writes are applied asynchronously; call
// Wait when a subsequent Get must observe them.
type Cache[V any] struct {
	store *ristretto.Cache[string, V]
	ttl   time.Duration
}

// New creates a cache holding up to maxEntries values for ttl each. A zero
// ttl keeps entries until evicted or deleted.
func New[V any](maxEntries int64, ttl time.Duration) (*Cache[V], error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("cache: max entries must be positive, got %d", maxEntries)
	}
	store, err := ristretto.NewCache(&ristretto.Config[string, V]{
		NumCounters: maxEntries * 10, // number of keys to track frequency of
		MaxCost:     maxEntries,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return &Cache[V]{store: store, ttl: ttl}, nil
}

func (c *Cache[V]) Get(key string) (V, bool) {
	return c.store.Get(key)
}

// Set stores value under key. It reports false when ristretto drops the write.
func (c *Cache[V]) Set(key string, value V) bool {
	return c.store.SetWithTTL(key, value, 1, c.ttl)
}

func (c *Cache[V]) Del(key string) {
	c.store.Del(key)
}

// Wait blocks until buffered writes are applied.
func (c *Cache[V]) Wait() {
	c.store.Wait()
}

func (c *Cache[V]) Close() {
	c.store.Close()
}
