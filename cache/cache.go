package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     interface{}
	createdAt time.Time
}

// Cache is a TTL-bounded memoization cache. Entries past the TTL are
// treated as absent at read time; they are never proactively purged, which
// is fine while the key space stays bounded by the distinct
// product×location pairs actually queried.
type Cache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached value for key if one exists and is fresh.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.createdAt) >= c.ttl {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the current timestamp.
func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, createdAt: c.now()}
}

// GetOrCompute returns the fresh cached value for key, or invokes compute
// and caches its result. Concurrent misses on the same key may each
// compute; the last writer wins, which is acceptable because results for
// the same key inside the TTL window are equivalent.
func (c *Cache) GetOrCompute(key string, compute func() (interface{}, error)) (interface{}, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		return nil, err
	}
	c.Set(key, v)
	return v, nil
}
