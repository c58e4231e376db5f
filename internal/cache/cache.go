package cache

import (
	"sync"
	"time"
)

// Cache is a keyed cache with per-entry TTL. It is injected wherever an
// aggregated projection is served, so instances stay testable and nothing
// leans on process-wide state.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Delete(key string)
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

type entry struct {
	value     any
	expiresAt time.Time
}

func NewMemory() Cache {
	return &memoryCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// NewMemoryWithClock is used by tests that need control over expiry.
func NewMemoryWithClock(now func() time.Time) Cache {
	return &memoryCache{
		entries: make(map[string]entry),
		now:     now,
	}
}

func (c *memoryCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *memoryCache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
}

func (c *memoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
