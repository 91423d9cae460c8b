package cache

import (
	"sync"
	"time"

	"profilemcp/metrics"
)

// Snapshot is the cached rendering of one source.
type Snapshot struct {
	Text     string
	Markdown string
}

type entry struct {
	snapshot  Snapshot
	fetchedAt time.Time
}

// Cache is a pure TTL cache keyed by source name. The key set is tiny and
// fixed, so there is no size bound or LRU; entries are superseded on
// refresh and treated as absent once stale.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached snapshot for name if it exists and has not
// expired.
func (c *Cache) Get(name string) (Snapshot, bool) {
	c.mu.RLock()
	e, ok := c.entries[name]
	c.mu.RUnlock()

	if !ok || c.now().Sub(e.fetchedAt) >= c.ttl {
		metrics.CacheMissesTotal.WithLabelValues(name).Inc()
		return Snapshot{}, false
	}
	metrics.CacheHitsTotal.WithLabelValues(name).Inc()
	return e.snapshot, true
}

// Put overwrites any existing entry for name, stamping the current time.
// Concurrent writers for the same name are last-writer-wins.
func (c *Cache) Put(name string, snapshot Snapshot) {
	c.mu.Lock()
	c.entries[name] = entry{snapshot: snapshot, fetchedAt: c.now()}
	c.mu.Unlock()
}

// Invalidate drops the entry for name, forcing a refetch next time.
func (c *Cache) Invalidate(name string) {
	c.mu.Lock()
	delete(c.entries, name)
	c.mu.Unlock()
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
