package argcheck

import (
	"sync"
	"sync/atomic"

	"capstan/internal/schema"
)

// Cache holds compiled validators keyed by schema content hash. Two
// capabilities declaring structurally identical schemas share one compiled
// validator.
//
// The cache is safe for concurrent use. Two goroutines compiling the same
// schema at once both succeed; the second insert wins, which is harmless
// because the validators are interchangeable.
type Cache struct {
	mu      sync.RWMutex
	entries map[uint64]*Validator
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// NewCache creates an empty validator cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[uint64]*Validator)}
}

// Get returns the cached validator for a schema, compiling and caching it
// on first use.
func (c *Cache) Get(s schema.Schema) *Validator {
	hash := s.Hash()

	c.mu.RLock()
	v, ok := c.entries[hash]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return v
	}

	c.misses.Add(1)
	v = Compile(s)

	c.mu.Lock()
	c.entries[hash] = v
	c.mu.Unlock()
	return v
}

// CacheStats describes cache occupancy and traffic.
type CacheStats struct {
	Entries int
	Hits    uint64
	Misses  uint64
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	entries := len(c.entries)
	c.mu.RUnlock()
	return CacheStats{
		Entries: entries,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}
