// Package cache is the short-TTL result cache keyed by (normalized query,
// limit, min score). Each entry carries its own expiry timestamp; expired
// entries are dropped lazily on read. A rebuild invalidates the whole cache
// because document ids do not survive across index generations.
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/aquadex/aquadex/internal/engine/ranker"
)

// Key identifies one cached search.
type Key struct {
	Query    string
	Limit    int
	MinScore float64
}

type entry struct {
	results []ranker.Result
	expires time.Time
}

// ResultCache is safe for concurrent use.
type ResultCache struct {
	mu      sync.Mutex
	entries map[Key]entry
	ttl     time.Duration
	now     func() time.Time
}

// New creates a ResultCache with the given entry TTL.
func New(ttl time.Duration) *ResultCache {
	return &ResultCache{
		entries: make(map[Key]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *ResultCache) key(query string, limit int, minScore float64) Key {
	return Key{Query: strings.ToLower(query), Limit: limit, MinScore: minScore}
}

// Get returns the cached result list for the query if present and fresh.
func (c *ResultCache) Get(query string, limit int, minScore float64) ([]ranker.Result, bool) {
	k := c.key(query, limit, minScore)
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[k]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expires) {
		delete(c.entries, k)
		return nil, false
	}
	return e.results, true
}

// Set stores a result list with a fresh expiry.
func (c *ResultCache) Set(query string, limit int, minScore float64, results []ranker.Result) {
	k := c.key(query, limit, minScore)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[k] = entry{
		results: results,
		expires: c.now().Add(c.ttl),
	}
}

// Invalidate drops every entry.
func (c *ResultCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]entry)
}

// Len returns the number of stored entries, fresh or not.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// SetClock overrides the time source. Test hook.
func (c *ResultCache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
