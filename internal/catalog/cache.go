// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"sync"
	"time"

	"github.com/pdiddy/allocations-xref/pkg/types"
)

// DefaultCacheTTL is how long a fetched page stays servable.
const DefaultCacheTTL = 5 * time.Minute

type cacheEntry struct {
	page      types.ProjectPage
	fetchedAt time.Time
}

// PageCache maps page numbers to fetched pages. Entries older than the TTL
// are never served: Get evicts them in place and Sweep drops them in bulk.
type PageCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[int]cacheEntry
}

// NewPageCache creates a cache with the given TTL (DefaultCacheTTL when
// ttl <= 0). A nil clock means time.Now.
func NewPageCache(ttl time.Duration, clock func() time.Time) *PageCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if clock == nil {
		clock = time.Now
	}
	return &PageCache{ttl: ttl, now: clock, entries: make(map[int]cacheEntry)}
}

// TTL returns the configured time-to-live.
func (c *PageCache) TTL() time.Duration { return c.ttl }

// Get returns the cached page and "hit" on a fresh hit. Otherwise the
// second result reports why the lookup missed: "miss" or "expired".
func (c *PageCache) Get(page int) (types.ProjectPage, string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[page]
	if !ok {
		return types.ProjectPage{}, "miss"
	}
	if c.now().Sub(e.fetchedAt) > c.ttl {
		delete(c.entries, page)
		return types.ProjectPage{}, "expired"
	}
	return e.page, "hit"
}

// Put stores a page stamped with the current time, replacing any older entry.
func (c *PageCache) Put(page int, p types.ProjectPage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[page] = cacheEntry{page: p, fetchedAt: c.now()}
}

// Sweep removes every expired entry and returns how many were dropped.
func (c *PageCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	dropped := 0
	for k, e := range c.entries {
		if now.Sub(e.fetchedAt) > c.ttl {
			delete(c.entries, k)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of entries, expired or not.
func (c *PageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
