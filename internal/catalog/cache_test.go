// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/allocations-xref/pkg/types"
)

// fakeClock is a manually advanced clock for TTL tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestPageCacheTTL(t *testing.T) {
	clock := newFakeClock()
	c := NewPageCache(5*time.Minute, clock.Now)
	page := types.ProjectPage{Projects: []types.Project{{ID: 1}}, Pages: 3}

	_, result := c.Get(1)
	assert.Equal(t, "miss", result)

	c.Put(1, page)
	clock.Advance(time.Second)
	got, result := c.Get(1)
	assert.Equal(t, "hit", result)
	assert.Equal(t, page, got)

	clock.Advance(5 * time.Minute)
	_, result = c.Get(1)
	assert.Equal(t, "expired", result)
	assert.Equal(t, 0, c.Len(), "expired entry is evicted in place")
}

func TestPageCacheSweep(t *testing.T) {
	clock := newFakeClock()
	c := NewPageCache(time.Minute, clock.Now)
	c.Put(1, types.ProjectPage{})
	clock.Advance(45 * time.Second)
	c.Put(2, types.ProjectPage{})
	clock.Advance(30 * time.Second)

	assert.Equal(t, 1, c.Sweep())
	assert.Equal(t, 1, c.Len())
	_, result := c.Get(2)
	assert.Equal(t, "hit", result)
}

func TestPageCacheDefaults(t *testing.T) {
	c := NewPageCache(0, nil)
	assert.Equal(t, DefaultCacheTTL, c.TTL())
	c.Put(7, types.ProjectPage{Pages: 1})
	assert.Zero(t, c.Sweep())
	assert.Equal(t, 1, c.Len())
}
