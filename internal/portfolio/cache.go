package portfolio

import (
	"context"
	"sync"
	"time"
)

// Cache memoizes the most recent analysis in a single slot for a bounded time
// window. This is a debounce in front of the feed, not a general cache: no
// per-key eviction, no background refresh.
//
// Concurrency policy: the mutex is held across a recompute, so concurrent
// requests arriving during one serialize on the single in-flight computation
// and all observe the freshly swapped result. The slot is only replaced after
// the computation fully succeeds, never half-updated.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	compute func(ctx context.Context) (*Analysis, error)

	cached    *Analysis
	fetchedAt time.Time
}

func NewCache(ttl time.Duration, compute func(ctx context.Context) (*Analysis, error)) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		compute: compute,
	}
}

// Get returns the cached analysis, recomputing synchronously when the slot is
// empty or older than the TTL. A failed recompute leaves the previous slot
// untouched and returns the error.
func (c *Cache) Get(ctx context.Context) (*Analysis, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && c.now().Sub(c.fetchedAt) <= c.ttl {
		return c.cached, nil
	}

	analysis, err := c.compute(ctx)
	if err != nil {
		return nil, err
	}
	c.cached = analysis
	c.fetchedAt = c.now()
	return c.cached, nil
}
