package orchestrator

import "time"

// resultCache is the run-scoped success-result cache. Entries are keyed by
// task identity (name + input hash) and served until the TTL elapses.
// The cache is unbounded by count; it lives only as long as one Engine,
// so TTL expiry is the only eviction needed.
type resultCache struct {
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	output   any
	cachedAt time.Time
}

func newResultCache(ttl time.Duration) *resultCache {
	return &resultCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// get returns the cached output for key when present and fresh.
func (c *resultCache) get(key string) (any, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.cachedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.output, true
}

// put stores a successful output under key.
func (c *resultCache) put(key string, output any) {
	if c.ttl <= 0 {
		return
	}
	c.entries[key] = cacheEntry{output: output, cachedAt: c.now()}
}
