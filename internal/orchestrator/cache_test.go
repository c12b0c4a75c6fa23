package orchestrator

import (
	"testing"
	"time"
)

func TestCachePutGet(t *testing.T) {
	c := newResultCache(time.Minute)
	c.put("k", "v")

	got, ok := c.get("k")
	if !ok || got != "v" {
		t.Errorf("get = %v, %v", got, ok)
	}
	if _, ok := c.get("other"); ok {
		t.Error("unknown key should miss")
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	c := newResultCache(time.Second)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.put("k", "v")
	now = now.Add(999 * time.Millisecond)
	if _, ok := c.get("k"); !ok {
		t.Error("entry within TTL should hit")
	}

	now = now.Add(2 * time.Millisecond)
	if _, ok := c.get("k"); ok {
		t.Error("entry past TTL should miss")
	}
}

func TestCacheDisabled(t *testing.T) {
	c := newResultCache(0)
	c.put("k", "v")
	if _, ok := c.get("k"); ok {
		t.Error("TTL <= 0 disables caching")
	}
}
