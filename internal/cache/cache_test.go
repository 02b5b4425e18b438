package cache

import (
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func openTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"), ttl, zap.NewNop().Sugar())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCacheRoundTrip(t *testing.T) {
	c := openTestCache(t, time.Hour)

	type payload struct {
		Name  string
		Count int
	}

	if err := c.Put("insights", "39.7,-104.9", payload{Name: "roof", Count: 4}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var got payload
	hit, err := c.Get("insights", "39.7,-104.9", &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatal("expected cache hit")
	}
	if got.Name != "roof" || got.Count != 4 {
		t.Errorf("got %+v", got)
	}
}

func TestCacheMiss(t *testing.T) {
	c := openTestCache(t, time.Hour)

	var dest string
	hit, err := c.Get("insights", "nowhere", &dest)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("expected miss for absent key")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := openTestCache(t, time.Nanosecond)

	if err := c.Put("insights", "key", "value"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	var dest string
	hit, err := c.Get("insights", "key", &dest)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("expected expired entry to miss")
	}
}

func TestCacheReplace(t *testing.T) {
	c := openTestCache(t, time.Hour)

	if err := c.Put("p", "k", 1); err != nil {
		t.Fatal(err)
	}
	if err := c.Put("p", "k", 2); err != nil {
		t.Fatal(err)
	}

	var got int
	hit, err := c.Get("p", "k", &got)
	if err != nil || !hit {
		t.Fatalf("Get: hit=%v err=%v", hit, err)
	}
	if got != 2 {
		t.Errorf("got %d, expected replacement value 2", got)
	}
}
