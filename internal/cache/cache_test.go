package cache_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/albapepper/scoracle-matchup/internal/cache"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestCache_TTL(t *testing.T) {
	ctx := context.Background()
	clk := &clock{t: time.Unix(1_700_000_000, 0)}
	c := cache.New(true, 10).WithClock(clk.now)

	etag := c.Set(ctx, "k", []byte(`{"a":1}`), time.Minute)

	data, gotTag, ok := c.Get(ctx, "k")
	if !ok || string(data) != `{"a":1}` || gotTag != etag {
		t.Fatalf("Get = %q %q %v", data, gotTag, ok)
	}

	clk.t = clk.t.Add(2 * time.Minute)
	if _, _, ok := c.Get(ctx, "k"); ok {
		t.Error("expired entry returned")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not dropped on read, Len = %d", c.Len())
	}
}

func TestCache_LRUEviction(t *testing.T) {
	ctx := context.Background()
	c := cache.New(true, 2)

	c.Set(ctx, "a", []byte("1"), time.Minute)
	c.Set(ctx, "b", []byte("2"), time.Minute)
	c.Get(ctx, "a") // a is now most recent
	c.Set(ctx, "c", []byte("3"), time.Minute)

	if _, _, ok := c.Get(ctx, "b"); ok {
		t.Error("least recently used entry should have been evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, _, ok := c.Get(ctx, k); !ok {
			t.Errorf("%s missing", k)
		}
	}

	c.Set(ctx, "a", []byte("updated"), time.Minute)
	if c.Len() != 2 {
		t.Errorf("overwrite grew the cache to %d", c.Len())
	}
}

func TestCache_EvictAndPurge(t *testing.T) {
	ctx := context.Background()
	clk := &clock{t: time.Unix(1_700_000_000, 0)}
	c := cache.New(true, 0).WithClock(clk.now)

	c.Set(ctx, "short", []byte("1"), time.Second)
	c.Set(ctx, "long", []byte("2"), time.Hour)
	clk.t = clk.t.Add(time.Minute)

	if n := c.Evict(); n != 1 {
		t.Errorf("Evict removed %d, want 1", n)
	}
	stats := c.Stats()
	if stats["active_keys"] != 1 || stats["backend"] != "memory" {
		t.Errorf("Stats = %v", stats)
	}

	if err := c.Purge(ctx); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 0 {
		t.Errorf("Len after Purge = %d", c.Len())
	}
}

func TestCache_Disabled(t *testing.T) {
	ctx := context.Background()
	c := cache.New(false, 10)
	etag := c.Set(ctx, "k", []byte("x"), time.Minute)
	if etag == "" {
		t.Error("disabled cache should still compute an etag")
	}
	if _, _, ok := c.Get(ctx, "k"); ok {
		t.Error("disabled cache returned a hit")
	}
}

func TestETag(t *testing.T) {
	a := cache.ComputeETag([]byte("payload"))
	if !strings.HasPrefix(a, `W/"`) {
		t.Errorf("etag %q is not weak", a)
	}
	if a != cache.ComputeETag([]byte("payload")) || a == cache.ComputeETag([]byte("other")) {
		t.Error("etag must be a stable content hash")
	}

	tests := []struct {
		header string
		want   bool
	}{
		{"", false},
		{"*", true},
		{a, true},
		{`W/"0000"`, false},
	}
	for _, tt := range tests {
		if got := cache.CheckETagMatch(tt.header, a); got != tt.want {
			t.Errorf("CheckETagMatch(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}
