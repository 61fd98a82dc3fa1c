package cache_test

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/albapepper/scoracle-matchup/internal/cache"
)

// newRedisCache connects to REDIS_URL and skips the test when it is unset.
func newRedisCache(t *testing.T) *cache.RedisCache {
	t.Helper()
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	rc, err := cache.NewRedisCache(context.Background(), url)
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	t.Cleanup(func() { rc.Close() })
	return rc
}

func TestRedisCache_GetSet(t *testing.T) {
	rc := newRedisCache(t)
	ctx := context.Background()
	if err := rc.Purge(ctx); err != nil {
		t.Fatalf("Purge: %v", err)
	}

	if _, _, ok := rc.Get(ctx, "compare:a|b"); ok {
		t.Fatal("expected a miss on an empty cache")
	}

	payload := []byte(`{"teamA":"Aces"}`)
	etag := rc.Set(ctx, "compare:a|b", payload, time.Minute)
	if etag != cache.ComputeETag(payload) {
		t.Errorf("etag = %q, want %q", etag, cache.ComputeETag(payload))
	}

	data, gotTag, ok := rc.Get(ctx, "compare:a|b")
	if !ok || string(data) != string(payload) || gotTag != etag {
		t.Errorf("Get = %q, %q, %v", data, gotTag, ok)
	}
}

func TestRedisCache_PurgeRemovesAllEntries(t *testing.T) {
	rc := newRedisCache(t)
	ctx := context.Background()

	// More keys than one SCAN page.
	for i := 0; i < 250; i++ {
		rc.Set(ctx, "league:"+strconv.Itoa(i), []byte("{}"), time.Minute)
	}
	if err := rc.Purge(ctx); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	for _, key := range []string{"league:0", "league:125", "league:249"} {
		if _, _, ok := rc.Get(ctx, key); ok {
			t.Errorf("%s survived Purge", key)
		}
	}
	if err := rc.Purge(ctx); err != nil {
		t.Errorf("Purge on an empty cache: %v", err)
	}
}

func TestRedisCache_Stats(t *testing.T) {
	rc := newRedisCache(t)
	stats := rc.Stats()
	if stats["backend"] != "redis" || stats["status"] != "connected" {
		t.Errorf("Stats = %v", stats)
	}
}
