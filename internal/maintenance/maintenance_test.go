package maintenance_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/albapepper/scoracle-matchup/internal/cache"
	"github.com/albapepper/scoracle-matchup/internal/maintenance"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStartRunsTasks(t *testing.T) {
	var refreshes, evictions atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		maintenance.Start(ctx, maintenance.Config{
			RefreshInterval: 5 * time.Millisecond,
			EvictInterval:   5 * time.Millisecond,
		}, maintenance.Tasks{
			Refresh: func(context.Context) error {
				refreshes.Add(1)
				return errors.New("source down")
			},
			Evict: func() int {
				evictions.Add(1)
				return 1
			},
		}, quietLogger())
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for refreshes.Load() < 2 || evictions.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("refreshes=%d evictions=%d", refreshes.Load(), evictions.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

func TestStartSkipsDisabledTasks(t *testing.T) {
	var calls atomic.Int32
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	maintenance.Start(ctx, maintenance.Config{RefreshInterval: 0, EvictInterval: time.Millisecond},
		maintenance.Tasks{
			Refresh: func(context.Context) error { calls.Add(1); return nil },
		}, quietLogger())

	if calls.Load() != 0 {
		t.Errorf("disabled refresh ran %d times", calls.Load())
	}
}

func TestPurgeResponses(t *testing.T) {
	c := cache.New(true, 10)
	ctx := context.Background()
	c.Set(ctx, "a", []byte("1"), time.Minute)
	c.Set(ctx, "b", []byte("2"), time.Minute)

	if err := maintenance.PurgeResponses(ctx, c, quietLogger()); err != nil {
		t.Fatalf("PurgeResponses: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d after purge, want 0", c.Len())
	}
}
