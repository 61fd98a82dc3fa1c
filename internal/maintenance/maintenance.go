// Package maintenance runs periodic background tasks as Go tickers.
// The API is a persistent, long-running service (required for LISTEN/NOTIFY),
// so scheduled data refreshes and cache housekeeping are driven from here.
package maintenance

import (
	"context"
	"log/slog"
	"time"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	RefreshInterval time.Duration // Reload datasets from the source
	EvictInterval   time.Duration // Drop expired response-cache entries
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		RefreshInterval: 15 * time.Minute,
		EvictInterval:   1 * time.Minute,
	}
}

// Tasks are the operations the tickers drive. Nil tasks are skipped.
type Tasks struct {
	Refresh func(ctx context.Context) error
	Evict   func() int
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, cfg Config, tasks Tasks, logger *slog.Logger) {
	logger.Info("Maintenance tickers started",
		"refresh", cfg.RefreshInterval,
		"evict", cfg.EvictInterval)

	tickers := make([]*time.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	// Refresh: reload every dataset under a new snapshot id
	if cfg.RefreshInterval > 0 && tasks.Refresh != nil {
		t := time.NewTicker(cfg.RefreshInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, "refresh", func() { refresh(ctx, tasks.Refresh, logger) })
	}

	// Evict: purge expired entries so the LRU holds live responses only
	if cfg.EvictInterval > 0 && tasks.Evict != nil {
		t := time.NewTicker(cfg.EvictInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, "evict", func() { evict(tasks.Evict, logger) })
	}

	<-ctx.Done()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, name string, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}
