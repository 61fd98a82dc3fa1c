package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/albapepper/scoracle-matchup/internal/cache"
)

// refresh runs one scheduled reload and logs its outcome.
func refresh(ctx context.Context, fn func(ctx context.Context) error, logger *slog.Logger) {
	start := time.Now()
	err := fn(ctx)
	dur := time.Since(start).Round(time.Millisecond)
	if err != nil {
		logger.Warn("Scheduled refresh failed", "duration", dur, "error", err)
		return
	}
	logger.Info("Scheduled refresh complete", "duration", dur)
}

func evict(fn func() int, logger *slog.Logger) {
	if n := fn(); n > 0 {
		logger.Info("Evicted expired cache entries", "count", n)
	}
}

// PurgeResponses clears cached responses after the snapshot changes.
// Snapshot-keyed entries would never be served again, but they hold memory
// (or Redis keys) until their TTL runs out.
func PurgeResponses(ctx context.Context, store cache.Store, logger *slog.Logger) error {
	start := time.Now()
	err := store.Purge(ctx)
	dur := time.Since(start).Round(time.Millisecond)
	if err != nil {
		logger.Warn("Failed to purge response cache", "duration", dur, "error", err)
		return err
	}
	logger.Info("Purged response cache", "duration", dur)
	return nil
}
