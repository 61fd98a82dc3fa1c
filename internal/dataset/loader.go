package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/albapepper/scoracle-matchup/internal/config"
	"github.com/albapepper/scoracle-matchup/internal/stats"
)

// Loader turns raw documents from a Source into table rows and the merged
// analytics view.
type Loader struct {
	src    Source
	logger *slog.Logger

	fullSeason string
	lastFive   string
	teams      string
}

// NewLoader creates a loader reading the document names from cfg.
func NewLoader(src Source, cfg *config.Config, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		src:        src,
		logger:     logger,
		fullSeason: cfg.FullSeasonFile,
		lastFive:   cfg.LastFiveFile,
		teams:      cfg.TeamsFile,
	}
}

// Source returns the underlying document source.
func (l *Loader) Source() Source { return l.src }

// Datasets returns the selectable table datasets: full season, then last five.
func (l *Loader) Datasets() []string {
	return []string{l.fullSeason, l.lastFive}
}

// ValidDataset reports whether name is a selectable table dataset.
func (l *Loader) ValidDataset(name string) bool {
	return name == l.fullSeason || name == l.lastFive
}

// Toggle returns the other table dataset.
func (l *Loader) Toggle(current string) string {
	if current == l.fullSeason {
		return l.lastFive
	}
	return l.fullSeason
}

// LoadTable loads one box-score dataset for the table view. An empty document
// is an error.
func (l *Loader) LoadTable(ctx context.Context, name string) ([]stats.BoxStats, error) {
	raw, err := l.src.Fetch(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	rows, err := DecodeRows(raw)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("load %s: %w", name, ErrEmptyDataset)
	}
	return rows, nil
}

// LoadResult is the outcome of LoadMerged.
type LoadResult struct {
	Merged         stats.MergedData
	League         stats.LeagueStats
	FullSeasonRows int
	LastFiveRows   int
	TeamEntries    int
	Duration       time.Duration
	Err            error // set when the merged view fell back to empty
}

// Enhanced reports whether merged analytics are available.
func (r *LoadResult) Enhanced() bool {
	return r.Err == nil && len(r.Merged) > 0
}

// Summary returns a human-readable summary of the load.
func (r *LoadResult) Summary() string {
	errs := 0
	if r.Err != nil {
		errs = 1
	}
	return fmt.Sprintf(
		"merged=%d fullseason_rows=%d lastfive_rows=%d team_entries=%d duration=%s errors=%d",
		len(r.Merged), r.FullSeasonRows, r.LastFiveRows, r.TeamEntries,
		r.Duration.Round(time.Millisecond), errs,
	)
}

// LoadMerged fetches all three documents concurrently and builds the merged
// view and league ranges. Any failure leaves an empty merged view, so every
// comparison takes the basic path; the error is reported in the result.
func (l *Loader) LoadMerged(ctx context.Context) LoadResult {
	start := time.Now()

	var fullSeason, lastFive []stats.BoxStats
	var teams []stats.TeamMeta

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := l.rows(gctx, l.fullSeason)
		fullSeason = rows
		return err
	})
	g.Go(func() error {
		rows, err := l.rows(gctx, l.lastFive)
		lastFive = rows
		return err
	})
	g.Go(func() error {
		raw, err := l.src.Fetch(gctx, l.teams)
		if err != nil {
			return fmt.Errorf("load %s: %w", l.teams, err)
		}
		teams, err = DecodeTeams(raw)
		if err != nil {
			return fmt.Errorf("load %s: %w", l.teams, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		l.logger.Warn("Enhanced comparison data unavailable", "error", err)
		empty := stats.MergedData{}
		return LoadResult{
			Merged:   empty,
			League:   stats.CalculateLeagueStats(empty),
			Duration: time.Since(start),
			Err:      err,
		}
	}

	merged := stats.BuildMerged(fullSeason, lastFive, teams)
	res := LoadResult{
		Merged:         merged,
		League:         stats.CalculateLeagueStats(merged),
		FullSeasonRows: len(fullSeason),
		LastFiveRows:   len(lastFive),
		TeamEntries:    len(teams),
		Duration:       time.Since(start),
	}
	l.logger.Info("Enhanced comparison data loaded", "summary", res.Summary())
	return res
}

func (l *Loader) rows(ctx context.Context, name string) ([]stats.BoxStats, error) {
	raw, err := l.src.Fetch(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	rows, err := DecodeRows(raw)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return rows, nil
}
