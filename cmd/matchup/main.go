// Command matchup is the Scoracle matchup CLI. It loads the configured
// datasets and prints ratings, comparisons and table views.
//
// Usage:
//
//	scoracle-matchup compare "Las Vegas Aces" "Seattle Storm"
//	scoracle-matchup matchup "Las Vegas Aces" "Seattle Storm"
//	scoracle-matchup rate "Las Vegas Aces"
//	scoracle-matchup league
//	scoracle-matchup table --dataset lastfive --sort PTS --desc --search aces
//	scoracle-matchup table --csv > wnba_stats.csv
//	scoracle-matchup import --dir ./data
//	scoracle-matchup versions
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/scoracle-matchup/internal/cache"
	"github.com/albapepper/scoracle-matchup/internal/compare"
	"github.com/albapepper/scoracle-matchup/internal/config"
	"github.com/albapepper/scoracle-matchup/internal/dataset"
	"github.com/albapepper/scoracle-matchup/internal/db"
	"github.com/albapepper/scoracle-matchup/internal/state"
	"github.com/albapepper/scoracle-matchup/internal/table"
)

// Logs go to stderr so stdout carries only the JSON or CSV output.
var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:          "scoracle-matchup",
		Short:        "Scoracle team ratings and matchup CLI",
		SilenceUsage: true,
	}

	root.AddCommand(compareCmd())
	root.AddCommand(matchupCmd())
	root.AddCommand(rateCmd())
	root.AddCommand(leagueCmd())
	root.AddCommand(tableCmd())
	root.AddCommand(importCmd())
	root.AddCommand(versionsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// Analysis commands
// --------------------------------------------------------------------------

func compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare TEAM_A TEAM_B",
		Short: "Compare two teams head to head",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, b, err := teamPair(args)
			if err != nil {
				return err
			}
			return runLoaded("", func(ctx context.Context, snap compare.Snapshot, _ *state.Store) error {
				return printJSON(compare.NewEngine().Compare(snap, a, b))
			})
		},
	}
}

func matchupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "matchup TEAM_A TEAM_B",
		Short: "Full matchup view: comparison, stat edges, verdict, x-factors, radar",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, b, err := teamPair(args)
			if err != nil {
				return err
			}
			return runLoaded("", func(ctx context.Context, snap compare.Snapshot, _ *state.Store) error {
				return printJSON(compare.NewEngine().Matchup(snap, a, b))
			})
		},
	}
}

func rateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rate TEAM",
		Short: "Rate a single team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			return runLoaded("", func(ctx context.Context, snap compare.Snapshot, _ *state.Store) error {
				engine := compare.NewEngine()
				if profile, ok := engine.Profile(snap, name); ok {
					return printJSON(map[string]interface{}{"team": name, "enhanced": true, "profile": profile})
				}
				if profile, ok := engine.TableProfile(snap, name); ok {
					return printJSON(map[string]interface{}{"team": name, "enhanced": false, "profile": profile})
				}
				return fmt.Errorf("team %q not found", name)
			})
		},
	}
}

func leagueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "league",
		Short: "Print league-wide metric ranges and team ratings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoaded("", func(ctx context.Context, snap compare.Snapshot, _ *state.Store) error {
				engine := compare.NewEngine()
				names := snap.Merged.Names()
				sort.Strings(names)

				ratings := make(map[string]int, len(names))
				for _, name := range names {
					if p, ok := engine.Profile(snap, name); ok {
						ratings[name] = p.OverallRating
					}
				}
				return printJSON(map[string]interface{}{
					"teams":   len(names),
					"league":  snap.League,
					"ratings": ratings,
				})
			})
		},
	}
}

func tableCmd() *cobra.Command {
	var datasetName, sortColumn, search string
	var desc, asCSV bool
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the team table, optionally searched and sorted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := table.SanitizeQuery(search)
			if !table.ValidQuery(query) {
				return fmt.Errorf("search may only contain letters, numbers and spaces")
			}

			return runLoaded(datasetName, func(ctx context.Context, _ compare.Snapshot, store *state.Store) error {
				st := store.Get()
				sortCfg := table.SortConfig{Column: sortColumn, Direction: table.Asc}
				if desc {
					sortCfg.Direction = table.Desc
				}

				rows := table.Sort(table.Filter(st.Data, query), sortCfg)
				if asCSV {
					return table.WriteCSV(os.Stdout, rows, st.CurrentDataset, time.Now())
				}

				headers := table.Headers(st.Data)
				return printJSON(map[string]interface{}{
					"dataset":       st.CurrentDataset,
					"headers":       headers,
					"rows":          rows,
					"count":         len(rows),
					"leagueAverage": table.LeagueAverage(rows, headers),
				})
			})
		},
	}
	cmd.Flags().StringVar(&datasetName, "dataset", "", "Dataset: fullseason or lastfive (default full season)")
	cmd.Flags().StringVar(&sortColumn, "sort", "", "Sort column")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive search over all cells")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "Write CSV instead of JSON")
	return cmd
}

// --------------------------------------------------------------------------
// Database commands
// --------------------------------------------------------------------------

func importCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Validate the dataset files in a directory and store them in Postgres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				if dir == "" {
					dir = cfg.DataDir
				}
				src := dataset.NewFileSource(dir)
				start := time.Now()

				for _, name := range []string{cfg.FullSeasonFile, cfg.LastFiveFile, cfg.TeamsFile} {
					raw, err := src.Fetch(ctx, name)
					if err != nil {
						return err
					}
					count, err := validateDocument(cfg, name, raw)
					if err != nil {
						return err
					}
					if err := pool.PutDocument(ctx, name, raw); err != nil {
						return err
					}
					logger.Info("Imported dataset", "dataset", name, "entries", count, "bytes", len(raw))
				}
				logger.Info("Import finished", "dir", filepath.Clean(dir), "duration", time.Since(start).Round(time.Millisecond))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Directory holding the dataset files (default DATA_DIR)")
	return cmd
}

func versionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "Show when each stored dataset last changed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				versions, err := pool.UpdatedAt(ctx)
				if err != nil {
					return err
				}
				out := make(map[string]string, len(versions))
				for name, at := range versions {
					out[name] = at.UTC().Format(time.RFC3339)
				}
				return printJSON(out)
			})
		},
	}
}

// validateDocument decodes a document the way the loader will and returns
// its entry count. Table documents must not be empty.
func validateDocument(cfg *config.Config, name string, raw []byte) (int, error) {
	if name == cfg.TeamsFile {
		teams, err := dataset.DecodeTeams(raw)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", name, err)
		}
		return len(teams), nil
	}
	rows, err := dataset.DecodeRows(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("%s: %w", name, dataset.ErrEmptyDataset)
	}
	return len(rows), nil
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func teamPair(args []string) (string, string, error) {
	a, b := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
	if a == "" || b == "" {
		return "", "", fmt.Errorf("please select two teams to compare")
	}
	if a == b {
		return "", "", fmt.Errorf("please select two different teams")
	}
	return a, b, nil
}

// resolveDataset accepts a dataset file name or its short form.
func resolveDataset(loader *dataset.Loader, name string) (string, error) {
	if name == "" {
		return loader.Datasets()[0], nil
	}
	for _, candidate := range []string{name, name + ".json"} {
		if loader.ValidDataset(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("unknown dataset %q (want one of %s)", name, strings.Join(loader.Datasets(), ", "))
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// runLoaded loads configuration and every dataset, then calls fn with the
// resulting snapshot and session store.
func runLoaded(datasetName string, fn func(ctx context.Context, snap compare.Snapshot, store *state.Store) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var docs dataset.DocumentStore
	if cfg.UsesDatabase() {
		pool, err := db.New(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()
		docs = pool
	}

	src, err := dataset.NewSource(cfg, docs, cache.New(cfg.CacheEnabled, cfg.CacheMaxSize), logger)
	if err != nil {
		return err
	}
	loader := dataset.NewLoader(src, cfg, logger)
	current, err := resolveDataset(loader, datasetName)
	if err != nil {
		return err
	}

	store := state.NewStore(state.State{CurrentDataset: current}, cfg.MaxHistory, logger)
	svc := dataset.NewService(loader, store, logger)
	defer svc.Close()

	res, err := svc.Refresh(ctx)
	if err != nil {
		return err
	}
	if !res.Enhanced() {
		logger.Warn("Enhanced analytics unavailable, using basic ratings", "error", res.Err)
	}

	snap, _ := svc.Snapshot()
	return fn(ctx, snap, store)
}

// runDB loads configuration and opens the database for fn.
func runDB(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}
