package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/albapepper/scoracle-matchup/internal/compare"
	"github.com/albapepper/scoracle-matchup/internal/state"
	"github.com/albapepper/scoracle-matchup/internal/stats"
)

// reloadTimeout bounds reloads triggered by state changes, which carry no
// request context.
const reloadTimeout = 30 * time.Second

// Service keeps the state store in sync with the data source: switching the
// current dataset reloads the table, and Refresh reloads everything under a
// new snapshot id.
type Service struct {
	loader *Loader
	store  *state.Store
	logger *slog.Logger

	mu          sync.Mutex // serializes reloads
	unsubscribe func()
	last        LoadResult
}

// NewService wires loader to store.
func NewService(loader *Loader, store *state.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{loader: loader, store: store, logger: logger}
	s.unsubscribe = store.Subscribe(state.FieldCurrentDataset, s.onDatasetChange)
	return s
}

// Close detaches the service from the store.
func (s *Service) Close() {
	s.unsubscribe()
}

// Loader returns the underlying loader.
func (s *Service) Loader() *Loader { return s.loader }

// Store returns the state store.
func (s *Service) Store() *state.Store { return s.store }

// LastLoad returns the result of the most recent merged load.
func (s *Service) LastLoad() LoadResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Service) onDatasetChange(cur, prev state.State) {
	if cur.CurrentDataset == prev.CurrentDataset {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()
	if err := s.ReloadTable(ctx); err != nil {
		s.logger.Warn("Dataset switch failed", "dataset", cur.CurrentDataset, "error", err)
	}
}

// ReloadTable loads the current dataset into the table. On failure the table
// is cleared and the error recorded in state.
func (s *Service) ReloadTable(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := s.store.Get().CurrentDataset
	s.store.Update(state.Patch{Loading: state.Ptr(true), Err: state.Ptr("")})

	rows, err := s.loader.LoadTable(ctx, name)
	if err != nil {
		s.store.Update(state.Patch{
			Loading: state.Ptr(false),
			Err:     state.Ptr(err.Error()),
			Data:    state.Ptr([]stats.BoxStats{}),
		})
		return err
	}
	s.store.Update(state.Patch{Data: &rows, Loading: state.Ptr(false)})
	return nil
}

// Refresh reloads the table and the merged view concurrently and stamps a
// new snapshot id. A merged-view failure is not an error: comparisons fall
// back to the basic path.
func (s *Service) Refresh(ctx context.Context) (LoadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := s.store.Get().CurrentDataset
	s.store.Update(state.Patch{Loading: state.Ptr(true), Err: state.Ptr("")})

	var rows []stats.BoxStats
	var tableErr error
	var res LoadResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, tableErr = s.loader.LoadTable(gctx, name)
		return nil
	})
	g.Go(func() error {
		res = s.loader.LoadMerged(gctx)
		return nil
	})
	g.Wait()

	s.last = res
	snapshotID := uuid.NewString()
	patch := state.Patch{
		Merged:     &res.Merged,
		League:     &res.League,
		Loading:    state.Ptr(false),
		SnapshotID: &snapshotID,
	}
	if tableErr != nil {
		patch.Data = state.Ptr([]stats.BoxStats{})
		patch.Err = state.Ptr(tableErr.Error())
	} else {
		patch.Data = &rows
	}
	s.store.Update(patch)

	s.logger.Info("Data refreshed",
		"snapshot", snapshotID, "dataset", name, "rows", len(rows), "summary", res.Summary())
	if tableErr != nil {
		return res, fmt.Errorf("refresh table: %w", tableErr)
	}
	return res, nil
}

// resetter is implemented by sources that hold breaker or body-cache state.
type resetter interface {
	Reset(ctx context.Context)
}

// Reload is an explicit refresh: source-side breakers and cached bodies are
// cleared first so every document is fetched again.
func (s *Service) Reload(ctx context.Context) (LoadResult, error) {
	if r, ok := s.loader.Source().(resetter); ok {
		r.Reset(ctx)
	}
	return s.Refresh(ctx)
}

// Snapshot returns the comparison inputs from the current state and the
// snapshot id they belong to.
func (s *Service) Snapshot() (compare.Snapshot, string) {
	return SnapshotOf(s.store.Get())
}

// SnapshotOf extracts the comparison inputs from st.
func SnapshotOf(st state.State) (compare.Snapshot, string) {
	return compare.Snapshot{
		Merged: st.Merged,
		League: st.League,
		Table:  st.Data,
	}, st.SnapshotID
}
