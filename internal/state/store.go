// Package state holds the dashboard session: loaded rows, the selected
// dataset, sort and search settings, the selected matchup and the merged
// analytics snapshot. Changes are published to per-field subscribers.
package state

import (
	"log/slog"
	"sync"

	"github.com/albapepper/scoracle-matchup/internal/stats"
	"github.com/albapepper/scoracle-matchup/internal/table"
)

// Field names a piece of State for subscriptions.
type Field string

const (
	FieldData           Field = "data"
	FieldCurrentDataset Field = "currentDataset"
	FieldSort           Field = "sortConfig"
	FieldSearchQuery    Field = "searchQuery"
	FieldSelectedTeams  Field = "selectedTeams"
	FieldMerged         Field = "mergedData"
	FieldLeague         Field = "leagueStats"
	FieldLoading        Field = "loading"
	FieldError          Field = "error"
	FieldSnapshotID     Field = "snapshotId"

	// Wildcard subscribers see every change.
	Wildcard Field = "*"
)

// DefaultHistory is the undo depth used when none is configured.
const DefaultHistory = 10

// Selection is the pair of teams being compared.
type Selection struct {
	TeamA string `json:"teamA"`
	TeamB string `json:"teamB"`
}

// State is one immutable view of the session. Slices and maps are shared
// between versions and must not be mutated in place.
type State struct {
	Data           []stats.BoxStats  `json:"data"`
	CurrentDataset string            `json:"currentDataset"`
	Sort           table.SortConfig  `json:"sortConfig"`
	SearchQuery    string            `json:"searchQuery"`
	SelectedTeams  Selection         `json:"selectedTeams"`
	Merged         stats.MergedData  `json:"-"`
	League         stats.LeagueStats `json:"-"`
	Loading        bool              `json:"loading"`
	Err            string            `json:"error,omitempty"`
	SnapshotID     string            `json:"snapshotId,omitempty"`
	// Version increases with every change, Undo and Reset included.
	Version uint64 `json:"version"`
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Data           *[]stats.BoxStats  `json:"-"`
	CurrentDataset *string            `json:"currentDataset,omitempty"`
	Sort           *table.SortConfig  `json:"sortConfig,omitempty"`
	SearchQuery    *string            `json:"searchQuery,omitempty"`
	SelectedTeams  *Selection         `json:"selectedTeams,omitempty"`
	Merged         *stats.MergedData  `json:"-"`
	League         *stats.LeagueStats `json:"-"`
	Loading        *bool              `json:"loading,omitempty"`
	Err            *string            `json:"-"`
	SnapshotID     *string            `json:"-"`
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T { return &v }

// Listener receives the new and previous state.
type Listener func(cur, prev State)

type subscription struct {
	id int
	fn Listener
}

// Store is the session state container. It is safe for concurrent use.
// Listeners run synchronously on the goroutine that applied the change, after
// the store lock is released, so they may call back into the store. Changes
// made concurrently from several goroutines can reach a listener out of
// order; listeners that care compare State.Version.
type Store struct {
	logger  *slog.Logger
	initial State

	mu         sync.Mutex
	state      State
	history    []State
	maxHistory int
	subs       map[Field][]subscription
	nextID     int
	version    uint64
}

// NewStore creates a store seeded with initial. maxHistory <= 0 uses
// DefaultHistory.
func NewStore(initial State, maxHistory int, logger *slog.Logger) *Store {
	if maxHistory <= 0 {
		maxHistory = DefaultHistory
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		logger:     logger,
		initial:    initial,
		state:      initial,
		maxHistory: maxHistory,
		subs:       make(map[Field][]subscription),
	}
}

// Subscribe registers fn for changes to field. The returned function removes
// the subscription.
func (s *Store) Subscribe(field Field, fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs[field] = append(s.subs[field], subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			list := s.subs[field]
			for i, sub := range list {
				if sub.id == id {
					s.subs[field] = append(list[:i:i], list[i+1:]...)
					break
				}
			}
		})
	}
}

// Get returns a copy of the current state.
func (s *Store) Get() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetState applies p, records the previous state for Undo and notifies
// subscribers of every field present in p, then wildcard subscribers.
func (s *Store) SetState(p Patch) {
	s.set(p, true)
}

// Update applies and publishes p like SetState but records no undo step.
// Loading flags and reloaded rows go through here so that Undo steps over
// user actions only.
func (s *Store) Update(p Patch) {
	s.set(p, false)
}

func (s *Store) set(p Patch, record bool) {
	s.mu.Lock()
	prev := s.state
	next, fields := apply(prev, p)
	next.Version = s.bump()
	s.state = next
	if record {
		s.history = append(s.history, prev)
		if len(s.history) > s.maxHistory {
			s.history = s.history[len(s.history)-s.maxHistory:]
		}
	}
	s.mu.Unlock()

	for _, f := range fields {
		s.notify(f, next, prev)
	}
	s.notify(Wildcard, next, prev)
}

// Undo restores the most recent previous state. It reports false when there
// is no history.
func (s *Store) Undo() bool {
	s.mu.Lock()
	if len(s.history) == 0 {
		s.mu.Unlock()
		return false
	}
	prev := s.state
	s.state = s.history[len(s.history)-1]
	s.state.Version = s.bump()
	s.history = s.history[:len(s.history)-1]
	cur := s.state
	s.mu.Unlock()

	s.notify(Wildcard, cur, prev)
	return true
}

// Reset restores the initial state and clears the history.
func (s *Store) Reset() {
	s.mu.Lock()
	prev := s.state
	s.state = s.initial
	s.state.Version = s.bump()
	s.history = nil
	cur := s.state
	s.mu.Unlock()

	s.notify(Wildcard, cur, prev)
}

// HistoryLen returns the number of states available to Undo.
func (s *Store) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// bump returns the next version. Callers hold s.mu.
func (s *Store) bump() uint64 {
	s.version++
	return s.version
}

func (s *Store) notify(field Field, cur, prev State) {
	s.mu.Lock()
	list := make([]subscription, len(s.subs[field]))
	copy(list, s.subs[field])
	s.mu.Unlock()

	for _, sub := range list {
		s.call(field, sub.fn, cur, prev)
	}
}

func (s *Store) call(field Field, fn Listener, cur, prev State) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("State listener panicked", "field", string(field), "panic", r)
		}
	}()
	fn(cur, prev)
}

func apply(st State, p Patch) (State, []Field) {
	var fields []Field
	if p.Data != nil {
		st.Data = *p.Data
		fields = append(fields, FieldData)
	}
	if p.CurrentDataset != nil {
		st.CurrentDataset = *p.CurrentDataset
		fields = append(fields, FieldCurrentDataset)
	}
	if p.Sort != nil {
		st.Sort = *p.Sort
		fields = append(fields, FieldSort)
	}
	if p.SearchQuery != nil {
		st.SearchQuery = *p.SearchQuery
		fields = append(fields, FieldSearchQuery)
	}
	if p.SelectedTeams != nil {
		st.SelectedTeams = *p.SelectedTeams
		fields = append(fields, FieldSelectedTeams)
	}
	if p.Merged != nil {
		st.Merged = *p.Merged
		fields = append(fields, FieldMerged)
	}
	if p.League != nil {
		st.League = *p.League
		fields = append(fields, FieldLeague)
	}
	if p.Loading != nil {
		st.Loading = *p.Loading
		fields = append(fields, FieldLoading)
	}
	if p.Err != nil {
		st.Err = *p.Err
		fields = append(fields, FieldError)
	}
	if p.SnapshotID != nil {
		st.SnapshotID = *p.SnapshotID
		fields = append(fields, FieldSnapshotID)
	}
	return st, fields
}
