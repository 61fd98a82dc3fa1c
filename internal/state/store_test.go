package state_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/albapepper/scoracle-matchup/internal/state"
	"github.com/albapepper/scoracle-matchup/internal/table"
)

func newStore(history int) *state.Store {
	return state.NewStore(state.State{CurrentDataset: "fullseason.json"}, history, nil)
}

func TestSetState_NotifiesFieldThenWildcard(t *testing.T) {
	s := newStore(0)

	var calls []string
	s.Subscribe(state.FieldSearchQuery, func(cur, prev state.State) {
		calls = append(calls, "search:"+prev.SearchQuery+"->"+cur.SearchQuery)
	})
	s.Subscribe(state.FieldSort, func(cur, prev state.State) {
		calls = append(calls, "sort")
	})
	s.Subscribe(state.Wildcard, func(cur, prev state.State) {
		calls = append(calls, "*")
	})

	s.SetState(state.Patch{SearchQuery: state.Ptr("aces")})

	want := []string{"search:->aces", "*"}
	if strings.Join(calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", calls, want)
	}
	if got := s.Get().SearchQuery; got != "aces" {
		t.Errorf("SearchQuery = %q", got)
	}
	if got := s.Get().CurrentDataset; got != "fullseason.json" {
		t.Errorf("untouched field changed: %q", got)
	}
}

func TestUnsubscribe(t *testing.T) {
	s := newStore(0)

	n := 0
	unsub := s.Subscribe(state.FieldLoading, func(cur, prev state.State) { n++ })
	s.SetState(state.Patch{Loading: state.Ptr(true)})
	unsub()
	unsub()
	s.SetState(state.Patch{Loading: state.Ptr(false)})

	if n != 1 {
		t.Errorf("listener called %d times, want 1", n)
	}
}

func TestHistory_BoundedDropOldest(t *testing.T) {
	s := newStore(3)

	for _, q := range []string{"a", "b", "c", "d", "e"} {
		s.SetState(state.Patch{SearchQuery: state.Ptr(q)})
	}
	if got := s.HistoryLen(); got != 3 {
		t.Fatalf("HistoryLen = %d, want 3", got)
	}

	var seen []string
	for s.Undo() {
		seen = append(seen, s.Get().SearchQuery)
	}
	if strings.Join(seen, ",") != "d,c,b" {
		t.Errorf("undo sequence = %v, want [d c b]", seen)
	}
}

func TestUndo_NotifiesWildcardOnly(t *testing.T) {
	s := newStore(0)
	s.SetState(state.Patch{Sort: &table.SortConfig{Column: "PTS", Direction: table.Desc}})

	var field, wildcard int
	s.Subscribe(state.FieldSort, func(cur, prev state.State) { field++ })
	s.Subscribe(state.Wildcard, func(cur, prev state.State) {
		wildcard++
		if cur.Sort.Column != "" || prev.Sort.Column != "PTS" {
			t.Errorf("undo delivered cur=%+v prev=%+v", cur.Sort, prev.Sort)
		}
	})

	if !s.Undo() {
		t.Fatal("Undo reported no history")
	}
	if field != 0 || wildcard != 1 {
		t.Errorf("field=%d wildcard=%d, want 0/1", field, wildcard)
	}
	if s.Undo() {
		t.Error("second Undo should report empty history")
	}
}

func TestReset(t *testing.T) {
	s := newStore(0)
	s.SetState(state.Patch{
		CurrentDataset: state.Ptr("lastfive.json"),
		SelectedTeams:  &state.Selection{TeamA: "Aces", TeamB: "Sky"},
	})

	s.Reset()

	got := s.Get()
	if got.CurrentDataset != "fullseason.json" || got.SelectedTeams.TeamA != "" {
		t.Errorf("Reset state = %+v", got)
	}
	if s.HistoryLen() != 0 {
		t.Errorf("HistoryLen = %d after Reset", s.HistoryLen())
	}
}

func TestListenerPanicIsRecovered(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	s := state.NewStore(state.State{}, 0, logger)

	after := false
	s.Subscribe(state.FieldError, func(cur, prev state.State) { panic("boom") })
	s.Subscribe(state.FieldError, func(cur, prev state.State) { after = true })

	s.SetState(state.Patch{Err: state.Ptr("load failed")})

	if !after {
		t.Error("a panicking listener must not stop later listeners")
	}
	if !strings.Contains(buf.String(), "State listener panicked") {
		t.Errorf("panic was not logged: %q", buf.String())
	}
}

func TestUpdate_SkipsHistory(t *testing.T) {
	s := newStore(0)

	var wildcard int
	s.Subscribe(state.Wildcard, func(cur, prev state.State) { wildcard++ })

	s.SetState(state.Patch{SearchQuery: state.Ptr("aces")})
	s.Update(state.Patch{Loading: state.Ptr(true)})
	s.Update(state.Patch{Loading: state.Ptr(false), Err: state.Ptr("boom")})

	if wildcard != 3 {
		t.Errorf("wildcard calls = %d, want 3", wildcard)
	}
	if s.HistoryLen() != 1 {
		t.Fatalf("HistoryLen = %d, want 1", s.HistoryLen())
	}
	if !s.Undo() {
		t.Fatal("Undo reported no history")
	}
	if got := s.Get(); got.SearchQuery != "" || got.Err != "" {
		t.Errorf("after undo = %+v", got)
	}
}

func TestVersion_IncreasesOnEveryChange(t *testing.T) {
	s := newStore(0)

	var seen []uint64
	s.Subscribe(state.Wildcard, func(cur, prev state.State) {
		seen = append(seen, cur.Version)
	})

	s.SetState(state.Patch{SearchQuery: state.Ptr("aces")})
	s.Update(state.Patch{Loading: state.Ptr(true)})
	s.Undo()
	s.Reset()

	want := []uint64{1, 2, 3, 4}
	if len(seen) != len(want) {
		t.Fatalf("versions = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("versions = %v, want %v", seen, want)
			break
		}
	}
	if got := s.Get().Version; got != 4 {
		t.Errorf("Get().Version = %d, want 4", got)
	}
}
