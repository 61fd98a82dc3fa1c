package stream

import (
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/albapepper/scoracle-matchup/internal/state"
)

func newTestClient(h *Hub, id string) *Client {
	c := &Client{ID: id, send: make(chan []byte, 16), hub: h}
	h.Register(c)
	return c
}

func drainEvents(t *testing.T, c *Client) []Event {
	t.Helper()
	var events []Event
	for {
		select {
		case msg := <-c.send:
			var ev Event
			if err := json.Unmarshal(msg, &ev); err != nil {
				t.Fatalf("decode event: %v", err)
			}
			events = append(events, ev)
		default:
			return events
		}
	}
}

func TestHub_SkipsSupersededStates(t *testing.T) {
	store := state.NewStore(state.State{}, 10, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h := NewHub(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer h.Close()
	c := newTestClient(h, "c1")

	h.publish(state.State{SearchQuery: "new", Version: 2}, state.State{})
	h.publish(state.State{SearchQuery: "old", Version: 1}, state.State{})
	h.publish(state.State{SearchQuery: "newest", Version: 3}, state.State{})

	events := drainEvents(t, c)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].SearchQuery != "new" || events[1].SearchQuery != "newest" {
		t.Errorf("events = %q, %q", events[0].SearchQuery, events[1].SearchQuery)
	}
}

func TestHub_ConcurrentChangesArriveInVersionOrder(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := state.NewStore(state.State{}, 10, logger)
	h := NewHub(store, logger)
	defer h.Close()
	c := &Client{ID: "c1", send: make(chan []byte, 256), hub: h}
	h.Register(c)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.SetState(state.Patch{SearchQuery: state.Ptr(string(rune('a' + i%26)))})
		}(i)
	}
	wg.Wait()

	events := drainEvents(t, c)
	if len(events) == 0 {
		t.Fatal("no events")
	}
	for i := 1; i < len(events); i++ {
		if events[i].Version <= events[i-1].Version {
			t.Fatalf("event %d version %d after %d", i, events[i].Version, events[i-1].Version)
		}
	}
	if last := events[len(events)-1]; last.Version != store.Get().Version {
		t.Errorf("last event version = %d, want %d", last.Version, store.Get().Version)
	}
}
