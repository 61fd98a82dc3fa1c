// Package stream pushes session state changes to websocket clients.
package stream

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/albapepper/scoracle-matchup/internal/state"
	"github.com/albapepper/scoracle-matchup/internal/table"
)

// EventStateChanged is the only event type sent today.
const EventStateChanged = "state_changed"

// Event is one message on the stream. It carries the session summary, not
// the rows; clients refetch the table when Rows or SnapshotID changes.
type Event struct {
	Type           string           `json:"type"`
	Changed        []string         `json:"changed"`
	CurrentDataset string           `json:"currentDataset"`
	Sort           table.SortConfig `json:"sortConfig"`
	SearchQuery    string           `json:"searchQuery"`
	SelectedTeams  state.Selection  `json:"selectedTeams"`
	Loading        bool             `json:"loading"`
	Error          string           `json:"error,omitempty"`
	SnapshotID     string           `json:"snapshotId,omitempty"`
	Rows           int              `json:"rows"`
	Version        uint64           `json:"version"`
	At             time.Time        `json:"at"`
}

// NewEvent summarizes a transition from prev to cur.
func NewEvent(cur, prev state.State) Event {
	return Event{
		Type:           EventStateChanged,
		Changed:        changedFields(cur, prev),
		CurrentDataset: cur.CurrentDataset,
		Sort:           cur.Sort,
		SearchQuery:    cur.SearchQuery,
		SelectedTeams:  cur.SelectedTeams,
		Loading:        cur.Loading,
		Error:          cur.Err,
		SnapshotID:     cur.SnapshotID,
		Rows:           len(cur.Data),
		Version:        cur.Version,
		At:             time.Now().UTC(),
	}
}

// changedFields compares the scalar fields. Data and the merged view are
// compared by identity through the snapshot id and row count.
func changedFields(cur, prev state.State) []string {
	var out []string
	add := func(changed bool, f state.Field) {
		if changed {
			out = append(out, string(f))
		}
	}
	add(len(cur.Data) != len(prev.Data), state.FieldData)
	add(cur.CurrentDataset != prev.CurrentDataset, state.FieldCurrentDataset)
	add(cur.Sort != prev.Sort, state.FieldSort)
	add(cur.SearchQuery != prev.SearchQuery, state.FieldSearchQuery)
	add(cur.SelectedTeams != prev.SelectedTeams, state.FieldSelectedTeams)
	add(cur.Loading != prev.Loading, state.FieldLoading)
	add(cur.Err != prev.Err, state.FieldError)
	add(cur.SnapshotID != prev.SnapshotID, state.FieldSnapshotID)
	return out
}

// Hub fans state events out to connected clients. Slow clients whose send
// buffer is full are dropped.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[string]*Client
	closed  bool

	// publishMu orders publish calls; lastVersion is the newest state sent.
	publishMu   sync.Mutex
	lastVersion uint64

	unsubscribe func()
}

// NewHub creates a hub subscribed to every change in store.
func NewHub(store *state.Store, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Hub{logger: logger, clients: make(map[string]*Client)}
	h.unsubscribe = store.Subscribe(state.Wildcard, h.publish)
	return h
}

// publish broadcasts the transition unless a newer state already went out.
// Changes applied concurrently can reach the hub out of order, and a
// superseded state must not overwrite what clients have.
func (h *Hub) publish(cur, prev state.State) {
	h.publishMu.Lock()
	defer h.publishMu.Unlock()
	if cur.Version != 0 && cur.Version <= h.lastVersion {
		h.logger.Debug("Skipping superseded state", "version", cur.Version, "last", h.lastVersion)
		return
	}
	h.lastVersion = cur.Version
	h.Broadcast(NewEvent(cur, prev))
}

// Register adds a client.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(c.send)
		return
	}
	h.clients[c.ID] = c
	h.logger.Info("Stream client connected", "client", c.ID, "clients", len(h.clients))
}

// Unregister removes a client and closes its send channel. Safe to call more
// than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	delete(h.clients, c.ID)
	close(c.send)
	h.logger.Info("Stream client disconnected", "client", c.ID, "clients", len(h.clients))
}

// Broadcast sends event to every client without blocking.
func (h *Hub) Broadcast(event Event) {
	msg, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to encode stream event", "error", err)
		return
	}

	var slow []*Client
	h.mu.RLock()
	for _, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("Dropping slow stream client", "client", c.ID)
		h.Unregister(c)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close detaches from the store and disconnects every client.
func (h *Hub) Close() {
	h.unsubscribe()
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
	}
	h.closed = true
}
