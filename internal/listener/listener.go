// Package listener provides a Postgres LISTEN/NOTIFY consumer for dataset
// updates. It holds a dedicated pgx connection (not from the pool) listening
// on the `dataset_updated` channel.
//
// When a row in the datasets table changes, the Postgres trigger fires
// pg_notify and this consumer asks the API to reload its snapshot.
package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/albapepper/scoracle-matchup/internal/config"
)

const (
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// UpdateEvent is the JSON payload from pg_notify('dataset_updated', ...).
type UpdateEvent struct {
	Name      string `json:"name"`
	Timestamp int64  `json:"ts"`
}

// Handler reacts to one update event.
type Handler func(ctx context.Context, event UpdateEvent)

// Start opens a dedicated connection and listens on the dataset_updated
// channel. It reconnects automatically on connection loss. Blocks until ctx
// is cancelled. Intended to be called with `go`.
func Start(ctx context.Context, dbURL string, handle Handler, logger *slog.Logger) {
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, handle, logger)
		if ctx.Err() != nil {
			logger.Info("Dataset listener stopped (context cancelled)")
			return
		}

		logger.Error("Dataset listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled.
func listenLoop(ctx context.Context, dbURL string, handle Handler, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	_, err = conn.Exec(ctx, "LISTEN "+config.UpdateChannel)
	if err != nil {
		return fmt.Errorf("LISTEN %s: %w", config.UpdateChannel, err)
	}
	logger.Info("Dataset listener connected", "channel", config.UpdateChannel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}

		event, err := ParseEvent(notification.Payload)
		if err != nil {
			logger.Warn("Failed to parse dataset event",
				"payload", notification.Payload, "error", err)
			continue
		}

		logger.Info("Dataset update received", "dataset", event.Name, "ts", event.Timestamp)

		// Process asynchronously to avoid blocking the listener
		go handle(ctx, event)
	}
}

// ParseEvent decodes a notification payload. A bare dataset name is accepted
// as well as the JSON object the trigger sends.
func ParseEvent(payload string) (UpdateEvent, error) {
	var event UpdateEvent
	if len(payload) > 0 && payload[0] == '{' {
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			return UpdateEvent{}, err
		}
	} else {
		event.Name = payload
	}
	if event.Name == "" {
		return UpdateEvent{}, fmt.Errorf("event has no dataset name")
	}
	return event, nil
}
