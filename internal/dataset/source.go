// Package dataset loads the three JSON documents behind the dashboard (full
// season, last five games, team metadata) from disk, HTTP or Postgres,
// decodes them tolerantly and publishes the result to the state store.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/albapepper/scoracle-matchup/internal/cache"
	"github.com/albapepper/scoracle-matchup/internal/config"
)

var (
	// ErrCircuitOpen is returned while a URL's circuit breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker open")
	// ErrClientStatus wraps 4xx responses, which are never retried.
	ErrClientStatus = errors.New("client error")
	// ErrBodyTooLarge is returned when a response exceeds FETCH_MAX_BYTES.
	// It is not retried.
	ErrBodyTooLarge = errors.New("response body too large")
	// ErrEmptyDataset is returned when a table document holds no rows.
	ErrEmptyDataset = errors.New("invalid or empty dataset received")
)

// Source fetches a raw JSON document by name (e.g. "fullseason.json").
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
	Kind() string
}

// --------------------------------------------------------------------------
// File source
// --------------------------------------------------------------------------

// FileSource reads documents from a local directory.
type FileSource struct {
	dir string
}

// NewFileSource creates a source rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Kind identifies the source in logs and health output.
func (s *FileSource) Kind() string { return "file" }

// Fetch reads dir/name. Names may not escape the directory.
func (s *FileSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean := filepath.Clean(name)
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return nil, fmt.Errorf("invalid dataset name %q", name)
	}
	data, err := os.ReadFile(filepath.Join(s.dir, clean))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// --------------------------------------------------------------------------
// Postgres source
// --------------------------------------------------------------------------

// DocumentStore is satisfied by *db.Pool.
type DocumentStore interface {
	Document(ctx context.Context, name string) ([]byte, error)
}

// PostgresSource serves documents stored in the datasets table. The JSON is
// passed through as stored.
type PostgresSource struct {
	store DocumentStore
}

// NewPostgresSource creates a source backed by store.
func NewPostgresSource(store DocumentStore) *PostgresSource {
	return &PostgresSource{store: store}
}

// Kind identifies the source in logs and health output.
func (s *PostgresSource) Kind() string { return "postgres" }

// Fetch returns the stored document.
func (s *PostgresSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	return s.store.Document(ctx, name)
}

// --------------------------------------------------------------------------
// Source selection
// --------------------------------------------------------------------------

// NewSource builds the source named by cfg.DataSource. docs is required for
// the Postgres source and ignored otherwise; bodies caches HTTP responses.
func NewSource(cfg *config.Config, docs DocumentStore, bodies cache.Store, logger *slog.Logger) (Source, error) {
	switch cfg.DataSource {
	case config.SourceFile:
		return NewFileSource(cfg.DataDir), nil
	case config.SourceHTTP:
		return NewHTTPSource(cfg, bodies, logger), nil
	case config.SourcePostgres:
		if docs == nil {
			return nil, fmt.Errorf("postgres source needs a database connection")
		}
		return NewPostgresSource(docs), nil
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.DataSource)
	}
}
