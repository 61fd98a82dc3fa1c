// Package db provides a pgxpool-based connection pool with prepared statement
// registration, health checking and access to stored dataset documents.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/scoracle-matchup/internal/config"
)

// ErrNotFound is returned when a dataset document does not exist.
var ErrNotFound = errors.New("dataset not found")

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// Document returns the raw JSON stored under name.
func (p *Pool) Document(ctx context.Context, name string) ([]byte, error) {
	var payload []byte
	err := p.QueryRow(ctx, "dataset_document", name).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query dataset %s: %w", name, err)
	}
	return payload, nil
}

// PutDocument stores payload under name. The table trigger raises
// dataset_updated so listening API instances reload.
func (p *Pool) PutDocument(ctx context.Context, name string, payload []byte) error {
	if _, err := p.Exec(ctx, "dataset_upsert", name, payload); err != nil {
		return fmt.Errorf("upsert dataset %s: %w", name, err)
	}
	return nil
}

// UpdatedAt returns when each stored dataset last changed.
func (p *Pool) UpdatedAt(ctx context.Context) (map[string]time.Time, error) {
	rows, err := p.Query(ctx, "dataset_versions")
	if err != nil {
		return nil, fmt.Errorf("query dataset versions: %w", err)
	}
	defer rows.Close()

	out := make(map[string]time.Time)
	for rows.Next() {
		var name string
		var at time.Time
		if err := rows.Scan(&name, &at); err != nil {
			return nil, err
		}
		out[name] = at
	}
	return out, rows.Err()
}

const upsertDatasetSQL = "INSERT INTO " + config.DatasetsTable + " (name, payload, updated_at) VALUES ($1, $2, now()) " +
	"ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()"

// registerPreparedStatements registers all statements the API and CLI use.
// Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Datasets
		"dataset_document": "SELECT payload FROM " + config.DatasetsTable + " WHERE name = $1",
		"dataset_versions": "SELECT name, updated_at FROM " + config.DatasetsTable + " ORDER BY name",
		"dataset_upsert":   upsertDatasetSQL,
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
