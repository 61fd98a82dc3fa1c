// Package handler provides HTTP handlers for all API endpoints.
// Handlers read the shared session through the dataset service; comparison
// responses are encoded once per snapshot and served from the cache.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/albapepper/scoracle-matchup/internal/api/respond"
	"github.com/albapepper/scoracle-matchup/internal/cache"
	"github.com/albapepper/scoracle-matchup/internal/compare"
	"github.com/albapepper/scoracle-matchup/internal/config"
	"github.com/albapepper/scoracle-matchup/internal/dataset"
)

// Pinger checks a backing database.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	svc    *dataset.Service
	engine *compare.Engine
	cache  cache.Store
	db     Pinger
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Handler with shared dependencies. db may be nil when the
// data source is not Postgres.
func New(svc *dataset.Service, c cache.Store, db Pinger, cfg *config.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		svc:    svc,
		engine: compare.NewEngine(),
		cache:  c,
		db:     db,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// HasDB reports whether a database health check is available.
func (h *Handler) HasDB() bool { return h.db != nil }

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status, and the active data source.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":       "Scoracle Matchup API",
		"version":    "1.0.0",
		"status":     "running",
		"docs":       "/docs",
		"dataSource": h.svc.Loader().Source().Kind(),
		"datasets":   h.svc.Loader().Datasets(),
		"features": []string{
			"team_ratings",
			"head_to_head_comparison",
			"matchup_radar",
			"heat_map",
			"csv_export",
			"state_stream",
		},
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status, the current snapshot and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	st := h.svc.Store().Get()
	last := h.svc.LastLoad()
	status := "healthy"
	if st.Err != "" || len(st.Data) == 0 {
		status = "degraded"
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":     status,
		"snapshotId": st.SnapshotID,
		"rows":       len(st.Data),
		"enhanced":   last.Enhanced(),
		"summary":    last.Summary(),
		"timestamp":  h.now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity when datasets are served from Postgres.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respond.WriteError(w, http.StatusNotFound, "NO_DATABASE", "No database configured")
		return
	}
	if err := h.db.HealthCheck(r.Context()); err != nil {
		h.logger.Warn("Database health check failed", "error", err)
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": h.now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns response cache statistics.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// serveCached answers from the cache when possible, otherwise builds, encodes
// and stores the response. Keys must include the snapshot they were built from.
func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, key string, build func() interface{}) {
	ctx := r.Context()
	ttl := h.cfg.CacheTTL

	if data, etag, ok := h.cache.Get(ctx, key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	data, err := json.Marshal(build())
	if err != nil {
		h.logger.Error("Failed to encode response", "key", key, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", "Failed to encode response")
		return
	}

	etag := h.cache.Set(ctx, key, data, ttl)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, ttl, false)
}
