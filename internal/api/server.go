package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/albapepper/scoracle-matchup/internal/api/handler"
	"github.com/albapepper/scoracle-matchup/internal/api/stream"
	"github.com/albapepper/scoracle-matchup/internal/cache"
	"github.com/albapepper/scoracle-matchup/internal/config"
	"github.com/albapepper/scoracle-matchup/internal/dataset"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
// db may be nil; /health/db is only mounted when it is set.
func NewRouter(svc *dataset.Service, appCache cache.Store, db handler.Pinger, hub *stream.Hub, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(LoggingMiddleware(logger))
	r.Use(TimingMiddleware)

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag", "Content-Disposition"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(svc, appCache, db, cfg, logger)

	// State stream stays outside the gzip group so the upgrade can hijack
	// the raw connection.
	if hub != nil {
		r.Get("/ws", hub.ServeWS)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Compress(5)) // gzip

		// Root
		r.Get("/", h.Root)

		// Health checks
		r.Route("/health", func(r chi.Router) {
			r.Get("/", h.HealthCheck)
			r.Get("/cache", h.HealthCheckCache)
			if h.HasDB() {
				r.Get("/db", h.HealthCheckDB)
			}
		})

		// Swagger UI
		r.Get("/docs/*", httpSwagger.Handler(
			httpSwagger.URL("/docs/doc.json"),
		))

		// API v1 routes
		r.Route("/api/v1", func(r chi.Router) {
			// Session state
			r.Get("/state", h.GetState)
			r.Patch("/state", h.PatchState)
			r.Post("/state/undo", h.UndoState)
			r.Post("/state/reload", h.ReloadData)

			// Table
			r.Get("/table", h.GetTable)
			r.Get("/table/export.csv", h.ExportCSV)
			r.Get("/charts/{kind}", h.GetChart)

			// Teams
			r.Get("/teams", h.GetTeams)
			r.Get("/teams/{name}/profile", h.GetTeamProfile)
			r.Get("/league", h.GetLeague)

			// Comparison
			r.Get("/compare", h.Compare)
			r.Get("/matchup", h.Matchup)
		})
	})

	return r
}
