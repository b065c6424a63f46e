package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/FleetShift/internal/config"
	"github.com/MikeSquared-Agency/FleetShift/internal/engine"
	"github.com/MikeSquared-Agency/FleetShift/internal/finance"
	"github.com/MikeSquared-Agency/FleetShift/internal/hermes"
	"github.com/MikeSquared-Agency/FleetShift/internal/ranking"
)

// NewRouter wires the analyst API. h and rk may be nil: events are then
// skipped and rankings answer 503.
func NewRouter(s Snapshots, e *engine.Engine, sim *finance.Simulator, rk *ranking.Ranker, rl *Reloader, h hermes.Client, cfg config.ServerConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	if cfg.RateLimitRPM > 0 {
		r.Use(RateLimitMiddleware(cfg.RateLimitRPM))
	}

	metrics := NewMetricsHandler(s, e, logger)
	simulate := NewSimulateHandler(s, sim, h, logger)
	scenarios := NewScenariosHandler(s, sim)
	rankings := NewRankingsHandler(rk)
	data := NewDatasetHandler(s, rl)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/metrics", metrics.Compute)
		r.Get("/occupancy/classify", metrics.ClassifyOccupancy)
		r.Post("/simulate", simulate.Simulate)
		r.Get("/scenarios", scenarios.List)
		r.Get("/operators", data.Operators)
		r.Get("/rankings/{kind}", rankings.Top)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminToken))
			r.Get("/admin/dataset", data.Info)
			r.Post("/admin/dataset/reload", data.Reload)
		})
	})

	return r
}

// NewMetricsRouter serves /health and /metrics. Health reports 503 until the
// first snapshot is loaded.
func NewMetricsRouter(s Snapshots) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		snap, err := s.Current()
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "snapshot_id": snap.ID.String()})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
