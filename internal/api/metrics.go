package api

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/MikeSquared-Agency/FleetShift/internal/dataset"
	"github.com/MikeSquared-Agency/FleetShift/internal/engine"
)

// Snapshots is the read side of dataset.Repository.
type Snapshots interface {
	Current() (*dataset.Snapshot, error)
	Reload(ctx context.Context) (*dataset.Snapshot, error)
}

type MetricsHandler struct {
	snapshots Snapshots
	engine    *engine.Engine
	logger    *slog.Logger
}

func NewMetricsHandler(s Snapshots, e *engine.Engine, logger *slog.Logger) *MetricsHandler {
	return &MetricsHandler{snapshots: s, engine: e, logger: logger}
}

type metricsResponse struct {
	engine.Metrics
	Display metricsDisplay `json:"display"`
}

func (h *MetricsHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var f engine.FilterSelection
	if err := decodeBody(r, &f); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	snap, err := h.snapshots.Current()
	if err != nil {
		writeError(w, err)
		return
	}

	m, err := h.engine.ComputeMetrics(snap, f)
	if err != nil {
		h.logger.Warn("metrics computation failed", "error", err, "snapshot_id", snap.ID)
		writeError(w, err)
		return
	}

	metricsComputed.Inc()
	if !m.Scenario.Found {
		scenarioMisses.Inc()
	}
	if m.Scale.Fallback {
		scaleFallbacks.Inc()
	}

	writeJSON(w, http.StatusOK, metricsResponse{Metrics: m, Display: newMetricsDisplay(m)})
}

func (h *MetricsHandler) ClassifyOccupancy(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("pct")
	if raw == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "pct query parameter required"})
		return
	}
	pct, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(pct) || math.IsInf(pct, 0) || pct < 0 {
		writeError(w, fmt.Errorf("%w: pct must be a non-negative number, got %q", engine.ErrInvalidFilter, raw))
		return
	}

	snap, err := h.snapshots.Current()
	if err != nil {
		writeError(w, err)
		return
	}

	c, err := h.engine.ClassifyOccupancy(snap, pct)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
