package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/FleetShift/internal/finance"
	"github.com/MikeSquared-Agency/FleetShift/internal/hermes"
)

type SimulateHandler struct {
	snapshots Snapshots
	simulator *finance.Simulator
	hermes    hermes.Client
	logger    *slog.Logger
}

func NewSimulateHandler(s Snapshots, sim *finance.Simulator, h hermes.Client, logger *slog.Logger) *SimulateHandler {
	return &SimulateHandler{snapshots: s, simulator: sim, hermes: h, logger: logger}
}

type simulateResponse struct {
	RunID      uuid.UUID         `json:"run_id"`
	SnapshotID uuid.UUID         `json:"snapshot_id"`
	Baseline   finance.Baseline  `json:"baseline"`
	Result     finance.Result    `json:"result"`
	Display    simulationDisplay `json:"display"`
}

// Simulate runs the what-if evaluator against the full-fleet baseline. The
// operator filter does not apply here.
func (h *SimulateHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var p finance.Params
	if err := decodeBody(r, &p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	snap, err := h.snapshots.Current()
	if err != nil {
		writeError(w, err)
		return
	}

	baseline := finance.BaselineFromKPIs(snap.KPIs)
	res, err := h.simulator.Simulate(baseline, p)
	if err != nil {
		writeError(w, err)
		return
	}

	outcome := "known"
	if !res.PaybackKnown {
		outcome = "unknown"
	}
	simulations.WithLabelValues(outcome).Inc()

	runID := uuid.New()
	hermes.Emit(h.hermes, h.logger, hermes.SubjectSimulationCompleted(runID.String()), hermes.SimulationCompletedEvent{
		RunID:              runID.String(),
		SnapshotID:         snap.ID.String(),
		TariffIncreasePct:  res.Inputs.TariffIncreasePct,
		NPV:                res.NPV,
		SimplePaybackYears: res.SimplePaybackYears,
		AnnualBenefit:      res.AnnualBenefit,
		Analyst:            r.Header.Get(AnalystHeader),
		Timestamp:          time.Now().UTC(),
	})

	writeJSON(w, http.StatusOK, simulateResponse{
		RunID:      runID,
		SnapshotID: snap.ID,
		Baseline:   baseline,
		Result:     res,
		Display:    newSimulationDisplay(res),
	})
}
