package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/FleetShift/internal/engine"
	"github.com/MikeSquared-Agency/FleetShift/internal/finance"
)

type ScenariosHandler struct {
	snapshots Snapshots
	simulator *finance.Simulator
}

func NewScenariosHandler(s Snapshots, sim *finance.Simulator) *ScenariosHandler {
	return &ScenariosHandler{snapshots: s, simulator: sim}
}

// ReferenceLines are drawn over the viability charts: the minimum
// attractive rate of return over the IRR series and the fleet's useful life
// over the payback series.
type ReferenceLines struct {
	MinimumAttractiveRatePct float64 `json:"minimum_attractive_rate_pct"`
	UsefulLifeYears          int     `json:"useful_life_years"`
}

type scenariosResponse struct {
	SnapshotID uuid.UUID           `json:"snapshot_id"`
	View       engine.ScenarioView `json:"view"`
	Reference  ReferenceLines      `json:"reference"`
}

func (h *ScenariosHandler) List(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshots.Current()
	if err != nil {
		writeError(w, err)
		return
	}

	c := h.simulator.Constants()
	writeJSON(w, http.StatusOK, scenariosResponse{
		SnapshotID: snap.ID,
		View:       engine.NewScenarioTable(snap.Scenarios).View(),
		Reference: ReferenceLines{
			MinimumAttractiveRatePct: c.DiscountRate * 100,
			UsefulLifeYears:          c.HorizonYears,
		},
	})
}
