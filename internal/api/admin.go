package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/FleetShift/internal/dataset"
)

type DatasetHandler struct {
	snapshots Snapshots
	reloader  *Reloader
}

func NewDatasetHandler(s Snapshots, rl *Reloader) *DatasetHandler {
	return &DatasetHandler{snapshots: s, reloader: rl}
}

type DatasetInfo struct {
	SnapshotID  uuid.UUID        `json:"snapshot_id"`
	Source      string           `json:"source"`
	LoadedAt    time.Time        `json:"loaded_at"`
	Operators   int              `json:"operators"`
	Scenarios   int              `json:"scenarios"`
	TariffBands int              `json:"tariff_bands"`
	KPIs        dataset.BaseKPIs `json:"kpis"`
}

func infoFor(s *dataset.Snapshot) DatasetInfo {
	return DatasetInfo{
		SnapshotID:  s.ID,
		Source:      s.Source,
		LoadedAt:    s.LoadedAt,
		Operators:   len(s.Operators),
		Scenarios:   len(s.Scenarios),
		TariffBands: len(s.Tariffs),
		KPIs:        s.KPIs,
	}
}

func (h *DatasetHandler) Operators(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshots.Current()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"snapshot_id": snap.ID,
		"operators":   snap.Operators,
		"count":       len(snap.Operators),
	})
}

func (h *DatasetHandler) Info(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshots.Current()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infoFor(snap))
}

// Reload re-reads the dataset. On failure the previous snapshot keeps
// serving and the caller gets 503.
func (h *DatasetHandler) Reload(w http.ResponseWriter, r *http.Request) {
	triggeredBy := r.Header.Get(AnalystHeader)
	if triggeredBy == "" {
		triggeredBy = "admin"
	}

	snap, err := h.reloader.Reload(r.Context(), triggeredBy)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infoFor(snap))
}
