package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/FleetShift/internal/ranking"
)

type RankingsHandler struct {
	ranker *ranking.Ranker
}

// NewRankingsHandler accepts a nil ranker; every request then gets 503.
func NewRankingsHandler(r *ranking.Ranker) *RankingsHandler {
	return &RankingsHandler{ranker: r}
}

func (h *RankingsHandler) Top(w http.ResponseWriter, r *http.Request) {
	if h.ranker == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "rankings require a database"})
		return
	}

	kind, err := ranking.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, err)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be an integer"})
			return
		}
		limit = n
	}

	entries, err := h.ranker.Top(r.Context(), kind, limit)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"kind":    kind,
		"limit":   h.ranker.Limit(limit),
		"entries": entries,
	})
}
