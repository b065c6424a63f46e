package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MikeSquared-Agency/FleetShift/internal/dataset"
	"github.com/MikeSquared-Agency/FleetShift/internal/engine"
	"github.com/MikeSquared-Agency/FleetShift/internal/ranking"
)

// writeJSON encodes before writing the status line, so a value that cannot
// be encoded becomes a logged 500 instead of a truncated response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to encode response", "status", status, "error", err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"failed to encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrInvalidFilter), errors.Is(err, ranking.ErrUnknownKind):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrConfiguration):
		return http.StatusUnprocessableEntity
	case errors.Is(err, dataset.ErrNotLoaded), errors.Is(err, dataset.ErrDataLoad):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	body := map[string]string{"error": err.Error()}

	var cfgErr *engine.ConfigurationError
	if errors.As(err, &cfgErr) {
		body["op"] = cfgErr.Op
		configurationErrors.WithLabelValues(cfgErr.Op).Inc()
	}
	writeJSON(w, status, body)
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
