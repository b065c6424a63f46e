package api

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MikeSquared-Agency/FleetShift/internal/engine"
	"github.com/MikeSquared-Agency/FleetShift/internal/finance"
)

func TestWriteJSON_UnencodableValue(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSON(w, http.StatusOK, map[string]float64{"pct": math.NaN()})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected a JSON error body, got %q", w.Body.String())
	}
	if body["error"] == "" {
		t.Error("expected an error message")
	}
}

func TestWriteJSON_SetsStatusAndContentType(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "ok"})

	if w.Code != http.StatusAccepted {
		t.Errorf("expected 202, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}
}

func TestDisplay_NonFiniteValues(t *testing.T) {
	for _, v := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		if got := money(v); got != "n/a" {
			t.Errorf("money(%v) = %q, want n/a", v, got)
		}
		if got := pct(v); got != "n/a" {
			t.Errorf("pct(%v) = %q, want n/a", v, got)
		}
	}
	if got := money(1234.5); got != "1234.50" {
		t.Errorf("money(1234.5) = %q", got)
	}

	d := newSimulationDisplay(finance.Result{NPV: math.Inf(-1)})
	if d.NPV != "n/a" || d.PaybackYears != "unknown" {
		t.Errorf("unexpected display %+v", d)
	}

	var m engine.Metrics
	m.Scenario.PaybackYears = engine.UnknownPayback
	m.Occupancy.Classification.Headroom.UsersUntilLimit = math.Inf(1)
	if got := newMetricsDisplay(m).UsersUntilLimit; got != "n/a" {
		t.Errorf("expected n/a users, got %q", got)
	}
}
