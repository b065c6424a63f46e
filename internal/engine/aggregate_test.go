package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/FleetShift/internal/dataset"
)

func testSnapshot() *dataset.Snapshot {
	return &dataset.Snapshot{
		ID:        uuid.New(),
		KPIs:      baseKPIs(),
		Operators: operators(16),
		Scenarios: scenarioRows(),
		Tariffs: []dataset.TariffBand{
			{Fare: 3.8, FractionOfLines: 0.5, LineCount: 450, Description: "Urbana"},
			{Fare: 5.5, FractionOfLines: 0.35, LineCount: 315, Description: "Metropolitana"},
		},
	}
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(DefaultConstants())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestComputeMetricsHalfSelection(t *testing.T) {
	snap := testSnapshot()
	m, err := testEngine(t).ComputeMetrics(snap, FilterSelection{
		SelectedOperators: snap.Operators[:8],
		NewUsersPerDay:    100_000,
		TariffIncreasePct: 50,
	})
	if err != nil {
		t.Fatalf("ComputeMetrics: %v", err)
	}

	if m.SnapshotID != snap.ID {
		t.Error("expected snapshot ID to be carried")
	}
	if m.Scale.Factor != 0.5 {
		t.Errorf("expected factor 0.5, got %f", m.Scale.Factor)
	}
	if m.KPIs.Buses != 1500 {
		t.Errorf("expected 1500 buses, got %d", m.KPIs.Buses)
	}
	if m.Daily.ActiveBuses != 1500 {
		t.Errorf("expected 1500 active buses, got %d", m.Daily.ActiveBuses)
	}
	if math.Abs(m.Daily.PassengersPerDay-500_000_000.0/365) > 1e-6 {
		t.Errorf("unexpected passengers/day %f", m.Daily.PassengersPerDay)
	}

	// 500M + 109.5M over 800M capacity
	expectedProjected := 609_500_000.0 / 800_000_000.0 * 100
	if math.Abs(m.Occupancy.ProjectedPct-expectedProjected) > 1e-9 {
		t.Errorf("expected projected %f, got %f", expectedProjected, m.Occupancy.ProjectedPct)
	}
	if m.Occupancy.Classification.State != UnderPressure {
		t.Errorf("expected under pressure at %.2f%%, got %s", m.Occupancy.ProjectedPct, m.Occupancy.Classification.State)
	}
	if m.Occupancy.ReportedPct != 62.5 {
		t.Errorf("expected reported 62.5, got %f", m.Occupancy.ReportedPct)
	}

	if !m.Scenario.Found || m.Scenario.NPV != 1.6e9 {
		t.Errorf("expected scaled NPV 1.6e9, got %+v", m.Scenario)
	}
	if !m.Viable {
		t.Error("positive NPV scenario should be viable")
	}
	if len(m.Tariff.Bands) != 2 {
		t.Errorf("expected 2 tariff bands, got %d", len(m.Tariff.Bands))
	}
}

func TestComputeMetricsIdempotentProjection(t *testing.T) {
	snap := testSnapshot()
	m, err := testEngine(t).ComputeMetrics(snap, FilterSelection{
		SelectedOperators: snap.Operators[:5],
		TariffIncreasePct: 50,
	})
	if err != nil {
		t.Fatalf("ComputeMetrics: %v", err)
	}
	if m.Demand.ProjectedPassengers != m.KPIs.AnnualPassengers {
		t.Errorf("projected %f != scaled %f", m.Demand.ProjectedPassengers, m.KPIs.AnnualPassengers)
	}
	if m.Occupancy.ProjectedPct != m.Occupancy.CurrentPct {
		t.Errorf("projected occupancy %f != current %f", m.Occupancy.ProjectedPct, m.Occupancy.CurrentPct)
	}
}

func TestComputeMetricsUnknownScenario(t *testing.T) {
	snap := testSnapshot()
	m, err := testEngine(t).ComputeMetrics(snap, FilterSelection{TariffIncreasePct: 35})
	if err != nil {
		t.Fatalf("a missing scenario must not be an error: %v", err)
	}
	if m.Scenario.Found || m.Scenario.PaybackYears != UnknownPayback {
		t.Errorf("expected sentinel scenario, got %+v", m.Scenario)
	}
	if m.Viable {
		t.Error("unknown scenario must not be viable")
	}
	if !m.Scale.Fallback {
		t.Error("expected empty selection to be flagged as fallback")
	}
}

func TestComputeMetricsRejectsUnknownOperator(t *testing.T) {
	_, err := testEngine(t).ComputeMetrics(testSnapshot(), FilterSelection{SelectedOperators: []string{"GHOST"}})
	if !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("expected invalid filter, got %v", err)
	}
}

func TestComputeMetricsConfigurationErrors(t *testing.T) {
	e := testEngine(t)

	noOps := testSnapshot()
	noOps.Operators = nil
	if _, err := e.ComputeMetrics(noOps, FilterSelection{}); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected configuration error for empty operator universe, got %v", err)
	}

	noCapacity := testSnapshot()
	noCapacity.KPIs.AnnualCapacity = 0
	_, err := e.ComputeMetrics(noCapacity, FilterSelection{})
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected configuration error for zero capacity, got %v", err)
	}
	if errors.Is(err, ErrInvalidFilter) {
		t.Error("configuration errors must stay distinct from filter errors")
	}
}

func TestClassifyOccupancyUsesSnapshotCapacity(t *testing.T) {
	e := testEngine(t)
	got, err := e.ClassifyOccupancy(testSnapshot(), 70.0)
	if err != nil {
		t.Fatalf("ClassifyOccupancy: %v", err)
	}
	if got.State != UnderPressure {
		t.Errorf("expected under pressure, got %s", got.State)
	}
	expected := 0.08 * 1_600_000_000 / 1095
	if math.Abs(got.Headroom.UsersUntilLimit-expected) > 1e-6 {
		t.Errorf("expected %f headroom users, got %f", expected, got.Headroom.UsersUntilLimit)
	}
}

func TestNewRejectsBadConstants(t *testing.T) {
	c := DefaultConstants()
	c.ComfortLimitPct = 90
	if _, err := New(c); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected configuration error for comfort > limit, got %v", err)
	}
	c = DefaultConstants()
	c.DaysPerYear = 0
	if _, err := New(c); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected configuration error for zero days, got %v", err)
	}
}

func TestComputeMetricsHeadroomUsesReportedRate(t *testing.T) {
	snap := testSnapshot()
	// 1e9 / 1.6e9 is 62.5%, the reported rate differs on purpose
	snap.KPIs.CurrentOccupancyRate = 70.0

	m, err := testEngine(t).ComputeMetrics(snap, FilterSelection{SelectedOperators: snap.Operators[:8]})
	if err != nil {
		t.Fatalf("ComputeMetrics: %v", err)
	}
	h := m.Occupancy.Classification.Headroom
	if math.Abs(h.RemainingPct-8.0) > 1e-9 {
		t.Errorf("expected 8 points from the reported rate, got %f", h.RemainingPct)
	}
	expected := 0.08 * 1_600_000_000 / 1095
	if math.Abs(h.UsersUntilLimit-expected) > 1e-6 {
		t.Errorf("expected %f users against full capacity, got %f", expected, h.UsersUntilLimit)
	}
	if m.Occupancy.CurrentPct != 62.5 {
		t.Errorf("current occupancy should still come from scaled absolutes, got %f", m.Occupancy.CurrentPct)
	}
}

func TestComputeMetricsOverflowingDemand(t *testing.T) {
	_, err := testEngine(t).ComputeMetrics(testSnapshot(), FilterSelection{NewUsersPerDay: 1e308})
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected configuration error for overflowing projection, got %v", err)
	}
}

func TestClassifyOccupancyRejectsNonFinite(t *testing.T) {
	e := testEngine(t)
	for _, pct := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -1} {
		if _, err := e.ClassifyOccupancy(testSnapshot(), pct); !errors.Is(err, ErrInvalidFilter) {
			t.Errorf("pct=%v: expected invalid filter, got %v", pct, err)
		}
	}
}
