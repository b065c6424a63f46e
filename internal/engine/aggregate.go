package engine

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/FleetShift/internal/dataset"
)

// DailyIndicators are the scaled annual figures expressed per day.
type DailyIndicators struct {
	PassengersPerDay float64 `json:"passengers_per_day"`
	KmPerDay         float64 `json:"km_per_day"`
	ActiveBuses      int     `json:"active_buses"`
}

// Occupancy groups current, reported and projected occupancy with the risk
// classification of the projection.
type Occupancy struct {
	CurrentPct     float64        `json:"current_pct"`
	ReportedPct    float64        `json:"reported_pct"`
	ProjectedPct   float64        `json:"projected_pct"`
	Classification Classification `json:"classification"`
}

// Metrics is the derived view of one snapshot under one filter. It is built
// by field assembly only.
type Metrics struct {
	SnapshotID uuid.UUID       `json:"snapshot_id"`
	Filter     FilterSelection `json:"filter"`
	Scale      Scale           `json:"scale"`
	KPIs       ScaledKPIs      `json:"kpis"`
	Daily      DailyIndicators `json:"daily"`
	Demand     Projection      `json:"demand"`
	Occupancy  Occupancy       `json:"occupancy"`
	Scenario   ScenarioOutcome `json:"scenario"`
	Tariff     TariffImpact    `json:"tariff"`
	Viable     bool            `json:"viable"`
}

// Engine derives Metrics from a snapshot. It holds only immutable constants,
// so one Engine serves concurrent requests.
type Engine struct {
	constants  Constants
	classifier *Classifier
}

func New(c Constants) (*Engine, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &Engine{constants: c, classifier: NewClassifier(c)}, nil
}

func (e *Engine) Constants() Constants { return e.constants }

// ComputeMetrics runs scaling, demand projection, occupancy classification
// and scenario resolution for one filter.
func (e *Engine) ComputeMetrics(snap *dataset.Snapshot, f FilterSelection) (Metrics, error) {
	if err := f.Validate(snap.Operators); err != nil {
		return Metrics{}, err
	}

	scale, err := ScaleFactor(f.SelectedOperators, snap.Operators)
	if err != nil {
		return Metrics{}, err
	}
	kpis := ScaleKPIs(snap.KPIs, scale)

	demand, err := ProjectDemand(f.NewUsersPerDay, kpis.AnnualPassengers, kpis.AnnualCapacity, e.constants)
	if err != nil {
		return Metrics{}, err
	}

	// Headroom is measured on the full system: the reported rate against the
	// unscaled capacity.
	classification := e.classifier.Classify(demand.ProjectedOccupancyPct, snap.KPIs.CurrentOccupancyRate, snap.KPIs.AnnualCapacity)
	scenario := NewScenarioTable(snap.Scenarios).Resolve(f.TariffIncreasePct, scale.Factor)
	tariff := ProjectTariff(snap.KPIs.CurrentAverageFare, f.TariffIncreasePct, kpis.AnnualPassengers, snap.Tariffs)

	return Metrics{
		SnapshotID: snap.ID,
		Filter:     f,
		Scale:      scale,
		KPIs:       kpis,
		Daily: DailyIndicators{
			PassengersPerDay: kpis.AnnualPassengers / e.constants.DaysPerYear,
			KmPerDay:         kpis.AnnualKm / e.constants.DaysPerYear,
			ActiveBuses:      kpis.Buses,
		},
		Demand: demand,
		Occupancy: Occupancy{
			CurrentPct:     demand.CurrentOccupancyPct,
			ReportedPct:    snap.KPIs.CurrentOccupancyRate,
			ProjectedPct:   demand.ProjectedOccupancyPct,
			Classification: classification,
		},
		Scenario: scenario,
		Tariff:   tariff,
		Viable:   scenario.Found && scenario.NPV > 0,
	}, nil
}

// ClassifyOccupancy bands pct and computes headroom from pct against the
// snapshot's full-system capacity.
func (e *Engine) ClassifyOccupancy(snap *dataset.Snapshot, pct float64) (Classification, error) {
	if math.IsNaN(pct) || math.IsInf(pct, 0) || pct < 0 {
		return Classification{}, fmt.Errorf("%w: occupancy must be a non-negative number, got %v", ErrInvalidFilter, pct)
	}
	if snap.KPIs.AnnualCapacity <= 0 {
		return Classification{}, NewConfigurationError("classify occupancy", "annual capacity must be positive")
	}
	return e.classifier.Classify(pct, pct, snap.KPIs.AnnualCapacity), nil
}
