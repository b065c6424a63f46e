package dataset

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrDataLoad marks a failure of the data-loading collaborator. It is fatal
	// at start-up; on reload the previous snapshot stays in place.
	ErrDataLoad = errors.New("dataset load failed")

	// ErrNotLoaded is returned by Repository.Current before the first Load.
	ErrNotLoaded = errors.New("dataset not loaded")
)

// BaseKPIs holds the fleet-wide operational and financial baselines.
type BaseKPIs struct {
	TotalBuses           int     `json:"total_buses"`
	TotalLines           int     `json:"total_lines"`
	TotalStops           int     `json:"total_stops"`
	AnnualKm             float64 `json:"annual_km"`
	AnnualPassengers     float64 `json:"annual_passengers"`
	CO2AvoidedTons       float64 `json:"co2_avoided_tons"`
	CurrentOccupancyRate float64 `json:"current_occupancy_rate"`
	AnnualCapacity       float64 `json:"annual_capacity"`
	CurrentAverageFare   float64 `json:"current_average_fare"`
	CapexTotal           float64 `json:"capex_total"`
}

// FinancialScenario is one precomputed row of the tariff scenario table.
// IRRPct is nil when the scenario never reaches a positive IRR.
type FinancialScenario struct {
	TariffIncreasePct  int      `json:"tariff_increase_pct"`
	NPV                float64  `json:"npv"`
	SimplePaybackYears float64  `json:"simple_payback_years"`
	IRRPct             *float64 `json:"irr_pct"`
}

// TariffBand describes the share of lines charging one fare value.
type TariffBand struct {
	Fare            float64 `json:"fare"`
	FractionOfLines float64 `json:"fraction_of_lines"`
	LineCount       int     `json:"line_count"`
	Description     string  `json:"description"`
}

// Snapshot is the immutable base dataset. Nothing mutates a Snapshot after it
// has been handed out by a Repository; reloads publish a new one.
type Snapshot struct {
	ID        uuid.UUID           `json:"snapshot_id"`
	LoadedAt  time.Time           `json:"loaded_at"`
	Source    string              `json:"source"`
	KPIs      BaseKPIs            `json:"kpis"`
	Operators []string            `json:"operators"`
	Scenarios []FinancialScenario `json:"scenarios"`
	Tariffs   []TariffBand        `json:"tariffs,omitempty"`
}

// HasTariffs reports whether the optional tariff distribution was supplied.
func (s *Snapshot) HasTariffs() bool {
	return len(s.Tariffs) > 0
}

// Source fetches a complete snapshot from some backing store.
type Source interface {
	Fetch(ctx context.Context) (*Snapshot, error)
	Name() string
}

func newSnapshot(source string, kpis BaseKPIs, operators []string, scenarios []FinancialScenario, tariffs []TariffBand) *Snapshot {
	return &Snapshot{
		ID:        uuid.New(),
		LoadedAt:  time.Now().UTC(),
		Source:    source,
		KPIs:      kpis,
		Operators: dedupe(operators),
		Scenarios: scenarios,
		Tariffs:   tariffs,
	}
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
