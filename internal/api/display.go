package api

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/MikeSquared-Agency/FleetShift/internal/engine"
	"github.com/MikeSquared-Agency/FleetShift/internal/finance"
)

// The engine never rounds. Display blocks carry presentation strings next to
// the raw numbers.

func money(v float64) string { return fixed(v, 2) }

func pct(v float64) string { return fixed(v, 1) }

func fixed(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

func wholeUsers(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return decimal.NewFromFloat(v).Floor().String()
}

type metricsDisplay struct {
	NPV                string `json:"npv"`
	PaybackYears       string `json:"payback_years"`
	IRRPct             string `json:"irr_pct"`
	NewFare            string `json:"new_fare"`
	AdditionalRevenue  string `json:"additional_revenue"`
	CurrentOccupancy   string `json:"current_occupancy_pct"`
	ProjectedOccupancy string `json:"projected_occupancy_pct"`
	UsersUntilLimit    string `json:"users_until_limit"`
}

func newMetricsDisplay(m engine.Metrics) metricsDisplay {
	d := metricsDisplay{
		NPV:                money(m.Scenario.NPV),
		PaybackYears:       "unknown",
		IRRPct:             "n/a",
		NewFare:            money(m.Tariff.NewFare),
		AdditionalRevenue:  money(m.Tariff.AdditionalRevenue),
		CurrentOccupancy:   pct(m.Occupancy.CurrentPct),
		ProjectedOccupancy: pct(m.Occupancy.ProjectedPct),
		UsersUntilLimit:    wholeUsers(m.Occupancy.Classification.Headroom.UsersUntilLimit),
	}
	if !engine.PaybackUnknown(m.Scenario.PaybackYears) {
		d.PaybackYears = pct(m.Scenario.PaybackYears)
	}
	if m.Scenario.IRRPct != nil {
		d.IRRPct = pct(*m.Scenario.IRRPct)
	}
	return d
}

type simulationDisplay struct {
	NPV           string `json:"npv"`
	PaybackYears  string `json:"payback_years"`
	AnnualBenefit string `json:"annual_benefit"`
	OpexSavings   string `json:"opex_savings"`
	CarbonRevenue string `json:"carbon_revenue"`
	TariffRevenue string `json:"tariff_revenue"`
}

func newSimulationDisplay(r finance.Result) simulationDisplay {
	d := simulationDisplay{
		NPV:           money(r.NPV),
		PaybackYears:  "unknown",
		AnnualBenefit: money(r.AnnualBenefit),
		OpexSavings:   money(r.Breakdown.OpexSavings),
		CarbonRevenue: money(r.Breakdown.CarbonRevenue),
		TariffRevenue: money(r.Breakdown.TariffRevenue),
	}
	if r.PaybackKnown {
		d.PaybackYears = pct(r.SimplePaybackYears)
	}
	return d
}
