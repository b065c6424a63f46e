package finance

import (
	"fmt"
	"math"

	"github.com/MikeSquared-Agency/FleetShift/internal/config"
	"github.com/MikeSquared-Agency/FleetShift/internal/dataset"
	"github.com/MikeSquared-Agency/FleetShift/internal/engine"
)

// Constants are the cost and discounting assumptions of the what-if
// simulator. Currency is BRL unless the name says otherwise.
type Constants struct {
	DieselLitersPerKm        float64
	DieselMaintenancePerKm   float64
	ElectricKWhPerKm         float64
	ElectricMaintenancePerKm float64
	FXRateBRLPerUSD          float64
	DiscountRate             float64
	HorizonYears             int
	// MaxHorizonYears caps a caller-supplied horizon.
	MaxHorizonYears          int
}

// Defaults fill in prices the caller leaves out.
type Defaults struct {
	DieselPricePerLiter  float64
	EnergyPricePerKWh    float64
	CarbonCreditPriceUSD float64
}

func DefaultConstants() Constants {
	return Constants{
		DieselLitersPerKm:        0.45,
		DieselMaintenancePerKm:   1.20,
		ElectricKWhPerKm:         1.30,
		ElectricMaintenancePerKm: 0.60,
		FXRateBRLPerUSD:          5.0,
		DiscountRate:             0.08,
		HorizonYears:             15,
		MaxHorizonYears:          50,
	}
}

func DefaultPrices() Defaults {
	return Defaults{
		DieselPricePerLiter:  6.00,
		EnergyPricePerKWh:    0.85,
		CarbonCreditPriceUSD: 0,
	}
}

func FromConfig(cfg config.SimulatorConfig) (Constants, Defaults) {
	return Constants{
			DieselLitersPerKm:        cfg.DieselLitersPerKm,
			DieselMaintenancePerKm:   cfg.DieselMaintenancePerKm,
			ElectricKWhPerKm:         cfg.ElectricKWhPerKm,
			ElectricMaintenancePerKm: cfg.ElectricMaintenancePerKm,
			FXRateBRLPerUSD:          cfg.FXRateBRLPerUSD,
			DiscountRate:             cfg.DiscountRate,
			HorizonYears:             cfg.HorizonYears,
			MaxHorizonYears:          cfg.MaxHorizonYears,
		}, Defaults{
			DieselPricePerLiter:  cfg.DefaultDieselPrice,
			EnergyPricePerKWh:    cfg.DefaultEnergyPrice,
			CarbonCreditPriceUSD: cfg.DefaultCarbonPriceUSD,
		}
}

// Baseline is the fleet-wide absolute data the simulator reads. It is never
// scaled by an operator filter.
type Baseline struct {
	AnnualKm         float64 `json:"annual_km"`
	AnnualPassengers float64 `json:"annual_passengers"`
	CO2AvoidedTons   float64 `json:"co2_avoided_tons"`
	BaselineFare     float64 `json:"baseline_fare"`
	CapexTotal       float64 `json:"capex_total"`
}

func BaselineFromKPIs(k dataset.BaseKPIs) Baseline {
	return Baseline{
		AnnualKm:         k.AnnualKm,
		AnnualPassengers: k.AnnualPassengers,
		CO2AvoidedTons:   k.CO2AvoidedTons,
		BaselineFare:     k.CurrentAverageFare,
		CapexTotal:       k.CapexTotal,
	}
}

// Params are the caller's what-if inputs. Nil prices take the configured
// default; a nil HorizonYears uses the configured horizon.
type Params struct {
	TariffIncreasePct    float64  `json:"tariff_increase_pct"`
	DieselPricePerLiter  *float64 `json:"diesel_price_per_liter,omitempty"`
	EnergyPricePerKWh    *float64 `json:"energy_price_per_kwh,omitempty"`
	CarbonCreditPriceUSD *float64 `json:"carbon_credit_price_usd,omitempty"`
	HorizonYears         *int     `json:"horizon_years,omitempty"`
}

type Breakdown struct {
	OpexDiesel    float64 `json:"opex_diesel"`
	OpexElectric  float64 `json:"opex_electric"`
	OpexSavings   float64 `json:"opex_savings"`
	CarbonRevenue float64 `json:"carbon_revenue"`
	TariffRevenue float64 `json:"tariff_revenue"`
}

// YearFlow is one year of the discounted benefit stream. Cumulative starts
// at -capex.
type YearFlow struct {
	Year       int     `json:"year"`
	Benefit    float64 `json:"benefit"`
	Discounted float64 `json:"discounted"`
	Cumulative float64 `json:"cumulative"`
}

// Resolved records the inputs actually used after defaults were applied.
type Resolved struct {
	TariffIncreasePct    float64 `json:"tariff_increase_pct"`
	DieselPricePerLiter  float64 `json:"diesel_price_per_liter"`
	EnergyPricePerKWh    float64 `json:"energy_price_per_kwh"`
	CarbonCreditPriceUSD float64 `json:"carbon_credit_price_usd"`
	DiscountRate         float64 `json:"discount_rate"`
	HorizonYears         int     `json:"horizon_years"`
}

type Result struct {
	NPV                float64    `json:"npv"`
	SimplePaybackYears float64    `json:"simple_payback_years"`
	PaybackKnown       bool       `json:"payback_known"`
	AnnualBenefit      float64    `json:"annual_benefit"`
	CapexTotal         float64    `json:"capex_total"`
	Breakdown          Breakdown  `json:"breakdown"`
	CashFlows          []YearFlow `json:"cash_flows"`
	Inputs             Resolved   `json:"inputs"`
}

// Simulator evaluates NPV and payback in closed form. It holds no state
// beyond its constants and is safe for concurrent use.
type Simulator struct {
	constants Constants
	defaults  Defaults
}

func NewSimulator(c Constants, d Defaults) (*Simulator, error) {
	if c.FXRateBRLPerUSD <= 0 {
		return nil, engine.NewConfigurationError("simulator", fmt.Sprintf("fx rate must be positive, got %f", c.FXRateBRLPerUSD))
	}
	if c.DieselLitersPerKm < 0 || c.ElectricKWhPerKm < 0 || c.DieselMaintenancePerKm < 0 || c.ElectricMaintenancePerKm < 0 {
		return nil, engine.NewConfigurationError("simulator", "consumption and maintenance factors must not be negative")
	}
	if c.HorizonYears <= 0 {
		return nil, engine.NewConfigurationError("simulator", fmt.Sprintf("horizon must be positive, got %d", c.HorizonYears))
	}
	if c.MaxHorizonYears < c.HorizonYears {
		return nil, engine.NewConfigurationError("simulator", fmt.Sprintf("max horizon %d is below the default horizon %d", c.MaxHorizonYears, c.HorizonYears))
	}
	if c.DiscountRate <= -1 {
		return nil, engine.NewConfigurationError("simulator", fmt.Sprintf("discount rate must be above -1, got %f", c.DiscountRate))
	}
	return &Simulator{constants: c, defaults: d}, nil
}

func (s *Simulator) Constants() Constants { return s.constants }

func (s *Simulator) resolve(p Params) (Resolved, error) {
	r := Resolved{
		TariffIncreasePct:    p.TariffIncreasePct,
		DieselPricePerLiter:  s.defaults.DieselPricePerLiter,
		EnergyPricePerKWh:    s.defaults.EnergyPricePerKWh,
		CarbonCreditPriceUSD: s.defaults.CarbonCreditPriceUSD,
		DiscountRate:         s.constants.DiscountRate,
		HorizonYears:         s.constants.HorizonYears,
	}
	if p.DieselPricePerLiter != nil {
		r.DieselPricePerLiter = *p.DieselPricePerLiter
	}
	if p.EnergyPricePerKWh != nil {
		r.EnergyPricePerKWh = *p.EnergyPricePerKWh
	}
	if p.CarbonCreditPriceUSD != nil {
		r.CarbonCreditPriceUSD = *p.CarbonCreditPriceUSD
	}
	if p.HorizonYears != nil {
		r.HorizonYears = *p.HorizonYears
	}

	switch {
	case !finite(r.DieselPricePerLiter, r.EnergyPricePerKWh, r.CarbonCreditPriceUSD, r.TariffIncreasePct):
		return r, engine.NewConfigurationError("simulate", "prices and tariff increase must be finite")
	case !(r.DieselPricePerLiter > 0):
		return r, engine.NewConfigurationError("simulate", fmt.Sprintf("diesel price must be positive, got %f", r.DieselPricePerLiter))
	case !(r.EnergyPricePerKWh > 0):
		return r, engine.NewConfigurationError("simulate", fmt.Sprintf("energy price must be positive, got %f", r.EnergyPricePerKWh))
	case !(r.CarbonCreditPriceUSD >= 0):
		return r, engine.NewConfigurationError("simulate", fmt.Sprintf("carbon credit price must not be negative, got %f", r.CarbonCreditPriceUSD))
	case !(r.TariffIncreasePct >= 0):
		return r, engine.NewConfigurationError("simulate", fmt.Sprintf("tariff increase must not be negative, got %f", r.TariffIncreasePct))
	case r.HorizonYears <= 0:
		return r, engine.NewConfigurationError("simulate", fmt.Sprintf("horizon must be positive, got %d", r.HorizonYears))
	case r.HorizonYears > s.constants.MaxHorizonYears:
		return r, engine.NewConfigurationError("simulate", fmt.Sprintf("horizon %d exceeds the maximum of %d years", r.HorizonYears, s.constants.MaxHorizonYears))
	}
	return r, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Simulate evaluates one what-if. Nothing is rounded.
func (s *Simulator) Simulate(b Baseline, p Params) (Result, error) {
	in, err := s.resolve(p)
	if err != nil {
		return Result{}, err
	}
	c := s.constants

	opexDiesel := b.AnnualKm*c.DieselLitersPerKm*in.DieselPricePerLiter + b.AnnualKm*c.DieselMaintenancePerKm
	opexElectric := b.AnnualKm*c.ElectricKWhPerKm*in.EnergyPricePerKWh + b.AnnualKm*c.ElectricMaintenancePerKm
	savings := opexDiesel - opexElectric
	carbon := b.CO2AvoidedTons * in.CarbonCreditPriceUSD * c.FXRateBRLPerUSD
	tariff := b.AnnualPassengers * b.BaselineFare * (in.TariffIncreasePct / 100)
	benefit := savings + carbon + tariff
	if !finite(opexDiesel, opexElectric, savings, carbon, tariff, benefit) {
		return Result{}, engine.NewConfigurationError("simulate", "annual benefit overflows for the given inputs")
	}

	payback := engine.UnknownPayback
	if benefit > 0 {
		payback = b.CapexTotal / benefit
	}

	flows := CashFlows(benefit, b.CapexTotal, in.DiscountRate, in.HorizonYears)
	npv := -b.CapexTotal
	if len(flows) > 0 {
		npv = flows[len(flows)-1].Cumulative
	}
	if !finite(npv, payback) {
		return Result{}, engine.NewConfigurationError("simulate", "npv overflows for the given inputs")
	}

	return Result{
		NPV:                npv,
		SimplePaybackYears: payback,
		PaybackKnown:       benefit > 0,
		AnnualBenefit:      benefit,
		CapexTotal:         b.CapexTotal,
		Breakdown: Breakdown{
			OpexDiesel:    opexDiesel,
			OpexElectric:  opexElectric,
			OpexSavings:   savings,
			CarbonRevenue: carbon,
			TariffRevenue: tariff,
		},
		CashFlows: flows,
		Inputs:    in,
	}, nil
}

// CashFlows discounts a constant annual benefit over years 1..horizon.
func CashFlows(benefit, capex, rate float64, horizon int) []YearFlow {
	flows := make([]YearFlow, 0, horizon)
	cumulative := -capex
	for y := 1; y <= horizon; y++ {
		d := benefit / math.Pow(1+rate, float64(y))
		cumulative += d
		flows = append(flows, YearFlow{Year: y, Benefit: benefit, Discounted: d, Cumulative: cumulative})
	}
	return flows
}

// NPV is Σ benefit/(1+rate)^y for y in 1..horizon, minus capex.
func NPV(benefit, capex, rate float64, horizon int) float64 {
	npv := -capex
	for y := 1; y <= horizon; y++ {
		npv += benefit / math.Pow(1+rate, float64(y))
	}
	return npv
}
