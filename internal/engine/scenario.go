package engine

import (
	"github.com/MikeSquared-Agency/FleetShift/internal/dataset"
)

// UnknownPayback is the payback sentinel for scenarios that are missing or
// never pay back. It is not a duration.
const UnknownPayback = 999.0

// PaybackChartCutoffYears drops paybacks too long to be meaningful on the
// scenario chart.
const PaybackChartCutoffYears = 30.0

func PaybackUnknown(years float64) bool {
	return years >= UnknownPayback
}

// ScenarioOutcome is the financial result for one tariff increase. NPV is
// scaled to the operator selection; payback and IRR are not.
type ScenarioOutcome struct {
	TariffIncreasePct int      `json:"tariff_increase_pct"`
	NPV               float64  `json:"npv"`
	PaybackYears      float64  `json:"payback_years"`
	IRRPct            *float64 `json:"irr_pct"`
	Found             bool     `json:"found"`
}

// ScenarioTable resolves tariff increases by exact match.
type ScenarioTable struct {
	byPct map[int]dataset.FinancialScenario
	rows  []dataset.FinancialScenario
}

// NewScenarioTable indexes rows by tariff increase; on duplicate keys the
// first row wins.
func NewScenarioTable(rows []dataset.FinancialScenario) *ScenarioTable {
	t := &ScenarioTable{
		byPct: make(map[int]dataset.FinancialScenario, len(rows)),
		rows:  rows,
	}
	for _, r := range rows {
		if _, dup := t.byPct[r.TariffIncreasePct]; dup {
			continue
		}
		t.byPct[r.TariffIncreasePct] = r
	}
	return t
}

func (t *ScenarioTable) Len() int { return len(t.byPct) }

// Resolve looks up pct exactly. A miss returns {npv 0, payback 999, irr 0}
// with Found false; there is no interpolation or nearest match.
func (t *ScenarioTable) Resolve(pct int, scaleFactor float64) ScenarioOutcome {
	row, ok := t.byPct[pct]
	if !ok {
		zero := 0.0
		return ScenarioOutcome{
			TariffIncreasePct: pct,
			NPV:               0,
			PaybackYears:      UnknownPayback,
			IRRPct:            &zero,
			Found:             false,
		}
	}

	out := ScenarioOutcome{
		TariffIncreasePct: pct,
		NPV:               row.NPV * scaleFactor,
		PaybackYears:      row.SimplePaybackYears,
		Found:             true,
	}
	if row.IRRPct != nil {
		irr := *row.IRRPct
		out.IRRPct = &irr
	}
	return out
}

type SeriesPoint struct {
	TariffIncreasePct int     `json:"tariff_increase_pct"`
	Value             float64 `json:"value"`
}

// ScenarioView is the scenario table prepared for the viability charts.
type ScenarioView struct {
	Rows    []dataset.FinancialScenario `json:"rows"`
	NPV     []SeriesPoint               `json:"npv"`
	Payback []SeriesPoint               `json:"payback"`
	IRR     []SeriesPoint               `json:"irr"`
}

// View returns every row's NPV, paybacks under PaybackChartCutoffYears and
// the IRRs that exist, in table order.
func (t *ScenarioTable) View() ScenarioView {
	v := ScenarioView{
		Rows:    t.rows,
		NPV:     []SeriesPoint{},
		Payback: []SeriesPoint{},
		IRR:     []SeriesPoint{},
	}
	for _, r := range t.rows {
		v.NPV = append(v.NPV, SeriesPoint{r.TariffIncreasePct, r.NPV})
		if r.SimplePaybackYears < PaybackChartCutoffYears {
			v.Payback = append(v.Payback, SeriesPoint{r.TariffIncreasePct, r.SimplePaybackYears})
		}
		if r.IRRPct != nil {
			v.IRR = append(v.IRR, SeriesPoint{r.TariffIncreasePct, *r.IRRPct})
		}
	}
	return v
}
