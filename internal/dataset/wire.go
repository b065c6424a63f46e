package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// File names produced by the upstream data pipeline.
const (
	KPIsFile      = "kpis_base.json"
	DashboardFile = "dashboard_data_REAL.json"
)

// kpisDocument mirrors kpis_base.json. Counts are decoded as float64 because
// the pipeline writes them from dataframes and they often carry a ".0".
type kpisDocument struct {
	TotalBuses       float64                   `json:"total_onibus"`
	TotalLines       float64                   `json:"total_linhas"`
	TotalStops       float64                   `json:"total_paradas"`
	AnnualKm         float64                   `json:"km_anual"`
	AnnualPassengers float64                   `json:"passageiros_ano"`
	CO2AvoidedTons   float64                   `json:"emissoes_evitadas_ton"`
	OccupancyRate    float64                   `json:"taxa_ocupacao_atual"`
	AnnualCapacity   float64                   `json:"capacidade_total_ano"`
	AverageFare      float64                   `json:"tarifa_media_atual"`
	CapexTotal       float64                   `json:"capex_total"`
	Tariffs          map[string]tariffDocument `json:"distribuicao_tarifas,omitempty"`
}

type tariffDocument struct {
	Pct         float64 `json:"pct"`
	Lines       int     `json:"linhas"`
	Description string  `json:"descricao"`
}

type dashboardDocument struct {
	Operators []string           `json:"operadoras"`
	Scenarios []scenarioDocument `json:"cenarios_financeiros"`
}

type scenarioDocument struct {
	IncreasePct float64  `json:"aumento_pct"`
	NPV         float64  `json:"vpl"`
	Payback     float64  `json:"payback_simples"`
	IRR         *float64 `json:"tir"`
}

// Decode builds a Snapshot from the raw KPI and dashboard documents.
func Decode(source string, kpisJSON, dashboardJSON []byte) (*Snapshot, error) {
	var kd kpisDocument
	if err := json.Unmarshal(kpisJSON, &kd); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrDataLoad, KPIsFile, err)
	}
	var dd dashboardDocument
	if err := json.Unmarshal(dashboardJSON, &dd); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrDataLoad, DashboardFile, err)
	}

	tariffs, err := decodeTariffs(kd.Tariffs)
	if err != nil {
		return nil, err
	}

	kpis := BaseKPIs{
		TotalBuses:           int(kd.TotalBuses),
		TotalLines:           int(kd.TotalLines),
		TotalStops:           int(kd.TotalStops),
		AnnualKm:             kd.AnnualKm,
		AnnualPassengers:     kd.AnnualPassengers,
		CO2AvoidedTons:       kd.CO2AvoidedTons,
		CurrentOccupancyRate: kd.OccupancyRate,
		AnnualCapacity:       kd.AnnualCapacity,
		CurrentAverageFare:   kd.AverageFare,
		CapexTotal:           kd.CapexTotal,
	}

	scenarios := make([]FinancialScenario, 0, len(dd.Scenarios))
	for _, s := range dd.Scenarios {
		scenarios = append(scenarios, FinancialScenario{
			TariffIncreasePct:  int(math.Round(s.IncreasePct)),
			NPV:                s.NPV,
			SimplePaybackYears: s.Payback,
			IRRPct:             s.IRR,
		})
	}

	return newSnapshot(source, kpis, dd.Operators, scenarios, tariffs), nil
}

func decodeTariffs(in map[string]tariffDocument) ([]TariffBand, error) {
	if len(in) == 0 {
		return nil, nil
	}
	bands := make([]TariffBand, 0, len(in))
	for key, td := range in {
		fare, err := strconv.ParseFloat(key, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: tariff key %q is not a fare", ErrDataLoad, key)
		}
		bands = append(bands, TariffBand{
			Fare:            fare,
			FractionOfLines: td.Pct,
			LineCount:       td.Lines,
			Description:     td.Description,
		})
	}
	sort.Slice(bands, func(i, j int) bool { return bands[i].Fare < bands[j].Fare })
	return bands, nil
}
