package engine

import (
	"github.com/MikeSquared-Agency/FleetShift/internal/dataset"
)

type BandImpact struct {
	Description     string  `json:"description"`
	Fare            float64 `json:"fare"`
	NewFare         float64 `json:"new_fare"`
	FractionOfLines float64 `json:"fraction_of_lines"`
	LineCount       int     `json:"line_count"`
}

// TariffImpact is the fare and revenue effect of a tariff increase on the
// selected ridership.
type TariffImpact struct {
	IncreasePct       int          `json:"increase_pct"`
	CurrentFare       float64      `json:"current_fare"`
	NewFare           float64      `json:"new_fare"`
	BaseRevenue       float64      `json:"base_revenue"`
	NewRevenue        float64      `json:"new_revenue"`
	AdditionalRevenue float64      `json:"additional_revenue"`
	Bands             []BandImpact `json:"bands"`
}

func applyIncrease(fare float64, pct int) float64 {
	return fare * (1 + float64(pct)/100)
}

// ProjectTariff applies increasePct to the average fare and to every tariff
// band. bands may be nil.
func ProjectTariff(currentFare float64, increasePct int, passengers float64, bands []dataset.TariffBand) TariffImpact {
	newFare := applyIncrease(currentFare, increasePct)
	base := passengers * currentFare
	projected := passengers * newFare

	out := TariffImpact{
		IncreasePct:       increasePct,
		CurrentFare:       currentFare,
		NewFare:           newFare,
		BaseRevenue:       base,
		NewRevenue:        projected,
		AdditionalRevenue: projected - base,
		Bands:             make([]BandImpact, 0, len(bands)),
	}
	for _, b := range bands {
		out.Bands = append(out.Bands, BandImpact{
			Description:     b.Description,
			Fare:            b.Fare,
			NewFare:         applyIncrease(b.Fare, increasePct),
			FractionOfLines: b.FractionOfLines,
			LineCount:       b.LineCount,
		})
	}
	return out
}
