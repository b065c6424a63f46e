package engine

import (
	"github.com/MikeSquared-Agency/FleetShift/internal/dataset"
)

// Scale is the share of the system represented by the selected operators.
// Fallback is set when nothing was selected and the factor defaulted to 1.0;
// in that case the KPIs describe the whole system, not a chosen subset.
type Scale struct {
	Factor   float64 `json:"factor"`
	Selected int     `json:"selected"`
	Total    int     `json:"total"`
	Fallback bool    `json:"fallback"`
}

// ScaledKPIs are the absolute KPIs multiplied by the scale factor. Counts are
// truncated toward zero.
type ScaledKPIs struct {
	Buses            int     `json:"buses"`
	Lines            int     `json:"lines"`
	Stops            int     `json:"stops"`
	AnnualKm         float64 `json:"annual_km"`
	AnnualPassengers float64 `json:"annual_passengers"`
	CO2AvoidedTons   float64 `json:"co2_avoided_tons"`
	AnnualCapacity   float64 `json:"annual_capacity"`
}

// ScaleFactor returns |selected ∩ universe| / |universe|, counting each
// operator once. An empty selection yields 1.0 with Fallback set.
func ScaleFactor(selected, universe []string) (Scale, error) {
	total := len(universe)
	if total == 0 {
		return Scale{}, NewConfigurationError("scale", "operator universe is empty")
	}

	inUniverse := make(map[string]bool, total)
	for _, op := range universe {
		inUniverse[op] = true
	}
	counted := make(map[string]bool, len(selected))
	for _, op := range selected {
		if inUniverse[op] {
			counted[op] = true
		}
	}

	n := len(counted)
	if n == 0 {
		return Scale{Factor: 1.0, Selected: 0, Total: total, Fallback: true}, nil
	}
	return Scale{Factor: float64(n) / float64(total), Selected: n, Total: total}, nil
}

func ScaleKPIs(k dataset.BaseKPIs, s Scale) ScaledKPIs {
	f := s.Factor
	return ScaledKPIs{
		Buses:            int(float64(k.TotalBuses) * f),
		Lines:            int(float64(k.TotalLines) * f),
		Stops:            int(float64(k.TotalStops) * f),
		AnnualKm:         k.AnnualKm * f,
		AnnualPassengers: k.AnnualPassengers * f,
		CO2AvoidedTons:   k.CO2AvoidedTons * f,
		AnnualCapacity:   k.AnnualCapacity * f,
	}
}
