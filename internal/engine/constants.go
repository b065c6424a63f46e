package engine

import (
	"fmt"

	"github.com/MikeSquared-Agency/FleetShift/internal/config"
)

// Constants parameterise demand projection and occupancy classification.
type Constants struct {
	TripsPerUserPerDay float64
	DaysPerYear        float64
	ComfortLimitPct    float64
	SafeLimitPct       float64
}

// DefaultConstants returns three trips per user per day over a 365-day year,
// with the comfort band ending at 70% and the safe capacity limit at 78%.
func DefaultConstants() Constants {
	return Constants{
		TripsPerUserPerDay: 3,
		DaysPerYear:        365,
		ComfortLimitPct:    70.0,
		SafeLimitPct:       78.0,
	}
}

func ConstantsFromConfig(cfg config.EngineConfig) Constants {
	return Constants{
		TripsPerUserPerDay: cfg.TripsPerUserPerDay,
		DaysPerYear:        cfg.DaysPerYear,
		ComfortLimitPct:    cfg.ComfortLimitPct,
		SafeLimitPct:       cfg.SafeLimitPct,
	}
}

// TripsPerUserPerYear is the annual ridership added by one new daily user.
func (c Constants) TripsPerUserPerYear() float64 {
	return c.TripsPerUserPerDay * c.DaysPerYear
}

func (c Constants) Validate() error {
	if c.TripsPerUserPerDay <= 0 {
		return NewConfigurationError("constants", fmt.Sprintf("trips per user per day must be positive, got %f", c.TripsPerUserPerDay))
	}
	if c.DaysPerYear <= 0 {
		return NewConfigurationError("constants", fmt.Sprintf("days per year must be positive, got %f", c.DaysPerYear))
	}
	if c.ComfortLimitPct <= 0 || c.ComfortLimitPct > c.SafeLimitPct {
		return NewConfigurationError("constants", fmt.Sprintf("comfort limit %.2f must be in (0, safe limit %.2f]", c.ComfortLimitPct, c.SafeLimitPct))
	}
	return nil
}
