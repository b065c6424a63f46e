package engine

import (
	"fmt"
	"math"
)

// FilterSelection is the analyst's operator subset plus demand and tariff
// scenario inputs.
type FilterSelection struct {
	SelectedOperators []string `json:"selected_operators"`
	NewUsersPerDay    float64  `json:"new_users_per_day"`
	TariffIncreasePct int      `json:"tariff_increase_pct"`
}

// Validate checks the selection against the operator universe. Unknown
// operators and negative or non-finite user counts are rejected.
func (f FilterSelection) Validate(universe []string) error {
	known := make(map[string]bool, len(universe))
	for _, op := range universe {
		known[op] = true
	}
	for _, op := range f.SelectedOperators {
		if !known[op] {
			return fmt.Errorf("%w: unknown operator %q", ErrInvalidFilter, op)
		}
	}
	if math.IsNaN(f.NewUsersPerDay) || math.IsInf(f.NewUsersPerDay, 0) || f.NewUsersPerDay < 0 {
		return fmt.Errorf("%w: new users per day must be a non-negative number", ErrInvalidFilter)
	}
	return nil
}
