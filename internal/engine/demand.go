package engine

import (
	"fmt"
	"math"
)

// Projection is ridership and occupancy after absorbing new daily users.
type Projection struct {
	NewUsersPerDay        float64 `json:"new_users_per_day"`
	AdditionalTripsPerYr  float64 `json:"additional_trips_per_year"`
	CurrentPassengers     float64 `json:"current_passengers"`
	ProjectedPassengers   float64 `json:"projected_passengers"`
	CurrentOccupancyPct   float64 `json:"current_occupancy_pct"`
	ProjectedOccupancyPct float64 `json:"projected_occupancy_pct"`
}

// ProjectDemand adds newUsersPerDay × trips/day × days/year to the scaled
// passenger count and recomputes occupancy against the scaled capacity. Both
// occupancies use the same formula, so zero new users gives identical values.
func ProjectDemand(newUsersPerDay, passengers, capacity float64, c Constants) (Projection, error) {
	if math.IsNaN(newUsersPerDay) || newUsersPerDay < 0 {
		return Projection{}, fmt.Errorf("%w: new users per day must be non-negative", ErrInvalidFilter)
	}
	if capacity <= 0 {
		return Projection{}, NewConfigurationError("project demand", fmt.Sprintf("scaled capacity must be positive, got %f", capacity))
	}

	additional := newUsersPerDay * c.TripsPerUserPerYear()
	projected := passengers + additional
	projectedPct := occupancyPct(projected, capacity)
	if math.IsInf(projected, 0) || math.IsInf(projectedPct, 0) || math.IsNaN(projectedPct) {
		return Projection{}, NewConfigurationError("project demand", fmt.Sprintf("projection overflows for %g new users per day", newUsersPerDay))
	}

	return Projection{
		NewUsersPerDay:        newUsersPerDay,
		AdditionalTripsPerYr:  additional,
		CurrentPassengers:     passengers,
		ProjectedPassengers:   projected,
		CurrentOccupancyPct:   occupancyPct(passengers, capacity),
		ProjectedOccupancyPct: projectedPct,
	}, nil
}

func occupancyPct(passengers, capacity float64) float64 {
	return passengers / capacity * 100
}
