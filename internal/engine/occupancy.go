package engine

import "math"

// OccupancyState is the risk band of a projected occupancy percentage.
type OccupancyState string

const (
	Comfortable   OccupancyState = "comfortable"
	UnderPressure OccupancyState = "under_pressure"
	Saturated     OccupancyState = "saturated"
)

// Headroom is how far the system is from the safe capacity limit, expressed
// both in occupancy points and in additional daily users.
type Headroom struct {
	RemainingPct    float64 `json:"remaining_pct"`
	UsersUntilLimit float64 `json:"users_until_limit"`
	Applicable      bool    `json:"applicable"`
}

type Classification struct {
	State           OccupancyState `json:"state"`
	OccupancyPct    float64        `json:"occupancy_pct"`
	ComfortLimitPct float64        `json:"comfort_limit_pct"`
	SafeLimitPct    float64        `json:"safe_limit_pct"`
	Headroom        Headroom       `json:"headroom"`
}

// Classifier maps occupancy percentages to risk states. It is stateless
// between calls.
type Classifier struct {
	comfort      float64
	limit        float64
	tripsPerYear float64
}

func NewClassifier(c Constants) *Classifier {
	return &Classifier{
		comfort:      c.ComfortLimitPct,
		limit:        c.SafeLimitPct,
		tripsPerYear: c.TripsPerUserPerYear(),
	}
}

// State: below comfort is comfortable, [comfort, limit) is under pressure,
// limit and above is saturated.
func (c *Classifier) State(pct float64) OccupancyState {
	switch {
	case pct < c.comfort:
		return Comfortable
	case pct < c.limit:
		return UnderPressure
	default:
		return Saturated
	}
}

// Headroom converts the gap between currentPct and the safe limit into daily
// users by inverting the demand projection. At or above the limit, or for a
// non-finite input, there is no headroom.
func (c *Classifier) Headroom(currentPct, capacity float64) Headroom {
	remaining := c.limit - currentPct
	if !(remaining > 0) || math.IsInf(remaining, 0) {
		return Headroom{}
	}
	users := remaining / 100 * capacity / c.tripsPerYear
	if math.IsNaN(users) || math.IsInf(users, 0) {
		return Headroom{}
	}
	return Headroom{
		RemainingPct:    remaining,
		UsersUntilLimit: users,
		Applicable:      true,
	}
}

// Classify bands projectedPct and computes headroom from currentPct.
func (c *Classifier) Classify(projectedPct, currentPct, capacity float64) Classification {
	return Classification{
		State:           c.State(projectedPct),
		OccupancyPct:    projectedPct,
		ComfortLimitPct: c.comfort,
		SafeLimitPct:    c.limit,
		Headroom:        c.Headroom(currentPct, capacity),
	}
}
