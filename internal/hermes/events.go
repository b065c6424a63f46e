package hermes

import "time"

type DatasetReloadedEvent struct {
	SnapshotID  string    `json:"snapshot_id"`
	PreviousID  string    `json:"previous_snapshot_id,omitempty"`
	Source      string    `json:"source"`
	Operators   int       `json:"operators"`
	Scenarios   int       `json:"scenarios"`
	TriggeredBy string    `json:"triggered_by"`
	LoadedAt    time.Time `json:"loaded_at"`
}

type DatasetReloadFailedEvent struct {
	Source      string    `json:"source"`
	Error       string    `json:"error"`
	TriggeredBy string    `json:"triggered_by"`
	Timestamp   time.Time `json:"timestamp"`
}

type DatasetReloadRequest struct {
	RequestedBy string `json:"requested_by,omitempty"`
}

// SimulationCompletedEvent carries the headline numbers of one what-if run.
type SimulationCompletedEvent struct {
	RunID              string    `json:"run_id"`
	SnapshotID         string    `json:"snapshot_id"`
	TariffIncreasePct  float64   `json:"tariff_increase_pct"`
	NPV                float64   `json:"npv"`
	SimplePaybackYears float64   `json:"simple_payback_years"`
	AnnualBenefit      float64   `json:"annual_benefit"`
	Analyst            string    `json:"analyst,omitempty"`
	Timestamp          time.Time `json:"timestamp"`
}
