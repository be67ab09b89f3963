package messages

import "time"

// Alert kinds.
const (
	AlertDrySoil       = "dry_soil"
	AlertWaterStress   = "water_stress"
	AlertProcessFailed = "process_failed"
)

// AlertEvent is published by the aquacrop service when a plot needs
// attention. It is aligned with the other events in this package.
type AlertEvent struct {
	ID        string    `json:"id"`
	PlotID    string    `json:"plot_id"`
	Kind      string    `json:"kind"`     // dry_soil | water_stress | process_failed
	Severity  string    `json:"severity"` // info | warning | critical
	Message   string    `json:"message"`
	Value     float64   `json:"value"`     // observed value that triggered the alert
	Threshold float64   `json:"threshold"` // configured limit
	Timestamp time.Time `json:"timestamp"`
}
