package messages

import "time"

// RainEvent tells a simulated station that water is reaching its soil probe
// (rain or a manual irrigation) for Duration.
type RainEvent struct {
	StationID string        `json:"station_id"`
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
}
