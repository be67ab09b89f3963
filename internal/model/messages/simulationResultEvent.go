package messages

import "time"

// SimulationResultEvent is published by the aquacrop service after every
// processed reading.
type SimulationResultEvent struct {
	ID        string `json:"id"`
	PlotID    string `json:"plot_id"`
	StationID string `json:"station_id"`
	Crop      string `json:"crop"`

	ETo           float64 `json:"eto"`
	ETc           float64 `json:"etc"`
	Precipitation float64 `json:"precipitation"`
	Potential     float64 `json:"potential_productivity"`
	Obtainable    float64 `json:"obtainable_productivity"`
	Unit          string  `json:"unit"`

	SoilMoisture float64 `json:"soil_moisture"` // mm
	Storage      float64 `json:"soil_water_storage"`
	Deficit      float64 `json:"deficit"`
	Excess       float64 `json:"excess"`

	WaterStressed bool      `json:"water_stressed"`
	ReadingAt     time.Time `json:"reading_at"`
	Timestamp     time.Time `json:"timestamp"`
}
