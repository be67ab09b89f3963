package entities

// Station is a weather station installed on (or near) a plot.
type Station struct {
	ID        string  `json:"id" yaml:"id"` // unique station identifier
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	Altitude  float64 `json:"altitude,omitempty" yaml:"altitude,omitempty"` // m
}
