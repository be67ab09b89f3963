package entities

import (
	"fmt"

	"github.com/LeonardoBeccarini/labmet/pkg/labmet/aquacrop"
)

// Plot represents a tract of land growing one crop, observed by one station.
type Plot struct {
	ID        string `json:"id" yaml:"id"`
	StationID string `json:"station_id" yaml:"station_id"`
	Crop      string `json:"crop" yaml:"crop"` // e.g. "potato", "corn"

	Latitude       float64  `json:"latitude" yaml:"latitude"`
	AWC            float64  `json:"awc" yaml:"awc"` // mm
	CycleDays      int      `json:"n_days" yaml:"n_days"`
	PeakLAI        float64  `json:"peak_l_a_index" yaml:"peak_l_a_index"`
	EToMultiplier  float64  `json:"eto_culture" yaml:"eto_culture"`
	Ky             float64  `json:"ky" yaml:"ky"`
	AnnualMeanTemp float64  `json:"avg_year_temp" yaml:"avg_year_temp"`
	SoilMoisture   *float64 `json:"soil_moisture,omitempty" yaml:"soil_moisture,omitempty"` // initial, mm

	Phenology *Phenology  `json:"phenology,omitempty" yaml:"phenology,omitempty"`
	Alerts    AlertPolicy `json:"alerts" yaml:"alerts"`
}

// AquaCropConfig maps the plot onto the simulation set-up.
func (p Plot) AquaCropConfig() (aquacrop.Config, error) {
	cfg := aquacrop.Config{
		Crop:                p.Crop,
		Ky:                  p.Ky,
		Latitude:            p.Latitude,
		EToMultiplier:       p.EToMultiplier,
		AnnualMeanTemp:      p.AnnualMeanTemp,
		CycleDays:           p.CycleDays,
		PeakLAI:             p.PeakLAI,
		AWC:                 p.AWC,
		InitialSoilMoisture: p.SoilMoisture,
	}
	if cfg.EToMultiplier == 0 && p.Phenology != nil {
		kc, err := p.Phenology.Kc(p.Crop)
		if err != nil {
			return aquacrop.Config{}, fmt.Errorf("plot %s: %w", p.ID, err)
		}
		cfg.EToMultiplier = kc
	}
	return cfg, nil
}
