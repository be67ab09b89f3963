package entities

import (
	"fmt"

	"github.com/LeonardoBeccarini/labmet/pkg/labmet"
	"github.com/LeonardoBeccarini/labmet/pkg/labmet/crop"
)

// Phenology optionally pins the growth stage of a plot. When set and the
// plot has no explicit ETo multiplier, the stage Kc is used instead.
type Phenology struct {
	Stage crop.Stage `json:"stage" yaml:"stage"`
	// Typical relative humidity (%) and wind speed (m/s) of the site, used
	// to pick the Kc inside the table range.
	Humidity  float64 `json:"rh_pct" yaml:"rh_pct"`
	WindSpeed float64 `json:"wind_ms" yaml:"wind_ms"`
}

// Kc returns the crop coefficient of the stage for the named crop.
func (p Phenology) Kc(cropName string) (float64, error) {
	prof, err := crop.Lookup(cropName)
	if err != nil {
		return 0, err
	}
	kc, err := prof.Coefficients(p.Humidity, p.WindSpeed)
	if err != nil {
		return 0, err
	}
	v, ok := kc[p.Stage]
	if !ok {
		return 0, fmt.Errorf("%w: stage %q of %s", labmet.ErrNotFound, p.Stage, cropName)
	}
	return v, nil
}
