// Package fixes holds the correction factors of the FAO potential
// productivity model (Doorenbos & Kassam; Barbieri & Tuon): temperature,
// leaf area index, breathing, harvested part and humidity, plus the sensor
// input conversions used to feed them.
package fixes

import (
	"fmt"
	"math"
	"time"

	"github.com/LeonardoBeccarini/labmet/pkg/labmet"
	"github.com/LeonardoBeccarini/labmet/pkg/labmet/crop"
)

// Class selects the temperature fix polynomials.
type Class int

const (
	C3Winter Class = iota
	C3Summer
	C4
)

func (c Class) String() string {
	switch c {
	case C3Winter:
		return "c3-winter"
	case C3Summer:
		return "c3-summer"
	case C4:
		return "c4"
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// ClassFor picks the class of a pathway on a date. C3 crops follow the
// season at the latitude: southern summer is October to March, northern
// summer April to September.
func ClassFor(p crop.Pathway, date time.Time, lat float64) Class {
	if p == crop.C4 {
		return C4
	}
	m := date.Month()
	northSummer := m >= time.April && m <= time.September
	if (lat >= 0) == northSummer {
		return C3Summer
	}
	return C3Winter
}

// TemperatureFix is the pair of temperature corrections for a day.
type TemperatureFix struct {
	Cloudy float64 `json:"cloudy"`
	Clear  float64 `json:"clear"`
}

// Temperature returns the cloudy and clear day corrections of class c at the
// mean temperature t (°C).
func Temperature(c Class, t float64) (TemperatureFix, error) {
	t2 := t * t
	switch c {
	case C3Winter:
		if t >= 15 && t <= 20 {
			return TemperatureFix{
				Cloudy: 0.7 + 0.0035*t - 0.001*t2,
				Clear:  0.25 + 0.0875*t - 0.0025*t2,
			}, nil
		}
		return TemperatureFix{
			Cloudy: 0.25 + 0.0875*t - 0.0025*t2,
			Clear:  -0.5 + 0.175*t - 0.005*t2,
		}, nil
	case C3Summer:
		t3 := t2 * t
		if t >= 16.5 && t <= 37 {
			return TemperatureFix{
				Cloudy: 0.583 + 0.014*t + 0.0013*t2 - 0.000037*t3,
				Clear:  -0.0425 + 0.035*t + 0.00325*t2 - 0.0000925*t3,
			}, nil
		}
		return TemperatureFix{
			Cloudy: -0.0425 + 0.035*t + 0.00325*t2 - 0.0000925*t3,
			Clear:  -1.085 + 0.07*t + 0.0065*t2 - 0.000185*t3,
		}, nil
	case C4:
		if t >= 16.5 {
			return TemperatureFix{
				Cloudy: -1.064 + 0.173*t - 0.0029*t2,
				Clear:  -9.32 + 0.865*t - 0.0145*t2,
			}, nil
		}
		v := -4.16 + 0.4325*t - 0.00725*t2
		return TemperatureFix{Cloudy: v, Clear: v}, nil
	}
	return TemperatureFix{}, fmt.Errorf("%w: unknown temperature class %d", labmet.ErrRange, int(c))
}

// MaxLeafAreaFix caps the leaf area index correction.
const MaxLeafAreaFix = 5.0

// LeafArea is the de Wit leaf area index correction for a peak LAI.
func LeafArea(lai float64) float64 {
	return math.Min(0.0093+0.185*lai-0.0175*lai*lai, MaxLeafAreaFix)
}

// Breathing is the respiration correction: 0.6 at 20 °C and above, 0.5 below.
func Breathing(t float64) float64 {
	if t >= 20 {
		return 0.6
	}
	return 0.5
}

// Range is a table correction with its harvested part.
type Range struct {
	Part    string  `json:"part"`
	Min     float64 `json:"minimum"`
	Max     float64 `json:"maximum"`
	Average float64 `json:"average"`
}

// HarvestedPart returns the harvested fraction range of a crop.
func HarvestedPart(name string) (Range, error) {
	p, err := crop.Lookup(name)
	if err != nil {
		return Range{}, err
	}
	return newRange(p.HarvestedPart, p.HarvestLimits), nil
}

// Humidity returns the harvested part humidity range (%) of a crop.
func Humidity(name string) (Range, error) {
	p, err := crop.Lookup(name)
	if err != nil {
		return Range{}, err
	}
	return newRange(p.HarvestedPart, p.Humidity), nil
}

func newRange(part string, l crop.Limits) Range {
	return Range{Part: part, Min: l.Min, Max: l.Max, Average: l.Average()}
}

// SaturationLux is the illuminance treated as full sunshine.
const SaturationLux = 20000.0

// SunshineRatio estimates n/N from illuminance.
func SunshineRatio(lux float64) float64 {
	if lux <= 0 {
		return 0
	}
	return math.Min(lux/SaturationLux, 1)
}

// SoilMoistureToMM converts a probe percentage into mm of stored water.
// The percentage is clamped to 0..100.
func SoilMoistureToMM(pct, awc float64) float64 {
	pct = math.Max(0, math.Min(pct, 100))
	return awc * pct / 100
}

// MMToSoilMoisture is the inverse of SoilMoistureToMM.
func MMToSoilMoisture(mm, awc float64) (float64, error) {
	if !(awc > 0) {
		return 0, labmet.Rangef("awc %.2f must be positive", awc)
	}
	return mm / awc * 100, nil
}
