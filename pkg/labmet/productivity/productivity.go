// Package productivity implements the FAO agro-ecological zone estimate of
// potential productivity and the water-limited obtainable productivity.
package productivity

import (
	"fmt"
	"math"

	"github.com/LeonardoBeccarini/labmet/pkg/labmet"
)

// Unit of the productivity figures.
type Unit int

const (
	// KgPerHectare is kg/hm², the native unit of the model.
	KgPerHectare Unit = iota
	// KgPerSquareMeter is kg/m².
	KgPerSquareMeter
)

func (u Unit) String() string {
	if u == KgPerSquareMeter {
		return "kg/m²"
	}
	return "kg/hm²"
}

func (u Unit) scale(v float64) float64 {
	if u == KgPerSquareMeter {
		return v / 10000
	}
	return v
}

// ParseUnit accepts "kg/hm2", "kg/ha", "kg/m2" and their ² spellings.
func ParseUnit(s string) (Unit, error) {
	switch s {
	case "", "kg/hm2", "kg/hm²", "kg/ha", "hm2":
		return KgPerHectare, nil
	case "kg/m2", "kg/m²", "m2":
		return KgPerSquareMeter, nil
	}
	return 0, fmt.Errorf("%w: unknown productivity unit %q", labmet.ErrRange, s)
}

// Inputs of the raw potential productivity. Either SunshineRatio is set, or
// both Insolation (n, hours) and Photoperiod (N, hours).
type Inputs struct {
	Ho          float64 // extraterrestrial irradiance
	CloudyFix   float64
	ClearFix    float64
	Insolation  float64
	Photoperiod float64

	SunshineRatio *float64
}

// Potential is a validated set of inputs.
type Potential struct {
	ho        float64
	cloudyFix float64
	clearFix  float64
	ratio     float64
}

// New validates in and resolves n/N.
func New(in Inputs) (Potential, error) {
	p := Potential{ho: in.Ho, cloudyFix: in.CloudyFix, clearFix: in.ClearFix}
	switch {
	case in.SunshineRatio != nil:
		p.ratio = *in.SunshineRatio
	case in.Photoperiod > 0:
		p.ratio = in.Insolation / in.Photoperiod
	default:
		return Potential{}, labmet.Rangef("need n/N or a positive photoperiod, got N=%.2f", in.Photoperiod)
	}
	if math.IsNaN(p.ratio) || p.ratio < 0 || p.ratio > 1 {
		return Potential{}, labmet.Rangef("n/N %.3f outside 0..1", p.ratio)
	}
	return p, nil
}

// SunshineRatio is the resolved n/N.
func (p Potential) SunshineRatio() float64 { return p.ratio }

// RawCloudy is the cloudy day share of one day's raw productivity.
func (p Potential) RawCloudy(u Unit) float64 {
	return u.scale((31.7 + 0.219*p.ho) * p.cloudyFix * (1 - p.ratio))
}

// RawClear is the clear day share of one day's raw productivity.
func (p Potential) RawClear(u Unit) float64 {
	return u.scale((107.2 + 0.36*p.ho) * p.clearFix * p.ratio)
}

// Raw is the raw productivity over cycleDays.
func (p Potential) Raw(cycleDays int, u Unit) float64 {
	return (p.RawCloudy(u) + p.RawClear(u)) * float64(cycleDays)
}

// Fixes are the crop corrections applied to the raw productivity.
type Fixes struct {
	LeafArea      float64
	Breathing     float64
	HarvestedPart float64
}

// Potential is the corrected potential productivity over cycleDays.
func (p Potential) Potential(f Fixes, cycleDays int, u Unit) float64 {
	return p.Raw(cycleDays, u) * f.LeafArea * f.Breathing * f.HarvestedPart
}

// Obtainable is the water-limited productivity
// (1 − Ky·(1 − ETc/ETo))·Pp. It is 0 when ETo is 0 or the yield loss
// exceeds the potential.
func Obtainable(ky, eto, etc, potential float64) float64 {
	if eto == 0 {
		return 0
	}
	v := (1 - ky*(1-etc/eto)) * potential
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
