// Package evapotranspiration estimates potential evapotranspiration with the
// Thornthwaite temperature-index method (and its Camargo effective
// temperature variant) and derives crop evapotranspiration from it.
package evapotranspiration

import (
	"math"

	"github.com/LeonardoBeccarini/labmet/pkg/labmet"
)

// MaxPowerLawTemp is the upper bound of the power-law branch. Above it (or
// below 0 °C) the quadratic high temperature formula is used.
const MaxPowerLawTemp = 26.5

// Thornthwaite holds the validated inputs of one period. The standard ETp is
// the evapotranspiration of a 30 day month with a 12 h photoperiod; every
// intermediate value is rounded to two decimals like the published tables.
type Thornthwaite struct {
	MeanTemp       float64 `json:"mean_temp"`
	Photoperiod    float64 `json:"photoperiod"`
	PeriodDays     int     `json:"period_days"`
	AnnualMeanTemp float64 `json:"annual_mean_temp"`
}

// New validates the period length (1..31 days), the photoperiod and the
// annual mean temperature, which must be positive for the heat index.
func New(meanTemp, photoperiod float64, periodDays int, annualMeanTemp float64) (Thornthwaite, error) {
	if !finite(meanTemp) || !finite(photoperiod) {
		return Thornthwaite{}, labmet.Rangef("non-finite input (temp %v, photoperiod %v)", meanTemp, photoperiod)
	}
	if periodDays < 1 || periodDays > 31 {
		return Thornthwaite{}, labmet.Rangef("period of %d days outside 1..31", periodDays)
	}
	if photoperiod < 0 || photoperiod > 24 {
		return Thornthwaite{}, labmet.Rangef("photoperiod %.2f h outside 0..24", photoperiod)
	}
	if !finite(annualMeanTemp) || annualMeanTemp <= 0 {
		return Thornthwaite{}, labmet.Domainf("annual mean temperature %v °C must be above 0", annualMeanTemp)
	}
	th := Thornthwaite{
		MeanTemp:       meanTemp,
		Photoperiod:    photoperiod,
		PeriodDays:     periodDays,
		AnnualMeanTemp: annualMeanTemp,
	}
	if th.HeatIndex() <= 0 {
		return Thornthwaite{}, labmet.Domainf("heat index of %v °C rounds to 0", annualMeanTemp)
	}
	return th, nil
}

// HeatIndex is I = 12·(0.2·Ta)^1.514.
func (t Thornthwaite) HeatIndex() float64 {
	return round2(12 * math.Pow(0.2*t.AnnualMeanTemp, 1.514))
}

// Exponent is the cubic polynomial a(I).
func (t Thornthwaite) Exponent() float64 {
	return exponent(t.HeatIndex())
}

func exponent(i float64) float64 {
	return round2(0.49239 + 1.7912e-2*i - 7.71e-5*i*i + 6.75e-7*i*i*i)
}

// Correction scales the standard month to the real period and photoperiod.
func (t Thornthwaite) Correction() float64 {
	return round2(t.Photoperiod / 12 * float64(t.PeriodDays) / 30)
}

// StandardETo is the ETp of a standard month in mm.
func (t Thornthwaite) StandardETo() float64 {
	if t.MeanTemp >= 0 && t.MeanTemp <= MaxPowerLawTemp {
		i := t.HeatIndex()
		return round2(16 * math.Pow(10*t.MeanTemp/i, exponent(i)))
	}
	return round2(-415.85 + 32.24*t.MeanTemp - 0.43*t.MeanTemp*t.MeanTemp)
}

// EToMonth is the ETo of the whole period in mm.
func (t Thornthwaite) EToMonth() float64 {
	return round2(t.Correction() * t.StandardETo())
}

// EToDay is the mean daily ETo of the period in mm/day.
func (t Thornthwaite) EToDay() float64 {
	return round2(t.Correction() * t.StandardETo() / float64(t.PeriodDays))
}

// EffectiveTemp is the Camargo effective temperature 0.36·(3·Tmax − Tmin).
// Reversed extremes are swapped.
func EffectiveTemp(tmax, tmin float64) float64 {
	if tmax < tmin {
		tmax, tmin = tmin, tmax
	}
	return round2(0.36 * (3*tmax - tmin))
}

// NewCamargo builds a Thornthwaite estimator fed with the effective
// temperature instead of the mean, for dry climates.
func NewCamargo(tmax, tmin, photoperiod float64, periodDays int, annualMeanTemp float64) (Thornthwaite, error) {
	return New(EffectiveTemp(tmax, tmin), photoperiod, periodDays, annualMeanTemp)
}

// CropET is ETc = ETo · Kc.
func CropET(eto, kc float64) float64 {
	return eto * kc
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
