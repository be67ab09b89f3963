// Package waterbalance implements the Thornthwaite–Mather soil water
// balance: a bookkeeping of storage, accumulated negative, real
// evapotranspiration, deficit and excess updated once per period.
package waterbalance

import (
	"math"

	"github.com/LeonardoBeccarini/labmet/pkg/labmet"
)

// Report is the accounting state after an update.
type Report struct {
	PrecipitationPET    float64 `json:"precipitation_pet"`
	Storage             float64 `json:"soil_water_moisture"`
	AccumulatedNegative float64 `json:"accumulated_negative"`
	Variation           float64 `json:"variation"`
	RealET              float64 `json:"real_et"`
	PET                 float64 `json:"pet"`
	Deficit             float64 `json:"deficit"`
	Excess              float64 `json:"excess"`
	Precipitation       float64 `json:"precipitation"`
}

// Accountant owns the balance of one soil column. It is not safe for
// concurrent use; callers serialize updates. The zero value is not usable,
// build it with New.
type Accountant struct {
	awc         float64
	prevStorage float64

	// accumulated negative and variation start unset; the first update
	// seeds them from the sign of P − PET.
	accSet bool
	varSet bool

	report  Report
	updated bool
}

// New returns an accountant for a soil with the given available water
// capacity (mm) and initial storage (mm).
func New(awc, initialStorage float64) (*Accountant, error) {
	if !(awc > 0) || math.IsInf(awc, 1) {
		return nil, labmet.Rangef("awc %.2f must be positive", awc)
	}
	if !(initialStorage >= 0) || initialStorage > awc {
		return nil, labmet.Rangef("initial storage %.2f outside 0..%.2f", initialStorage, awc)
	}
	return &Accountant{
		awc:         awc,
		prevStorage: initialStorage,
		report:      Report{Storage: initialStorage},
	}, nil
}

// Simple builds an accountant with empty storage and applies one update.
func Simple(awc, precipitation, pet float64) (*Accountant, error) {
	a, err := New(awc, 0)
	if err != nil {
		return nil, err
	}
	if _, err := a.Update(precipitation, pet); err != nil {
		return nil, err
	}
	return a, nil
}

// AWC is the available water capacity in mm.
func (a *Accountant) AWC() float64 { return a.awc }

// Update books one period of precipitation and potential evapotranspiration
// and returns the new report. Non-finite inputs fail with labmet.ErrRange
// and leave the balance untouched.
func (a *Accountant) Update(precipitation, pet float64) (Report, error) {
	for _, v := range []float64{precipitation, pet} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Report{}, labmet.Rangef("non-finite input (precipitation %v, pet %v)", precipitation, pet)
		}
	}
	r := a.report
	delta := precipitation - pet
	surplus := delta >= 0

	switch {
	case !a.accSet:
		if surplus {
			r.AccumulatedNegative = 0
		} else {
			r.AccumulatedNegative = delta
		}
		a.accSet = true
	case surplus:
		if s := a.surplusStorage(delta); s > 0 {
			r.AccumulatedNegative = a.awc * math.Log(s/a.awc)
		}
		// an empty column has no defined log; the previous value stands
	default:
		r.AccumulatedNegative = -math.Abs(r.AccumulatedNegative) + delta
	}

	if surplus {
		r.Storage = a.surplusStorage(delta)
	} else {
		r.Storage = a.awc * math.Exp(-math.Abs(r.AccumulatedNegative)/a.awc)
	}

	switch {
	case a.varSet:
		r.Variation = r.Storage - a.prevStorage
	case surplus:
		r.Variation = 0
	default:
		r.Variation = r.Storage - a.awc
	}
	a.varSet = true
	a.prevStorage = r.Storage

	if surplus {
		r.RealET = pet
		r.Deficit = 0
	} else {
		r.RealET = precipitation + math.Abs(r.Variation)
		r.Deficit = pet - r.RealET
	}

	if r.Storage < a.awc {
		r.Excess = 0
	} else {
		r.Excess = delta - r.Variation
	}

	r.PrecipitationPET = delta
	r.PET = pet
	r.Precipitation = precipitation
	a.report = r
	a.updated = true
	return r, nil
}

// Report returns the last update without changing anything. It fails with
// labmet.ErrState before the first Update.
func (a *Accountant) Report() (Report, error) {
	if !a.updated {
		return Report{}, labmet.ErrState
	}
	return a.report, nil
}

// Storage is the current soil water storage in mm.
func (a *Accountant) Storage() float64 { return a.prevStorage }

// Clone returns an independent copy, used to stage an update that may be
// discarded.
func (a *Accountant) Clone() *Accountant {
	c := *a
	return &c
}

func (a *Accountant) surplusStorage(delta float64) float64 {
	return math.Min(a.prevStorage+delta, a.awc)
}
