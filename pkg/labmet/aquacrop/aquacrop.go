// Package aquacrop chains the labmet models into one stateful simulation per
// crop plot. Each reading refreshes radiation and ETo, corrects the
// potential productivity for the crop, derives the water-limited yield and
// advances the soil water state.
package aquacrop

import (
	"math"
	"sync"
	"time"

	"github.com/LeonardoBeccarini/labmet/pkg/labmet"
	"github.com/LeonardoBeccarini/labmet/pkg/labmet/crop"
	"github.com/LeonardoBeccarini/labmet/pkg/labmet/evapotranspiration"
	"github.com/LeonardoBeccarini/labmet/pkg/labmet/fixes"
	"github.com/LeonardoBeccarini/labmet/pkg/labmet/productivity"
	"github.com/LeonardoBeccarini/labmet/pkg/labmet/radiation"
	"github.com/LeonardoBeccarini/labmet/pkg/labmet/waterbalance"
)

// Config is the static set-up of a plot.
type Config struct {
	Crop           string  `json:"crop" yaml:"crop"`
	Ky             float64 `json:"ky" yaml:"ky"` // 0 takes the crop profile value
	Latitude       float64 `json:"latitude" yaml:"latitude"`
	EToMultiplier  float64 `json:"eto_culture" yaml:"eto_culture"` // 0 means 1
	AnnualMeanTemp float64 `json:"avg_year_temp" yaml:"avg_year_temp"`
	CycleDays      int     `json:"n_days" yaml:"n_days"`
	PeakLAI        float64 `json:"peak_l_a_index" yaml:"peak_l_a_index"`
	AWC            float64 `json:"awc" yaml:"awc"`

	// InitialSoilMoisture in mm; nil starts at field capacity (AWC).
	InitialSoilMoisture *float64 `json:"soil_moisture,omitempty" yaml:"soil_moisture,omitempty"`
}

// Reading is one sensor snapshot for the plot.
type Reading struct {
	Time         time.Time `json:"time"`
	Temperature  float64   `json:"temperature"`   // mean air temperature, °C
	Illuminance  float64   `json:"illuminance"`   // lux
	SoilMoisture float64   `json:"soil_moisture"` // probe reading, %
}

// State is what the model carries from one reading to the next.
type State struct {
	ETo           float64   `json:"eto"`
	ETc           float64   `json:"etc"`
	Precipitation float64   `json:"precipitation"`
	SoilMoisture  float64   `json:"soil_moisture"` // mm
	Processed     int       `json:"processed"`
	LastReading   time.Time `json:"last_reading"`
}

// Running reports whether at least one reading has been processed.
func (s State) Running() bool { return s.Processed > 0 }

// Result of one Process call.
type Result struct {
	Time          time.Time           `json:"time"`
	ETo           float64             `json:"eto"`
	ETc           float64             `json:"etc"`
	Precipitation float64             `json:"precipitation"`
	Potential     float64             `json:"potential_productivity"`
	Obtainable    float64             `json:"obtainable_productivity"`
	Unit          string              `json:"unit"`
	Class         string              `json:"temperature_class"`
	SoilMoisture  float64             `json:"soil_moisture"`
	WaterBalance  waterbalance.Report `json:"water_balance"`
	Radiation     radiation.Result    `json:"radiation"`
}

// Model is the simulation of one plot. Process calls are serialized;
// distinct models are independent.
type Model struct {
	mu sync.Mutex

	cfg        Config
	profile    crop.Profile
	ky         float64
	multiplier float64
	leafFix    float64
	harvestFix float64

	balance *waterbalance.Accountant
	state   State
}

// New validates cfg and builds the model. An unknown crop fails with a
// *labmet.NotFoundError.
func New(cfg Config) (*Model, error) {
	profile, err := crop.Lookup(cfg.Crop)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(cfg.Latitude) || cfg.Latitude < -90 || cfg.Latitude > 90 {
		return nil, labmet.Rangef("latitude %.4f outside ±90", cfg.Latitude)
	}
	if cfg.CycleDays <= 0 {
		return nil, labmet.Rangef("cycle of %d days", cfg.CycleDays)
	}
	if math.IsNaN(cfg.AnnualMeanTemp) || math.IsInf(cfg.AnnualMeanTemp, 0) || cfg.AnnualMeanTemp <= 0 {
		return nil, labmet.Domainf("annual mean temperature %v °C must be above 0", cfg.AnnualMeanTemp)
	}
	if !(cfg.PeakLAI >= 0) {
		return nil, labmet.Rangef("peak leaf area index %.2f is negative", cfg.PeakLAI)
	}
	if !(cfg.Ky >= 0) || !(cfg.EToMultiplier >= 0) {
		return nil, labmet.Rangef("ky %.2f and eto multiplier %.2f must not be negative", cfg.Ky, cfg.EToMultiplier)
	}

	soil := cfg.AWC
	if cfg.InitialSoilMoisture != nil {
		soil = *cfg.InitialSoilMoisture
	}
	balance, err := waterbalance.New(cfg.AWC, soil)
	if err != nil {
		return nil, err
	}

	m := &Model{
		cfg:        cfg,
		profile:    profile,
		ky:         cfg.Ky,
		multiplier: cfg.EToMultiplier,
		leafFix:    fixes.LeafArea(cfg.PeakLAI),
		harvestFix: profile.HarvestLimits.Average(),
		balance:    balance,
		state:      State{SoilMoisture: soil},
	}
	if m.ky == 0 {
		m.ky = profile.Ky
	}
	if m.multiplier == 0 {
		m.multiplier = 1
	}
	return m, nil
}

// Config returns the set-up the model was built with.
func (m *Model) Config() Config { return m.cfg }

// Profile returns the crop reference data.
func (m *Model) Profile() crop.Profile { return m.profile }

// Ky is the yield response factor in use.
func (m *Model) Ky() float64 { return m.ky }

// Snapshot returns a copy of the current state.
func (m *Model) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// WaterBalance returns the last balance report; labmet.ErrState before the
// first reading.
func (m *Model) WaterBalance() (waterbalance.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balance.Report()
}

// Process runs one reading through the chain. Nothing is committed unless
// every step succeeds.
func (m *Model) Process(r Reading, unit productivity.Unit) (Result, error) {
	if r.Time.IsZero() {
		return Result{}, labmet.Rangef("reading without timestamp")
	}
	for _, v := range []float64{r.Temperature, r.Illuminance, r.SoilMoisture} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Result{}, labmet.Rangef("reading holds a non finite value")
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	geo, err := radiation.New(r.Time, m.cfg.Latitude)
	if err != nil {
		return Result{}, err
	}

	th, err := evapotranspiration.New(r.Temperature, geo.Photoperiod, daysIn(r.Time), m.cfg.AnnualMeanTemp)
	if err != nil {
		return Result{}, err
	}
	eto := th.EToDay() * m.multiplier
	etc := m.state.ETc
	if !m.state.Running() {
		etc = eto
	}

	class := fixes.ClassFor(m.profile.Pathway, r.Time, m.cfg.Latitude)
	tf, err := fixes.Temperature(class, r.Temperature)
	if err != nil {
		return Result{}, err
	}
	ratio := fixes.SunshineRatio(r.Illuminance)
	pot, err := productivity.New(productivity.Inputs{
		Ho:            geo.HoCal(),
		CloudyFix:     tf.Cloudy,
		ClearFix:      tf.Clear,
		SunshineRatio: &ratio,
	})
	if err != nil {
		return Result{}, err
	}
	potential := pot.Potential(productivity.Fixes{
		LeafArea:      m.leafFix,
		Breathing:     fixes.Breathing(r.Temperature),
		HarvestedPart: m.harvestFix,
	}, m.cfg.CycleDays, unit)

	obtainable := productivity.Obtainable(m.ky, eto, etc, potential)

	soil := fixes.SoilMoistureToMM(r.SoilMoisture, m.cfg.AWC)
	variation := soil - m.state.SoilMoisture
	var precipitation float64
	if soil > eto {
		etc = eto
		precipitation = math.Min(math.Max(variation, 0), m.cfg.AWC)
	} else {
		etc = soil
	}

	balance := m.balance.Clone()
	report, err := balance.Update(precipitation, eto)
	if err != nil {
		return Result{}, err
	}

	m.balance = balance
	m.state = State{
		ETo:           eto,
		ETc:           etc,
		Precipitation: precipitation,
		SoilMoisture:  soil,
		Processed:     m.state.Processed + 1,
		LastReading:   r.Time,
	}

	return Result{
		Time:          r.Time,
		ETo:           eto,
		ETc:           etc,
		Precipitation: precipitation,
		Potential:     potential,
		Obtainable:    obtainable,
		Unit:          unit.String(),
		Class:         class.String(),
		SoilMoisture:  soil,
		WaterBalance:  report,
		Radiation:     geo.Result(),
	}, nil
}

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
