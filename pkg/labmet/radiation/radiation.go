// Package radiation computes the sun-earth geometry of a day at a latitude:
// declination, relative distance, sunrise hour angle, photoperiod and the
// extraterrestrial irradiance on a horizontal plane (Ho).
package radiation

import (
	"math"
	"time"

	"github.com/LeonardoBeccarini/labmet/pkg/labmet"
)

const (
	// SolarConstant in W/m².
	SolarConstant = 1367.0

	hoFactor    = 37.6     // MJ m⁻² day⁻¹
	mjPerMM     = 2.45     // latent heat, MJ per mm of evaporation
	mjPerCalCm2 = 0.041868 // MJ m⁻² per cal cm⁻²
)

// Geometry is the radiation state of one (date, latitude) pair. It is a plain
// value: every field is derived once in New.
type Geometry struct {
	Date      time.Time `json:"date"`
	Latitude  float64   `json:"latitude"`
	DayOfYear int       `json:"day_of_year"`

	Declination      float64 `json:"declination"`        // degrees
	RelativeDistance float64 `json:"relative_distance"`  // d/D
	SunriseAngle     float64 `json:"sunrise_hour_angle"` // degrees
	Photoperiod      float64 `json:"photoperiod"`        // hours
}

// New computes the geometry for date at lat (decimal degrees).
//
// It fails with labmet.ErrRange when |lat| > 90 and with labmet.ErrDomain
// when the sun does not rise or set on that day (polar day or night).
func New(date time.Time, lat float64) (Geometry, error) {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return Geometry{}, labmet.Rangef("latitude %.4f outside ±90", lat)
	}
	g := Geometry{
		Date:      date,
		Latitude:  lat,
		DayOfYear: date.YearDay(),
	}
	g.Declination = Declination(g.DayOfYear)
	g.RelativeDistance = RelativeDistance(g.DayOfYear)

	x := -math.Tan(rad(lat)) * math.Tan(rad(g.Declination))
	if x < -1 || x > 1 || math.IsNaN(x) {
		return Geometry{}, labmet.Domainf("no sunrise at latitude %.2f on day %d (acos argument %.4f)", lat, g.DayOfYear, x)
	}
	g.SunriseAngle = deg(math.Acos(x))
	g.Photoperiod = 2 * g.SunriseAngle / 15
	return g, nil
}

// Declination is the solar declination in degrees for a day of the year.
func Declination(dayOfYear int) float64 {
	return 23.45 * math.Sin(rad(360*(float64(dayOfYear)-81)/365))
}

// RelativeDistance is the ratio between the mean sun-earth distance and the
// distance on the given day.
func RelativeDistance(dayOfYear int) float64 {
	return 1 + 0.033*math.Cos(rad(float64(dayOfYear)*360/365))
}

// Ho is the daily extraterrestrial irradiance in MJ m⁻² day⁻¹.
func (g Geometry) Ho() float64 {
	hn := g.SunriseAngle
	return hoFactor * g.RelativeDistance *
		(math.Pi/180*hn*math.Sin(rad(g.Latitude))*math.Sin(rad(g.Declination)) +
			math.Cos(rad(g.Latitude))*math.Cos(rad(g.Declination))*math.Sin(rad(hn)))
}

// HoMM is Ho in mm of equivalent evaporation per day.
func (g Geometry) HoMM() float64 { return g.Ho() / mjPerMM }

// HoCal is Ho in cal cm⁻² day⁻¹.
func (g Geometry) HoCal() float64 { return g.Ho() / mjPerCalCm2 }

// HourAngle is the solar hour angle in degrees for the clock time of t,
// negative in the morning. Rounded to two decimals.
func HourAngle(t time.Time) float64 {
	secs := t.Hour()*3600 + t.Minute()*60 + t.Second()
	return math.Round(float64(secs-43200)*0.00416667*100) / 100
}

// CorrectedSolarConstant is the solar constant scaled by the relative distance.
func (g Geometry) CorrectedSolarConstant() float64 {
	return SolarConstant * g.RelativeDistance
}

// Result is the flat record handed to callers outside the model chain.
type Result struct {
	DayOfYear        int     `json:"day_of_year"`
	Declination      float64 `json:"declination"`
	RelativeDistance float64 `json:"relative_distance"`
	SunriseAngle     float64 `json:"sunrise_hour_angle"`
	Photoperiod      float64 `json:"photoperiod"`
	HoMJ             float64 `json:"ho_mj_m2_day"`
	HoCal            float64 `json:"ho_cal_cm2_day"`
}

// Result flattens the geometry and both Ho representations.
func (g Geometry) Result() Result {
	return Result{
		DayOfYear:        g.DayOfYear,
		Declination:      g.Declination,
		RelativeDistance: g.RelativeDistance,
		SunriseAngle:     g.SunriseAngle,
		Photoperiod:      g.Photoperiod,
		HoMJ:             g.Ho(),
		HoCal:            g.HoCal(),
	}
}

func rad(d float64) float64 { return d * math.Pi / 180 }
func deg(r float64) float64 { return r * 180 / math.Pi }
