// Package crop holds the static crop reference data: harvested part and
// humidity fractions, crop coefficients (Kc) per growth stage, yield response
// factor (Ky) and photosynthetic pathway.
package crop

import (
	"fmt"
	"maps"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/LeonardoBeccarini/labmet/pkg/labmet"
)

// Pathway is the photosynthetic pathway of a crop.
type Pathway string

const (
	C3 Pathway = "C3"
	C4 Pathway = "C4"
)

// Stage is a crop growth stage with its own Kc range.
type Stage string

const (
	Establishment    Stage = "establishment"
	VegetativeGrowth Stage = "vegetative_growth"
	Flowering        Stage = "flowering"
	Fruiting         Stage = "fruiting"
	Ripening         Stage = "ripening"
)

// Stages lists the growth stages in cycle order.
var Stages = []Stage{Establishment, VegetativeGrowth, Flowering, Fruiting, Ripening}

// Limits is a closed [Min, Max] interval from the reference tables.
type Limits struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Average is the mid point of the interval.
func (l Limits) Average() float64 { return (l.Min + l.Max) / 2 }

// Profile is the immutable reference record of a crop.
type Profile struct {
	Name          string
	Ky            float64
	Pathway       Pathway
	HarvestedPart string
	HarvestLimits Limits
	Humidity      Limits
	Kc            map[Stage]Limits
}

// Lookup returns the profile for name (case-insensitive). The Kc map is a
// copy; writing to it leaves the reference data alone.
func Lookup(name string) (Profile, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	p, ok := profiles[key]
	if !ok {
		return Profile{}, &labmet.NotFoundError{Name: name, Valid: Names()}
	}
	p.Name = key
	if kc, ok := kcTable[key]; ok {
		p.Kc = maps.Clone(kc)
	}
	return p, nil
}

// Names returns the sorted crop names that have a full profile.
func Names() []string {
	out := make([]string, 0, len(profiles))
	for k := range profiles {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// KcStages returns the Kc ranges of name. Crops that only appear in the Kc
// table (coffee, tobacco, ...) are found too. The map is a copy.
func KcStages(name string) (map[Stage]Limits, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	kc, ok := kcTable[key]
	if !ok {
		valid := make([]string, 0, len(kcTable))
		for k := range kcTable {
			valid = append(valid, k)
		}
		sort.Strings(valid)
		return nil, &labmet.NotFoundError{Name: name, Valid: valid}
	}
	return maps.Clone(kc), nil
}

// Coefficients picks one Kc per stage from the table limits. Humid, calm
// conditions (RH > 70 %, wind < 5 m/s) take the minimum, dry and windy ones
// (RH < 70 %, wind > 5 m/s) the maximum, anything else the average.
func (p Profile) Coefficients(rhPercent, windSpeed float64) (map[Stage]float64, error) {
	if len(p.Kc) == 0 {
		return nil, fmt.Errorf("%w: no crop coefficients for %q", labmet.ErrNotFound, p.Name)
	}
	if rhPercent < 0 || rhPercent > 100 {
		return nil, labmet.Rangef("relative humidity %.2f outside 0..100", rhPercent)
	}
	out := make(map[Stage]float64, len(p.Kc))
	for st, l := range p.Kc {
		switch {
		case rhPercent > 70 && windSpeed < 5:
			out[st] = l.Min
		case rhPercent < 70 && windSpeed > 5:
			out[st] = l.Max
		default:
			out[st] = l.Average()
		}
	}
	return out, nil
}

// AverageCoefficients is Coefficients without weather information.
func (p Profile) AverageCoefficients() map[Stage]float64 {
	out := make(map[Stage]float64, len(p.Kc))
	for st, l := range p.Kc {
		out[st] = l.Average()
	}
	return out
}

// Table renders every crop with its harvested part and humidity ranges.
func Table() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "crop\tharvested part\tharvested part fix\thumidity fix\tky\tpathway")
	for _, n := range Names() {
		p := profiles[n]
		fmt.Fprintf(w, "%s\t%s\t%g - %g\t%g%% - %g%%\t%g\t%s\n",
			n, p.HarvestedPart, p.HarvestLimits.Min, p.HarvestLimits.Max,
			p.Humidity.Min, p.Humidity.Max, p.Ky, p.Pathway)
	}
	_ = w.Flush()
	return b.String()
}
