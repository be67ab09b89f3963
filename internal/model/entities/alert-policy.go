package entities

// AlertPolicy configures dry-soil alerting for a plot.
type AlertPolicy struct {
	// probe % below which the soil is dry
	DrySoilPct float64 `json:"dry_soil_pct" yaml:"dry_soil_pct"`
	// obtainable/potential ratio below which the plot is water stressed
	StressRatio float64 `json:"stress_ratio" yaml:"stress_ratio"`
	// minimum gap between two alerts of the same plot
	CooldownMinutes int `json:"cooldown_minutes" yaml:"cooldown_minutes"`
}

// WithDefaults fills unset thresholds.
func (p AlertPolicy) WithDefaults() AlertPolicy {
	if p.DrySoilPct <= 0 {
		p.DrySoilPct = 15
	}
	if p.StressRatio <= 0 {
		p.StressRatio = 0.7
	}
	if p.CooldownMinutes <= 0 {
		p.CooldownMinutes = 60
	}
	return p
}
