package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/LeonardoBeccarini/labmet/internal/model/entities"
)

// PlotsFile is the YAML document listing stations and plots.
type PlotsFile struct {
	Stations []entities.Station `yaml:"stations"`
	Plots    []entities.Plot    `yaml:"plots"`
}

// LoadPlots reads and validates the plot set-up at path.
func LoadPlots(path string) (PlotsFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return PlotsFile{}, fmt.Errorf("read plots config: %w", err)
	}
	return ParsePlots(b)
}

// ParsePlots decodes a plots document. Plot ids must be unique; a plot
// without latitude inherits the one of its station.
func ParsePlots(b []byte) (PlotsFile, error) {
	var f PlotsFile
	if err := yaml.UnmarshalStrict(b, &f); err != nil {
		return PlotsFile{}, fmt.Errorf("parse plots config: %w", err)
	}
	stations := make(map[string]entities.Station, len(f.Stations))
	for _, s := range f.Stations {
		stations[s.ID] = s
	}
	seen := make(map[string]bool, len(f.Plots))
	for i := range f.Plots {
		p := &f.Plots[i]
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			return PlotsFile{}, fmt.Errorf("plot #%d has no id", i+1)
		}
		if seen[p.ID] {
			return PlotsFile{}, fmt.Errorf("duplicate plot id %q", p.ID)
		}
		seen[p.ID] = true
		if p.StationID == "" {
			return PlotsFile{}, fmt.Errorf("plot %s has no station_id", p.ID)
		}
		if st, ok := stations[p.StationID]; ok && p.Latitude == 0 {
			p.Latitude = st.Latitude
		}
		p.Alerts = p.Alerts.WithDefaults()
	}
	return f, nil
}
