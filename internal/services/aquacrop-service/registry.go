package aquacrop_service

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/LeonardoBeccarini/labmet/internal/model/entities"
	"github.com/LeonardoBeccarini/labmet/internal/model/messages"
	"github.com/LeonardoBeccarini/labmet/pkg/labmet"
	"github.com/LeonardoBeccarini/labmet/pkg/labmet/aquacrop"
	"github.com/LeonardoBeccarini/labmet/pkg/labmet/waterbalance"
)

// plotEntry is one plot and its model. mu serializes processing steps and
// guards the alert throttle and the last published result.
type plotEntry struct {
	plot  entities.Plot
	model *aquacrop.Model

	mu       sync.Mutex
	throttle AlertThrottle
	last     *messages.SimulationResultEvent
}

// PlotRegistry maps plot ids to their simulation. It is read-only after
// construction, so lookups take no lock.
type PlotRegistry struct {
	plots     map[string]*plotEntry
	byStation map[string][]string
}

// NewPlotRegistry builds one model per plot. Any invalid plot fails the
// whole registry.
func NewPlotRegistry(plots []entities.Plot) (*PlotRegistry, error) {
	r := &PlotRegistry{
		plots:     make(map[string]*plotEntry, len(plots)),
		byStation: make(map[string][]string),
	}
	for _, p := range plots {
		if _, dup := r.plots[p.ID]; dup {
			return nil, fmt.Errorf("duplicate plot %s", p.ID)
		}
		cfg, err := p.AquaCropConfig()
		if err != nil {
			return nil, err
		}
		m, err := aquacrop.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("plot %s: %w", p.ID, err)
		}
		p.Alerts = p.Alerts.WithDefaults()
		r.plots[p.ID] = &plotEntry{
			plot:     p,
			model:    m,
			throttle: AlertThrottle{Cooldown: time.Duration(p.Alerts.CooldownMinutes) * time.Minute},
		}
		r.byStation[p.StationID] = append(r.byStation[p.StationID], p.ID)
	}
	for _, ids := range r.byStation {
		sort.Strings(ids)
	}
	return r, nil
}

func (r *PlotRegistry) entry(id string) (*plotEntry, error) {
	e, ok := r.plots[id]
	if !ok {
		return nil, fmt.Errorf("plot %q: %w", id, labmet.ErrNotFound)
	}
	return e, nil
}

// Plot returns the configuration of plot id.
func (r *PlotRegistry) Plot(id string) (entities.Plot, bool) {
	e, ok := r.plots[id]
	if !ok {
		return entities.Plot{}, false
	}
	return e.plot, true
}

// ForStation lists the plots observed by a station, sorted.
func (r *PlotRegistry) ForStation(stationID string) []string {
	return r.byStation[stationID]
}

// IDs lists every plot id, sorted.
func (r *PlotRegistry) IDs() []string {
	ids := make([]string, 0, len(r.plots))
	for id := range r.plots {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *PlotRegistry) Len() int { return len(r.plots) }

// PlotState is the observable state of a plot.
type PlotState struct {
	PlotID       string                          `json:"plot_id"`
	StationID    string                          `json:"station_id"`
	Crop         string                          `json:"crop"`
	Ky           float64                         `json:"ky"`
	Config       aquacrop.Config                 `json:"config"`
	State        aquacrop.State                  `json:"state"`
	WaterBalance *waterbalance.Report            `json:"water_balance,omitempty"`
	LastResult   *messages.SimulationResultEvent `json:"last_result,omitempty"`
	LastAlertAt  *time.Time                      `json:"last_alert_at,omitempty"`
}

// State snapshots plot id. Unknown ids fail with labmet.ErrNotFound.
func (r *PlotRegistry) State(id string) (PlotState, error) {
	e, err := r.entry(id)
	if err != nil {
		return PlotState{}, err
	}
	st := PlotState{
		PlotID:    e.plot.ID,
		StationID: e.plot.StationID,
		Crop:      e.plot.Crop,
		Ky:        e.model.Ky(),
		Config:    e.model.Config(),
		State:     e.model.Snapshot(),
	}
	if wb, err := e.model.WaterBalance(); err == nil {
		st.WaterBalance = &wb
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.last != nil {
		last := *e.last
		st.LastResult = &last
	}
	if !e.throttle.Last.IsZero() {
		t := e.throttle.Last
		st.LastAlertAt = &t
	}
	return st, nil
}
