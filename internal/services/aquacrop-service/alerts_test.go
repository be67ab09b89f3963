package aquacrop_service

import (
	"errors"
	"testing"
	"time"

	"github.com/LeonardoBeccarini/labmet/internal/model/entities"
	"github.com/LeonardoBeccarini/labmet/internal/model/messages"
	"github.com/LeonardoBeccarini/labmet/pkg/labmet/aquacrop"
)

func TestEvaluateAlert(t *testing.T) {
	plot := entities.Plot{ID: "p1", Alerts: entities.AlertPolicy{DrySoilPct: 20, StressRatio: 0.8, CooldownMinutes: 30}}
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	healthy := aquacrop.Result{Potential: 1000, Obtainable: 900}
	stressed := aquacrop.Result{Potential: 1000, Obtainable: 500}

	tests := []struct {
		name     string
		soil     float64
		res      aquacrop.Result
		kind     string
		severity string
	}{
		{"healthy", 40, healthy, "", ""},
		{"dry", 15, healthy, messages.AlertDrySoil, "warning"},
		{"very dry", 5, stressed, messages.AlertDrySoil, "critical"},
		{"stressed", 40, stressed, messages.AlertWaterStress, "warning"},
		{"no potential", 40, aquacrop.Result{}, "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			th := AlertThrottle{Cooldown: 30 * time.Minute}
			evt, next := EvaluateAlert(plot, aquacrop.Reading{SoilMoisture: tc.soil}, tc.res, th, now)
			if tc.kind == "" {
				if evt != nil || next != th {
					t.Fatalf("unexpected alert %+v", evt)
				}
				return
			}
			if evt == nil {
				t.Fatal("no alert")
			}
			if evt.Kind != tc.kind || evt.Severity != tc.severity || evt.PlotID != "p1" || evt.ID == "" {
				t.Fatalf("alert %+v", evt)
			}
			if !next.Last.Equal(now) || next.Cooldown != th.Cooldown {
				t.Fatalf("throttle %+v", next)
			}
		})
	}
}

func TestAlertThrottleCooldown(t *testing.T) {
	plot := entities.Plot{ID: "p1"}
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	dry := aquacrop.Reading{SoilMoisture: 1}
	th := AlertThrottle{Cooldown: time.Hour}

	evt, th := EvaluateAlert(plot, dry, aquacrop.Result{}, th, now)
	if evt == nil {
		t.Fatal("first alert suppressed")
	}
	evt, th2 := EvaluateAlert(plot, dry, aquacrop.Result{}, th, now.Add(59*time.Minute))
	if evt != nil || th2 != th {
		t.Fatal("alert raised inside cooldown")
	}
	evt, th3 := EvaluateAlert(plot, dry, aquacrop.Result{}, th, now.Add(time.Hour))
	if evt == nil || !th3.Last.Equal(now.Add(time.Hour)) {
		t.Fatal("alert not raised after cooldown")
	}
}

func TestFailureAlertSharesThrottle(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	th := AlertThrottle{Cooldown: time.Minute}
	evt, th := FailureAlert("p1", errors.New("boom"), th, now)
	if evt == nil || evt.Kind != messages.AlertProcessFailed {
		t.Fatalf("failure alert %+v", evt)
	}
	if evt, _ := FailureAlert("p1", errors.New("boom"), th, now.Add(time.Second)); evt != nil {
		t.Fatal("failure alert not throttled")
	}
	if evt, _ := EvaluateAlert(entities.Plot{ID: "p1"}, aquacrop.Reading{SoilMoisture: 0}, aquacrop.Result{}, th, now.Add(time.Second)); evt != nil {
		t.Fatal("dry alert not throttled after failure alert")
	}
}
