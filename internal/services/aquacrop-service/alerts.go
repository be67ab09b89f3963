package aquacrop_service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/LeonardoBeccarini/labmet/internal/model/entities"
	"github.com/LeonardoBeccarini/labmet/internal/model/messages"
	"github.com/LeonardoBeccarini/labmet/pkg/labmet/aquacrop"
)

// AlertThrottle limits how often a plot raises alerts. It is a value: the
// caller owns it and stores the one EvaluateAlert returns.
type AlertThrottle struct {
	Last     time.Time
	Cooldown time.Duration
}

// Allows reports whether an alert may be raised at now.
func (t AlertThrottle) Allows(now time.Time) bool {
	return t.Last.IsZero() || now.Sub(t.Last) >= t.Cooldown
}

// WaterStressed reports whether the obtainable yield is below the plot's
// stress ratio of the potential one.
func WaterStressed(policy entities.AlertPolicy, res aquacrop.Result) bool {
	return res.Potential > 0 && res.Obtainable/res.Potential < policy.StressRatio
}

// EvaluateAlert checks a processed reading against the plot's alert policy.
// Dry soil takes precedence over water stress. It returns nil and the
// unchanged throttle when nothing is raised or the cooldown is running.
func EvaluateAlert(plot entities.Plot, r aquacrop.Reading, res aquacrop.Result, th AlertThrottle, now time.Time) (*messages.AlertEvent, AlertThrottle) {
	policy := plot.Alerts.WithDefaults()

	var evt *messages.AlertEvent
	switch {
	case r.SoilMoisture < policy.DrySoilPct:
		sev := "warning"
		if r.SoilMoisture < policy.DrySoilPct/2 {
			sev = "critical"
		}
		evt = &messages.AlertEvent{
			Kind:      messages.AlertDrySoil,
			Severity:  sev,
			Message:   fmt.Sprintf("Dry soil on %s: %.1f%% (limit %.1f%%)", plot.ID, r.SoilMoisture, policy.DrySoilPct),
			Value:     r.SoilMoisture,
			Threshold: policy.DrySoilPct,
		}
	case WaterStressed(policy, res):
		ratio := res.Obtainable / res.Potential
		evt = &messages.AlertEvent{
			Kind:      messages.AlertWaterStress,
			Severity:  "warning",
			Message:   fmt.Sprintf("Water stress on %s: obtainable yield at %.0f%% of potential", plot.ID, ratio*100),
			Value:     ratio,
			Threshold: policy.StressRatio,
		}
	default:
		return nil, th
	}

	if !th.Allows(now) {
		return nil, th
	}
	evt.ID = uuid.NewString()
	evt.PlotID = plot.ID
	evt.Timestamp = now
	th.Last = now
	return evt, th
}

// FailureAlert reports a reading the model rejected. It shares the plot
// throttle with the other alerts.
func FailureAlert(plotID string, err error, th AlertThrottle, now time.Time) (*messages.AlertEvent, AlertThrottle) {
	if !th.Allows(now) {
		return nil, th
	}
	th.Last = now
	return &messages.AlertEvent{
		ID:        uuid.NewString(),
		PlotID:    plotID,
		Kind:      messages.AlertProcessFailed,
		Severity:  "warning",
		Message:   fmt.Sprintf("Reading rejected on %s: %v", plotID, err),
		Timestamp: now,
	}, th
}
