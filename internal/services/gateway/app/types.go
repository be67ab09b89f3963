package app

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

const (
	StatusOK          = "ok"
	StatusIdle        = "idle" // registered, no reading processed yet
	StatusUnavailable = "unavailable"
)

// ---------- Dashboard payload ----------

type PlotSummary struct {
	PlotID        string  `json:"plot_id"`
	StationID     string  `json:"station_id,omitempty"`
	Crop          string  `json:"crop,omitempty"`
	Status        string  `json:"status"`
	Processed     int     `json:"processed"`
	SoilMoisture  float64 `json:"soil_moisture"` // mm
	ETo           float64 `json:"eto"`
	ETc           float64 `json:"etc"`
	Potential     float64 `json:"potential_productivity"`
	Obtainable    float64 `json:"obtainable_productivity"`
	Unit          string  `json:"unit,omitempty"`
	WaterStressed bool    `json:"water_stressed"`
	LastReadingAt string  `json:"last_reading_at,omitempty"` // RFC3339
}

type Alert struct {
	PlotID    string  `json:"plot_id"`
	Kind      string  `json:"kind"`
	Severity  string  `json:"severity"`
	Message   string  `json:"message,omitempty"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
	Time      string  `json:"time"` // RFC3339
}

// UnmarshalJSON accepts numbers encoded as strings and "timestamp" for "time".
func (a *Alert) UnmarshalJSON(b []byte) error {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	a.PlotID, _ = m["plot_id"].(string)
	a.Kind, _ = m["kind"].(string)
	a.Severity, _ = m["severity"].(string)
	a.Message, _ = m["message"].(string)
	if t, ok := m["time"].(string); ok && t != "" {
		a.Time = t
	} else if t, ok := m["timestamp"].(string); ok {
		a.Time = t
	}
	a.Value = anyFloat(m["value"])
	a.Threshold = anyFloat(m["threshold"])
	return nil
}

func anyFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return f
		}
	}
	return 0
}

type Stats struct {
	Plots            int     `json:"plots"`
	Available        int     `json:"available"`
	Stressed         int     `json:"stressed"`
	MeanSoilMoisture float64 `json:"mean_soil_moisture"`
	MinSoilMoisture  float64 `json:"min_soil_moisture"`
	MaxSoilMoisture  float64 `json:"max_soil_moisture"`
}

type DashboardData struct {
	Plots       []PlotSummary `json:"plots"`
	Alerts      []Alert       `json:"alerts"`
	AlertsStale bool          `json:"alerts_stale"`
	Stats       Stats         `json:"stats"`
}

// ---------- gRPC state payload ----------

// plotStateWire mirrors the part of labmet.AquaCrop/GetState the dashboard shows.
type plotStateWire struct {
	PlotID    string `json:"plot_id"`
	StationID string `json:"station_id"`
	Crop      string `json:"crop"`
	State     struct {
		ETo          float64   `json:"eto"`
		ETc          float64   `json:"etc"`
		SoilMoisture float64   `json:"soil_moisture"`
		Processed    int       `json:"processed"`
		LastReading  time.Time `json:"last_reading"`
	} `json:"state"`
	LastResult *struct {
		Potential     float64 `json:"potential_productivity"`
		Obtainable    float64 `json:"obtainable_productivity"`
		Unit          string  `json:"unit"`
		WaterStressed bool    `json:"water_stressed"`
	} `json:"last_result"`
}

func summaryFromStruct(s *structpb.Struct) (PlotSummary, error) {
	b, err := json.Marshal(s.AsMap())
	if err != nil {
		return PlotSummary{}, err
	}
	var w plotStateWire
	if err := json.Unmarshal(b, &w); err != nil {
		return PlotSummary{}, err
	}
	out := PlotSummary{
		PlotID:       w.PlotID,
		StationID:    w.StationID,
		Crop:         w.Crop,
		Status:       StatusIdle,
		Processed:    w.State.Processed,
		SoilMoisture: w.State.SoilMoisture,
		ETo:          w.State.ETo,
		ETc:          w.State.ETc,
	}
	if w.State.Processed > 0 {
		out.Status = StatusOK
		out.LastReadingAt = w.State.LastReading.UTC().Format(time.RFC3339)
	}
	if r := w.LastResult; r != nil {
		out.Potential = r.Potential
		out.Obtainable = r.Obtainable
		out.Unit = r.Unit
		out.WaterStressed = r.WaterStressed
	}
	return out, nil
}
