package event

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	msg "github.com/LeonardoBeccarini/labmet/internal/model/messages"
	"github.com/LeonardoBeccarini/labmet/pkg/dedup"
)

const (
	alertPrefix  = "labmet/alert/"
	resultPrefix = "labmet/result/"

	TypeAlert       = "plot.alert"
	TypeWaterStress = "plot.water_stress"
)

// Topics the event service listens to.
var Topics = []string{alertPrefix + "#", resultPrefix + "#"}

type CommonEvent struct {
	EventType     string // plot.alert | plot.water_stress
	SourceService string
	PlotID        string
	StationID     string
	Kind          string // alert kind, empty for results
	Severity      string // info|warning|critical
	Fields        map[string]interface{}
	Timestamp     time.Time
}

// MQTTHandler turns alert and result messages into CommonEvents and hands
// them to sink. Results are kept only when the plot was water-stressed.
type MQTTHandler struct {
	sink    func(CommonEvent)
	deduper *dedup.Deduper
}

func NewMQTTHandler(sink func(CommonEvent), d *dedup.Deduper) *MQTTHandler {
	return &MQTTHandler{sink: sink, deduper: d}
}

func (h *MQTTHandler) Handle(_ string, m mqtt.Message) error {
	topic := m.Topic()
	payload := m.Payload()
	if h.deduper != nil && !h.deduper.ShouldProcessPayload(topic, payload) {
		return nil
	}

	var (
		evt  CommonEvent
		keep bool
		err  error
	)
	switch {
	case strings.HasPrefix(topic, alertPrefix):
		evt, err = decodeAlert(topic, payload)
		keep = err == nil
	case strings.HasPrefix(topic, resultPrefix):
		evt, keep, err = decodeResult(topic, payload)
	default:
		return nil
	}
	if err != nil {
		return err
	}
	if keep && h.sink != nil {
		h.sink(evt)
	}
	return nil
}

func decodeAlert(topic string, payload []byte) (CommonEvent, error) {
	var a msg.AlertEvent
	if err := json.Unmarshal(payload, &a); err != nil {
		return CommonEvent{}, err
	}
	plotID := pickPlot(topic, a.PlotID, alertPrefix)
	if plotID == "" {
		return CommonEvent{}, errors.New("alert: missing plot")
	}
	if a.Kind == "" {
		return CommonEvent{}, errors.New("alert: missing kind")
	}
	sev := a.Severity
	if sev == "" {
		sev = "warning"
	}
	return CommonEvent{
		EventType:     TypeAlert,
		SourceService: "aquacrop-service",
		PlotID:        plotID,
		Kind:          a.Kind,
		Severity:      sev,
		Fields: map[string]interface{}{
			"alert_id":  a.ID,
			"message":   a.Message,
			"value":     a.Value,
			"threshold": a.Threshold,
		},
		Timestamp: stamp(a.Timestamp),
	}, nil
}

func decodeResult(topic string, payload []byte) (CommonEvent, bool, error) {
	var r msg.SimulationResultEvent
	if err := json.Unmarshal(payload, &r); err != nil {
		return CommonEvent{}, false, err
	}
	plotID := pickPlot(topic, r.PlotID, resultPrefix)
	if plotID == "" {
		return CommonEvent{}, false, errors.New("result: missing plot")
	}
	if !r.WaterStressed {
		return CommonEvent{}, false, nil
	}
	return CommonEvent{
		EventType:     TypeWaterStress,
		SourceService: "aquacrop-service",
		PlotID:        plotID,
		StationID:     r.StationID,
		Severity:      "warning",
		Fields: map[string]interface{}{
			"result_id":     r.ID,
			"eto":           r.ETo,
			"etc":           r.ETc,
			"potential":     r.Potential,
			"obtainable":    r.Obtainable,
			"soil_moisture": r.SoilMoisture,
			"deficit":       r.Deficit,
		},
		Timestamp: stamp(r.ReadingAt),
	}, true, nil
}

// pickPlot prefers the payload, then the topic "prefix/{plot}".
func pickPlot(topic, plotID, prefix string) string {
	if s := strings.TrimSpace(plotID); s != "" {
		return s
	}
	suffix := strings.TrimPrefix(topic, prefix)
	if i := strings.IndexByte(suffix, '/'); i >= 0 {
		suffix = suffix[:i]
	}
	if suffix == "#" || suffix == "+" {
		return ""
	}
	return strings.TrimSpace(suffix)
}

func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
