package event

import (
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/LeonardoBeccarini/labmet/pkg/dedup"
	"github.com/LeonardoBeccarini/labmet/pkg/rabbitmq/mqtttest"
)

func message(topic, payload string) *mqtttest.Message {
	return &mqtttest.Message{TopicName: topic, Body: []byte(payload), QoSLevel: 1}
}

func TestHandleDecodesEvents(t *testing.T) {
	tests := []struct {
		name    string
		topic   string
		payload string
		want    *CommonEvent
		wantErr bool
	}{
		{
			name:    "alert",
			topic:   "labmet/alert/potato",
			payload: `{"id":"a1","plot_id":"potato","kind":"dry_soil","severity":"critical","message":"dry","value":4,"threshold":15,"timestamp":"2024-01-15T12:00:00Z"}`,
			want:    &CommonEvent{EventType: TypeAlert, PlotID: "potato", Kind: "dry_soil", Severity: "critical"},
		},
		{
			name:    "alert plot from topic",
			topic:   "labmet/alert/corn",
			payload: `{"kind":"water_stress","value":0.5}`,
			want:    &CommonEvent{EventType: TypeAlert, PlotID: "corn", Kind: "water_stress", Severity: "warning"},
		},
		{
			name:    "alert without kind",
			topic:   "labmet/alert/corn",
			payload: `{"plot_id":"corn"}`,
			wantErr: true,
		},
		{
			name:    "stressed result",
			topic:   "labmet/result/potato",
			payload: `{"id":"r1","plot_id":"potato","station_id":"st-1","eto":3.5,"etc":1.2,"water_stressed":true,"reading_at":"2024-01-15T12:00:00Z"}`,
			want:    &CommonEvent{EventType: TypeWaterStress, PlotID: "potato", StationID: "st-1", Severity: "warning"},
		},
		{
			name:    "healthy result",
			topic:   "labmet/result/potato",
			payload: `{"plot_id":"potato","water_stressed":false}`,
		},
		{
			name:    "malformed",
			topic:   "labmet/result/potato",
			payload: `{`,
			wantErr: true,
		},
		{
			name:    "other topic",
			topic:   "station/data/st-1",
			payload: `{}`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got []CommonEvent
			h := NewMQTTHandler(func(e CommonEvent) { got = append(got, e) }, nil)
			err := h.Handle("", message(tc.topic, tc.payload))
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v", err)
			}
			if tc.want == nil {
				if len(got) != 0 {
					t.Fatalf("unexpected event %+v", got)
				}
				return
			}
			if len(got) != 1 {
				t.Fatalf("events = %d", len(got))
			}
			e := got[0]
			if e.EventType != tc.want.EventType || e.PlotID != tc.want.PlotID || e.Kind != tc.want.Kind ||
				e.Severity != tc.want.Severity || e.StationID != tc.want.StationID {
				t.Fatalf("event %+v", e)
			}
			if e.Timestamp.IsZero() {
				t.Fatal("zero timestamp")
			}
		})
	}
}

func TestHandleDropsRedeliveries(t *testing.T) {
	n := 0
	h := NewMQTTHandler(func(CommonEvent) { n++ }, dedup.New(time.Minute, 10))
	m := message("labmet/alert/potato", `{"plot_id":"potato","kind":"dry_soil"}`)
	for i := 0; i < 3; i++ {
		if err := h.Handle("", m); err != nil {
			t.Fatal(err)
		}
	}
	if n != 1 {
		t.Fatalf("sink called %d times", n)
	}
}

func TestEventToPoint(t *testing.T) {
	at := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	p := EventToPoint(CommonEvent{
		EventType:     TypeAlert,
		SourceService: "aquacrop-service",
		PlotID:        "potato",
		Kind:          "dry_soil",
		Severity:      "warning",
		Fields:        map[string]interface{}{"value": 10.0},
		Timestamp:     at,
	})
	line := write.PointToLineProtocol(p, time.Second)
	for _, want := range []string{"system_event,", "event_type=plot.alert", "kind=dry_soil", "plot_id=potato", "count=1i", "value=10", " 1705320000"} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}
	if strings.Contains(line, "station_id") {
		t.Errorf("empty tag written: %q", line)
	}
}
