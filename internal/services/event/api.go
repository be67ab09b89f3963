package event

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// Alert is the payload served to the gateway.
type Alert struct {
	ID        string  `json:"id,omitempty"`
	PlotID    string  `json:"plot_id"`
	Kind      string  `json:"kind"`
	Severity  string  `json:"severity"`
	Message   string  `json:"message,omitempty"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
	Time      string  `json:"time"` // RFC3339
}

// AlertQuery selects the most recent alerts.
type AlertQuery struct {
	Minutes   int
	Limit     int
	TimeoutMS int
	PlotID    string
}

// AlertStore reads stored alerts back, newest first.
type AlertStore interface {
	LatestAlerts(ctx context.Context, q AlertQuery) ([]Alert, error)
}

func parseAlertQuery(r *http.Request, defMin, defLim, defTOms int) AlertQuery {
	q := r.URL.Query()
	get := func(k string, def, min, max int) int {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				if n < min {
					return min
				}
				if max > 0 && n > max {
					return max
				}
				return n
			}
		}
		return def
	}
	return AlertQuery{
		Minutes:   get("minutes", defMin, 1, 7*24*60),
		Limit:     get("limit", defLim, 1, 500),
		TimeoutMS: get("timeout_ms", defTOms, 200, 5000),
		PlotID:    strings.TrimSpace(q.Get("plot")),
	}
}

// InfluxAlertStore queries system_event alert points.
type InfluxAlertStore struct {
	query  api.QueryAPI
	bucket string
}

func NewInfluxAlertStore(q api.QueryAPI, bucket string) *InfluxAlertStore {
	return &InfluxAlertStore{query: q, bucket: bucket}
}

func buildAlertFlux(bucket string, q AlertQuery) string {
	plotFilter := ""
	if q.PlotID != "" {
		plotFilter = fmt.Sprintf("\n  |> filter(fn: (r) => r.plot_id == %q)", q.PlotID)
	}
	return fmt.Sprintf(`
from(bucket: %q)
  |> range(start: -%dm)
  |> filter(fn: (r) => r._measurement == %q and r.event_type == %q)%s
  |> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")
  |> group()
  |> sort(columns: ["_time"], desc: true)
  |> limit(n:%d)
`, bucket, q.Minutes, Measurement, TypeAlert, plotFilter, q.Limit)
}

func (s *InfluxAlertStore) LatestAlerts(ctx context.Context, q AlertQuery) ([]Alert, error) {
	res, err := s.query.Query(ctx, buildAlertFlux(s.bucket, q))
	if err != nil {
		return nil, err
	}
	defer res.Close()

	out := make([]Alert, 0, q.Limit)
	for res.Next() {
		rec := res.Record()
		out = append(out, Alert{
			ID:        str(rec.ValueByKey("alert_id")),
			PlotID:    str(rec.ValueByKey("plot_id")),
			Kind:      str(rec.ValueByKey("kind")),
			Severity:  str(rec.ValueByKey("severity")),
			Message:   str(rec.ValueByKey("message")),
			Value:     num(rec.ValueByKey("value")),
			Threshold: num(rec.ValueByKey("threshold")),
			Time:      rec.Time().UTC().Format(time.RFC3339),
		})
	}
	return out, res.Err()
}

func str(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func num(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f
		}
	}
	return 0
}

// NewAlertsLatestHandler serves GET /events/alerts/latest?limit=20[&minutes=1440][&plot=id].
// A failing store yields an empty list with an X-Error header so the
// dashboard keeps rendering.
func NewAlertsLatestHandler(store AlertStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := parseAlertQuery(r, 1440, 20, 2000)

		ctx, cancel := context.WithTimeout(r.Context(), time.Duration(q.TimeoutMS)*time.Millisecond)
		defer cancel()

		out, err := store.LatestAlerts(ctx, q)
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			w.Header().Set("X-Error", "influx-query-error")
			if out == nil {
				out = []Alert{}
			}
		}
		_ = json.NewEncoder(w).Encode(out)
	})
}

// NewRouter mounts health, readiness and the alert feed.
func NewRouter(m Connectivity, influx Pinger, writer *Writer, store AlertStore) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Method(http.MethodGet, "/healthz", NewHealthHandler(m, influx, writer))
	r.Method(http.MethodGet, "/readyz", NewReadyHandler(m, influx, writer, 2*time.Second))
	r.Method(http.MethodGet, "/events/alerts/latest", NewAlertsLatestHandler(store))
	return r
}
