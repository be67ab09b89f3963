package aquacrop_service

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LeonardoBeccarini/labmet/pkg/labmet/aquacrop"
)

// Metrics owns its registry so that several controllers (tests) can coexist.
type Metrics struct {
	registry *prometheus.Registry

	readings *prometheus.CounterVec
	failures *prometheus.CounterVec
	alerts   *prometheus.CounterVec
	duration prometheus.Histogram

	eto          *prometheus.GaugeVec
	etc          *prometheus.GaugeVec
	potential    *prometheus.GaugeVec
	obtainable   *prometheus.GaugeVec
	soilMoisture *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		readings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "labmet", Name: "readings_processed_total",
			Help: "Readings processed by the simulation, per plot.",
		}, []string{"plot"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "labmet", Name: "readings_failed_total",
			Help: "Readings rejected by the simulation, per plot and reason.",
		}, []string{"plot", "reason"}),
		alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "labmet", Name: "alerts_total",
			Help: "Alerts raised, per plot and kind.",
		}, []string{"plot", "kind"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "labmet", Name: "process_duration_seconds",
			Help:    "Time spent in one simulation step.",
			Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
		eto:          gauge("eto_mm_day", "Reference evapotranspiration of the last reading."),
		etc:          gauge("etc_mm_day", "Crop evapotranspiration of the last reading."),
		potential:    gauge("potential_productivity", "Potential productivity of the last reading."),
		obtainable:   gauge("obtainable_productivity", "Obtainable productivity of the last reading."),
		soilMoisture: gauge("soil_moisture_mm", "Soil water of the last reading, mm."),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.readings, m.failures, m.alerts, m.duration,
		m.eto, m.etc, m.potential, m.obtainable, m.soilMoisture,
	)
	return m
}

func gauge(name, help string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "labmet", Name: name, Help: help}, []string{"plot"})
}

func (m *Metrics) observe(plot string, res aquacrop.Result, seconds float64) {
	m.readings.WithLabelValues(plot).Inc()
	m.duration.Observe(seconds)
	m.eto.WithLabelValues(plot).Set(res.ETo)
	m.etc.WithLabelValues(plot).Set(res.ETc)
	m.potential.WithLabelValues(plot).Set(res.Potential)
	m.obtainable.WithLabelValues(plot).Set(res.Obtainable)
	m.soilMoisture.WithLabelValues(plot).Set(res.SoilMoisture)
}

func (m *Metrics) failed(plot, reason string) {
	m.failures.WithLabelValues(plot, reason).Inc()
}

func (m *Metrics) alerted(plot, kind string) {
	m.alerts.WithLabelValues(plot, kind).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
