package app

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sony/gobreaker"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

var errUnknownPlot = errors.New("unknown plot")

// Routes wires the dashboard endpoints.
func (g *Gateway) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if len(g.cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: g.cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", g.HandleHealth)
	r.Get("/dashboard/data", g.HandleDashboard)
	r.Get("/plots/{id}", g.HandlePlot)
	return r
}

func (g *Gateway) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"breakers": map[string]string{
			"aquacrop":      g.plotsCB.State().String(),
			"event-service": g.events.State().String(),
		},
		"plots": len(g.plots.Plots()),
	})
}

func (g *Gateway) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), g.cfg.HTTPTimeout)
	defer cancel()

	var (
		data = DashboardData{Plots: []PlotSummary{}, Alerts: []Alert{}}
		wg   sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		data.Plots = g.fetchPlots(ctx)
	}()
	go func() {
		defer wg.Done()
		data.Alerts, data.AlertsStale = g.fetchAlerts(ctx)
	}()
	wg.Wait()

	data.Stats = computeStats(data.Plots)
	writeJSON(w, http.StatusOK, data)

	g.cfg.Logger.Printf("GET /dashboard/data [%dms] cb[aquacrop]=%v cb[event]=%v plots=%d alerts=%d stale=%v",
		time.Since(start).Milliseconds(), g.plotsCB.State(), g.events.State(),
		len(data.Plots), len(data.Alerts), data.AlertsStale)
}

func (g *Gateway) HandlePlot(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), g.cfg.HTTPTimeout)
	defer cancel()

	s, err := g.plotState(ctx, chi.URLParam(r, "id"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, s)
	case errors.Is(err, errUnknownPlot) || status.Code(err) == codes.NotFound:
		http.Error(w, "plot not found", http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	}
}

// plotState asks the owning aquacrop instance through the breaker.
func (g *Gateway) plotState(ctx context.Context, plot string) (PlotSummary, error) {
	cli, ok := g.plots.Get(plot)
	if !ok {
		return PlotSummary{}, errUnknownPlot
	}
	req, err := structpb.NewStruct(map[string]any{"plot_id": plot})
	if err != nil {
		return PlotSummary{}, err
	}
	res, err := g.plotsCB.Execute(func() (any, error) {
		return cli.GetState(ctx, req)
	})
	if err != nil {
		return PlotSummary{}, err
	}
	return summaryFromStruct(res.(*structpb.Struct))
}

// fetchPlots queries every routed plot in parallel. Failures show up as
// unavailable plots instead of failing the dashboard.
func (g *Gateway) fetchPlots(ctx context.Context) []PlotSummary {
	ids := g.plots.Plots()
	out := make([]PlotSummary, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			s, err := g.plotState(ctx, id)
			if err != nil {
				if !errors.Is(err, gobreaker.ErrOpenState) {
					g.cfg.Logger.Printf("gateway: plot %s: %v", id, err)
				}
				s = PlotSummary{PlotID: id, Status: StatusUnavailable}
			}
			out[i] = s
		}(i, id)
	}
	wg.Wait()
	return out
}

// fetchAlerts falls back to the last good answer when the event service
// cannot be reached; stale reports the fallback.
func (g *Gateway) fetchAlerts(ctx context.Context) (alerts []Alert, stale bool) {
	if !g.events.Configured() {
		return []Alert{}, false
	}
	var got []Alert
	q := url.Values{"limit": {strconv.Itoa(g.cfg.AlertsLimit)}}
	if err := g.events.GetJSON(ctx, q, &got); err != nil {
		if !errors.Is(err, gobreaker.ErrOpenState) {
			g.cfg.Logger.Printf("gateway: alerts: %v", err)
		}
		cached := g.cachedAlerts()
		if cached == nil {
			cached = []Alert{}
		}
		return cached, true
	}
	if got == nil {
		got = []Alert{}
	}
	g.rememberAlerts(got)
	return got, false
}

func computeStats(plots []PlotSummary) Stats {
	st := Stats{Plots: len(plots)}
	sum, minv, maxv := 0.0, math.MaxFloat64, 0.0
	for _, p := range plots {
		if p.Status != StatusOK {
			continue
		}
		st.Available++
		if p.WaterStressed {
			st.Stressed++
		}
		sum += p.SoilMoisture
		minv = math.Min(minv, p.SoilMoisture)
		maxv = math.Max(maxv, p.SoilMoisture)
	}
	if st.Available > 0 {
		st.MeanSoilMoisture = math.Round(sum/float64(st.Available)*100) / 100
		st.MinSoilMoisture = minv
		st.MaxSoilMoisture = maxv
	}
	return st
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
