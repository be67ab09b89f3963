package aquacrop_service

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/LeonardoBeccarini/labmet/pkg/labmet"
	"github.com/LeonardoBeccarini/labmet/pkg/labmet/crop"
)

// Connectivity reports whether the broker link is up.
type Connectivity interface {
	IsConnectionOpen() bool
}

// NewRouter exposes health, metrics and the plot states over HTTP.
func NewRouter(ctrl *Controller, conn Connectivity) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		st := "ok"
		connected := conn != nil && conn.IsConnectionOpen()
		if !connected {
			st = "degraded"
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":         st,
			"mqtt_connected": connected,
			"plots":          ctrl.Registry().Len(),
		})
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ready := conn != nil && conn.IsConnectionOpen() && ctrl.Registry().Len() > 0
		code := http.StatusOK
		if !ready {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, map[string]bool{"ready": ready})
	})
	r.Method(http.MethodGet, "/metrics", ctrl.Metrics().Handler())
	r.Get("/crops", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(crop.Table()))
	})

	r.Route("/plots", func(pr chi.Router) {
		pr.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			type summary struct {
				ID        string `json:"id"`
				StationID string `json:"station_id"`
				Crop      string `json:"crop"`
			}
			out := []summary{}
			for _, id := range ctrl.Registry().IDs() {
				p, _ := ctrl.Registry().Plot(id)
				out = append(out, summary{ID: p.ID, StationID: p.StationID, Crop: p.Crop})
			}
			writeJSON(w, http.StatusOK, out)
		})
		pr.Get("/{id}/state", func(w http.ResponseWriter, r *http.Request) {
			st, err := ctrl.Registry().State(chi.URLParam(r, "id"))
			if errors.Is(err, labmet.ErrNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			writeJSON(w, http.StatusOK, st)
		})
	})
	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
