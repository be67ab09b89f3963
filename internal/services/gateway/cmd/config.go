package main

import (
	"time"

	"github.com/LeonardoBeccarini/labmet/internal/config"
	"github.com/LeonardoBeccarini/labmet/internal/services/gateway/app"
)

type Config struct {
	Port    string
	PlotMap map[string]string // plot -> aquacrop gRPC address
	App     app.Config
}

func loadConfig() (Config, error) {
	plots, err := config.ParseMap(config.Env("PLOT_GRPC_ADDR_MAP", ""))
	if err != nil {
		return Config{}, err
	}
	return Config{
		Port:    config.Env("PORT", "5009"),
		PlotMap: plots,
		App: app.Config{
			EventsBaseURL:   config.Env("EVENT_URL", "http://event-service:8080"),
			EventsPath:      config.Env("EVENT_ALERTS_PATH", "/events/alerts/latest"),
			HTTPTimeout:     config.EnvDuration("TIMEOUT", 3*time.Second),
			AlertsLimit:     config.EnvInt("ALERTS_LIMIT", 20),
			BreakerFailures: config.EnvInt("CB_FAILS", 3),
			BreakerOpenFor:  config.EnvDuration("CB_OPEN", 15*time.Second),
			AllowedOrigins:  config.EnvList("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		},
	}, nil
}
