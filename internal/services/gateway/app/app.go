package app

import (
	"log"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Config struct {
	EventsBaseURL string
	EventsPath    string
	HTTPTimeout   time.Duration
	AlertsLimit   int

	BreakerFailures int
	BreakerOpenFor  time.Duration

	AllowedOrigins []string

	Logger *log.Logger
}

// Gateway aggregates the plot states and the recent alerts for the dashboard.
type Gateway struct {
	cfg     Config
	plots   PlotRouter
	plotsCB *gobreaker.CircuitBreaker
	events  *Upstream

	mu             sync.RWMutex
	lastGoodAlerts []Alert
}

func NewGateway(cfg Config, plots PlotRouter) *Gateway {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 3 * time.Second
	}
	if cfg.AlertsLimit <= 0 {
		cfg.AlertsLimit = 20
	}
	if cfg.EventsPath == "" {
		cfg.EventsPath = "/events/alerts/latest"
	}
	// One breaker per upstream. Caller errors on the gRPC side do not
	// say anything about the health of the aquacrop instances.
	pcb := newBreaker("aquacrop", cfg.BreakerFailures, cfg.BreakerOpenFor, cfg.Logger, func(err error) bool {
		switch status.Code(err) {
		case codes.OK, codes.NotFound, codes.InvalidArgument, codes.FailedPrecondition:
			return true
		}
		return false
	})
	ecb := newBreaker("event-service", cfg.BreakerFailures, cfg.BreakerOpenFor, cfg.Logger, nil)

	return &Gateway{
		cfg:     cfg,
		plots:   plots,
		plotsCB: pcb,
		events:  NewUpstream("events", cfg.EventsBaseURL, cfg.EventsPath, cfg.HTTPTimeout, ecb),
	}
}

func (g *Gateway) rememberAlerts(a []Alert) {
	cp := append([]Alert(nil), a...)
	g.mu.Lock()
	g.lastGoodAlerts = cp
	g.mu.Unlock()
}

func (g *Gateway) cachedAlerts() []Alert {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Alert(nil), g.lastGoodAlerts...)
}
