package aquacrop_service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/LeonardoBeccarini/labmet/internal/model/messages"
	"github.com/LeonardoBeccarini/labmet/pkg/dedup"
	"github.com/LeonardoBeccarini/labmet/pkg/labmet"
	"github.com/LeonardoBeccarini/labmet/pkg/labmet/aquacrop"
	"github.com/LeonardoBeccarini/labmet/pkg/labmet/productivity"
	"github.com/LeonardoBeccarini/labmet/pkg/rabbitmq"
)

const (
	// AggregatedTopic is the subscription for averaged station readings.
	AggregatedTopic = "station/aggregated/+"

	notifyTimeout = 10 * time.Second
)

// ResultTopic carries the SimulationResultEvents of a plot.
func ResultTopic(plotID string) string { return "labmet/result/" + plotID }

// AlertTopic carries the AlertEvents of a plot.
func AlertTopic(plotID string) string { return "labmet/alert/" + plotID }

// Controller feeds station readings to the plot models and publishes what
// comes out.
type Controller struct {
	consumer  rabbitmq.IConsumer
	publisher rabbitmq.TopicPublisher
	registry  *PlotRegistry
	notifier  Notifier
	metrics   *Metrics
	unit      productivity.Unit

	// QoS1 redeliveries carry the same payload
	deduper *dedup.Deduper
	now     func() time.Time
}

func NewController(
	c rabbitmq.IConsumer,
	p rabbitmq.TopicPublisher,
	registry *PlotRegistry,
	notifier Notifier,
	metrics *Metrics,
	unit productivity.Unit,
) (*Controller, error) {
	if registry == nil {
		return nil, errors.New("plot registry is nil")
	}
	if p == nil {
		return nil, errors.New("publisher is nil")
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	ctrl := &Controller{
		consumer:  c,
		publisher: p,
		registry:  registry,
		notifier:  notifier,
		metrics:   metrics,
		unit:      unit,
		deduper:   dedup.New(10*time.Minute, 20000),
		now:       func() time.Time { return time.Now().UTC() },
	}
	if c != nil {
		c.SetHandler(ctrl.handleAggregated)
	}
	return ctrl, nil
}

func (c *Controller) Registry() *PlotRegistry { return c.registry }
func (c *Controller) Metrics() *Metrics       { return c.metrics }

// Start consumes aggregated readings until ctx is done.
func (c *Controller) Start(ctx context.Context) {
	if c.consumer != nil {
		go c.consumer.ConsumeMessage(ctx)
	}
	<-ctx.Done()
}

// ReadingFrom maps a station reading onto the model inputs: probe
// temperature, illuminance and soil moisture percentage.
func ReadingFrom(s messages.StationReading) aquacrop.Reading {
	return aquacrop.Reading{
		Time:         s.CollectedAt,
		Temperature:  s.DS18B20Temp,
		Illuminance:  s.BH1750Illuminance,
		SoilMoisture: s.AnalogSoilMoisture,
	}
}

func (c *Controller) handleAggregated(_ string, msg mqtt.Message) error {
	if c.deduper != nil && !c.deduper.ShouldProcessPayload(msg.Topic(), msg.Payload()) {
		return nil
	}

	var s messages.StationReading
	if err := json.Unmarshal(msg.Payload(), &s); err != nil {
		log.Printf("controller: bad payload on %s: %v", msg.Topic(), err)
		return nil
	}
	if s.StationID == "" {
		s.StationID = strings.TrimPrefix(msg.Topic(), "station/aggregated/")
	}
	if s.CollectedAt.IsZero() {
		log.Printf("controller: dropping reading from %s without collected_at", s.StationID)
		return nil
	}

	plots := c.registry.ForStation(s.StationID)
	if len(plots) == 0 {
		log.Printf("controller: no plot for station %s", s.StationID)
		return nil
	}
	log.Printf("controller: reading station=%s samples=%d temp=%.2f lux=%.0f soil=%.2f%% plots=%v",
		s.StationID, s.Samples, s.DS18B20Temp, s.BH1750Illuminance, s.AnalogSoilMoisture, plots)

	r := ReadingFrom(s)
	for _, id := range plots {
		if _, err := c.ProcessPlot(context.Background(), id, r); err != nil {
			log.Printf("controller: plot %s: %v", id, err)
		}
	}
	return nil
}

// ProcessPlot runs one simulation step for plot id, publishes the result
// and any alert it raises. A rejected reading leaves the plot state as it
// was and raises a process_failed alert. Steps of the same plot are
// serialized together with their bookkeeping, so the last result always
// matches the model state.
func (c *Controller) ProcessPlot(ctx context.Context, id string, r aquacrop.Reading) (messages.SimulationResultEvent, error) {
	e, err := c.registry.entry(id)
	if err != nil {
		return messages.SimulationResultEvent{}, err
	}

	e.mu.Lock()
	start := time.Now()
	res, err := e.model.Process(r, c.unit)
	if err != nil {
		alert, th := FailureAlert(e.plot.ID, err, e.throttle, c.now())
		e.throttle = th
		e.mu.Unlock()

		c.metrics.failed(id, reason(err))
		if alert != nil {
			c.raise(ctx, *alert)
		}
		return messages.SimulationResultEvent{}, fmt.Errorf("process: %w", err)
	}
	c.metrics.observe(id, res, time.Since(start).Seconds())

	policy := e.plot.Alerts.WithDefaults()
	evt := messages.SimulationResultEvent{
		ID:            uuid.NewString(),
		PlotID:        id,
		StationID:     e.plot.StationID,
		Crop:          e.plot.Crop,
		ETo:           res.ETo,
		ETc:           res.ETc,
		Precipitation: res.Precipitation,
		Potential:     res.Potential,
		Obtainable:    res.Obtainable,
		Unit:          res.Unit,
		SoilMoisture:  res.SoilMoisture,
		Storage:       res.WaterBalance.Storage,
		Deficit:       res.WaterBalance.Deficit,
		Excess:        res.WaterBalance.Excess,
		WaterStressed: WaterStressed(policy, res),
		ReadingAt:     r.Time,
		Timestamp:     c.now(),
	}

	e.last = &evt
	alert, th := EvaluateAlert(e.plot, r, res, e.throttle, evt.Timestamp)
	e.throttle = th
	e.mu.Unlock()

	log.Printf("controller: plot=%s eto=%.2f etc=%.2f precip=%.2f potential=%.2f obtainable=%.2f %s soil=%.2fmm",
		id, res.ETo, res.ETc, res.Precipitation, res.Potential, res.Obtainable, res.Unit, res.SoilMoisture)

	if err := c.publisher.PublishTo(ResultTopic(id), evt); err != nil {
		log.Printf("controller: publish result %s: %v", id, err)
	}
	if alert != nil {
		c.raise(ctx, *alert)
	}
	return evt, nil
}

func (c *Controller) raise(ctx context.Context, alert messages.AlertEvent) {
	c.metrics.alerted(alert.PlotID, alert.Kind)
	if err := c.publisher.PublishTo(AlertTopic(alert.PlotID), alert); err != nil {
		log.Printf("controller: publish alert %s: %v", alert.PlotID, err)
	}
	nctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := c.notifier.Notify(nctx, alert); err != nil {
		log.Printf("controller: notify: %v", err)
		return
	}
	log.Printf("controller: alert plot=%s kind=%s severity=%s", alert.PlotID, alert.Kind, alert.Severity)
}

func reason(err error) string {
	switch {
	case errors.Is(err, labmet.ErrRange):
		return "range"
	case errors.Is(err, labmet.ErrDomain):
		return "domain"
	case errors.Is(err, labmet.ErrType):
		return "type"
	case errors.Is(err, labmet.ErrNotFound):
		return "not_found"
	default:
		return "other"
	}
}
