package station_simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/LeonardoBeccarini/labmet/internal/model/entities"
	"github.com/LeonardoBeccarini/labmet/internal/model/messages"
	"github.com/LeonardoBeccarini/labmet/pkg/dedup"
	"github.com/LeonardoBeccarini/labmet/pkg/rabbitmq"
)

// DataTopic is where raw readings of station id are published.
func DataTopic(stationID string) string { return "station/data/" + stationID }

// RainTopic carries RainEvents for station id.
func RainTopic(stationID string) string { return "station/rain/" + stationID }

type StationSimulator struct {
	mu        sync.Mutex
	station   *entities.Station
	timer     *time.Timer // single pending stop-rain timer
	generator *DataGenerator
	publisher rabbitmq.TopicPublisher
	consumer  rabbitmq.IConsumer
	deduper   *dedup.Deduper
}

func NewStationSimulator(consumer rabbitmq.IConsumer, publisher rabbitmq.TopicPublisher,
	gen *DataGenerator, station *entities.Station) *StationSimulator {
	return &StationSimulator{
		station:   station,
		generator: gen,
		publisher: publisher,
		consumer:  consumer,
		deduper:   dedup.New(2*time.Minute, 10000),
	}
}

// Start listens for rain events and publishes a reading every interval
// until ctx is done.
func (s *StationSimulator) Start(ctx context.Context, interval time.Duration) {
	if s.consumer != nil {
		s.consumer.SetHandler(s.handleMessage)
		go s.consumer.ConsumeMessage(ctx)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer s.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.PublishOnce(); err != nil {
				log.Printf("simulator: %v", err)
			}
		}
	}
}

// PublishOnce generates and publishes one reading.
func (s *StationSimulator) PublishOnce() error {
	r, err := s.generator.Next(s.station)
	if err != nil {
		return fmt.Errorf("data gen: %w", err)
	}
	log.Printf("simulator: pub raw station=%s temp=%.2f lux=%.0f soil=%.2f%%",
		r.StationID, r.DS18B20Temp, r.BH1750Illuminance, r.AnalogSoilMoisture)
	if err := s.publisher.PublishTo(DataTopic(s.station.ID), r); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

func (s *StationSimulator) handleMessage(_ string, msg mqtt.Message) error {
	// QoS1 redeliveries carry the same payload.
	if s.deduper != nil && !s.deduper.ShouldProcessPayload(msg.Topic(), msg.Payload()) {
		return nil
	}

	var evt messages.RainEvent
	if err := json.Unmarshal(msg.Payload(), &evt); err != nil {
		return fmt.Errorf("invalid RainEvent: %w", err)
	}
	if evt.StationID != "" && evt.StationID != s.station.ID {
		return nil
	}
	s.applyRain(evt)
	return nil
}

func (s *StationSimulator) applyRain(evt messages.RainEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if evt.Duration <= 0 {
		s.generator.SetRaining(false)
		log.Printf("simulator: station %s rain stopped", s.station.ID)
		return
	}

	s.generator.ApplyRain(evt.Duration)
	s.generator.SetRaining(true)
	log.Printf("simulator: station %s raining for %s", s.station.ID, evt.Duration)

	s.timer = time.AfterFunc(evt.Duration, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.generator.SetRaining(false)
		s.timer = nil
		log.Printf("simulator: station %s rain over", s.station.ID)
	})
}

func (s *StationSimulator) stopTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
