package aggregator

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/LeonardoBeccarini/labmet/internal/model/messages"
	"github.com/LeonardoBeccarini/labmet/pkg/rabbitmq"
)

// RawTopic is the filter for raw station readings.
const RawTopic = "station/data/+"

// AggregatedTopic is where the averaged readings of a station go.
func AggregatedTopic(stationID string) string { return "station/aggregated/" + stationID }

type DataAggregatorService struct {
	consumer            rabbitmq.IConsumer
	publisher           rabbitmq.TopicPublisher
	buffer              map[string][]messages.StationReading // keyed by station id
	mutex               sync.Mutex
	aggregationInterval time.Duration
}

func NewDataAggregatorService(consumer rabbitmq.IConsumer, publisher rabbitmq.TopicPublisher, aggregationInterval time.Duration) *DataAggregatorService {
	return &DataAggregatorService{
		consumer:            consumer,
		publisher:           publisher,
		aggregationInterval: aggregationInterval,
		buffer:              make(map[string][]messages.StationReading),
	}
}

func (d *DataAggregatorService) messageHandler(_ string, message mqtt.Message) error {
	var r messages.StationReading
	if err := json.Unmarshal(message.Payload(), &r); err != nil {
		log.Printf("aggregator: bad reading on %s: %v", message.Topic(), err)
		return err
	}
	if r.StationID == "" {
		r.StationID = stationFromTopic(message.Topic())
	}
	if r.CollectedAt.IsZero() {
		r.CollectedAt = time.Now().UTC()
	}

	d.mutex.Lock()
	d.buffer[r.StationID] = append(d.buffer[r.StationID], r)
	n := len(d.buffer[r.StationID])
	d.mutex.Unlock()

	log.Printf("aggregator: buffered station=%s samples=%d", r.StationID, n)
	return nil
}

func stationFromTopic(topic string) string {
	if i := strings.LastIndexByte(topic, '/'); i >= 0 {
		return topic[i+1:]
	}
	return topic
}

// Start consumes raw readings and publishes one average per station every
// aggregation interval until ctx is done.
func (d *DataAggregatorService) Start(ctx context.Context) {
	d.consumer.SetHandler(d.messageHandler)
	// The consumer blocks until ctx is done, so the ticker runs beside it.
	go d.consumer.ConsumeMessage(ctx)

	ticker := time.NewTicker(d.aggregationInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.aggregateAndPublish()
			return
		case <-ticker.C:
			d.aggregateAndPublish()
		}
	}
}

func (d *DataAggregatorService) aggregateAndPublish() {
	d.mutex.Lock()
	batches := d.buffer
	d.buffer = make(map[string][]messages.StationReading, len(batches))
	d.mutex.Unlock()

	for stationID, readings := range batches {
		if len(readings) == 0 {
			continue
		}
		out := Average(readings)
		if err := d.publisher.PublishTo(AggregatedTopic(stationID), out); err != nil {
			log.Printf("aggregator: publish %s: %v", stationID, err)
			continue
		}
		log.Printf("aggregator: published station=%s samples=%d temp=%.2f lux=%.0f soil=%.2f",
			stationID, out.Samples, out.DS18B20Temp, out.BH1750Illuminance, out.AnalogSoilMoisture)
	}
}

// Average returns the mean of every sensor over readings, stamped with the
// latest collection time. readings must not be empty.
func Average(readings []messages.StationReading) messages.StationReading {
	out := messages.StationReading{
		StationID:  readings[0].StationID,
		Aggregated: true,
		Samples:    len(readings),
	}
	n := float64(len(readings))
	for _, r := range readings {
		out.BMP180Temp += r.BMP180Temp / n
		out.BMP180Alt += r.BMP180Alt / n
		out.BMP180Press += r.BMP180Press / n
		out.DS18B20Temp += r.DS18B20Temp / n
		out.DHT22Temp += r.DHT22Temp / n
		out.DHT22Humid += r.DHT22Humid / n
		out.BH1750Illuminance += r.BH1750Illuminance / n
		out.AnalogSoilMoisture += r.AnalogSoilMoisture / n
		if r.CollectedAt.After(out.CollectedAt) {
			out.CollectedAt = r.CollectedAt
		}
	}
	for _, f := range []*float64{
		&out.BMP180Temp, &out.BMP180Alt, &out.BMP180Press, &out.DS18B20Temp,
		&out.DHT22Temp, &out.DHT22Humid, &out.BH1750Illuminance, &out.AnalogSoilMoisture,
	} {
		*f = math.Round(*f*100) / 100
	}
	return out
}
