package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"

	"github.com/LeonardoBeccarini/labmet/internal/config"
	"github.com/LeonardoBeccarini/labmet/internal/services/event"
	"github.com/LeonardoBeccarini/labmet/pkg/dedup"
	"github.com/LeonardoBeccarini/labmet/pkg/rabbitmq"
)

func main() {
	config.LoadDotEnv()

	// === Config ===
	cfg := struct {
		InfluxURL    string
		InfluxToken  string
		InfluxOrg    string
		InfluxBucket string

		Topics        []string
		BatchSize     int
		FlushInterval time.Duration

		HTTPPort       string
		ReadinessGrace time.Duration
	}{
		InfluxURL:    config.Env("INFLUX_URL", "http://localhost:8086"),
		InfluxToken:  os.Getenv("INFLUX_TOKEN"),
		InfluxOrg:    config.Env("INFLUX_ORG", "labmet"),
		InfluxBucket: config.Env("INFLUX_BUCKET", "events"),

		Topics:        config.EnvList("EVENT_SUB_TOPICS", strings.Join(event.Topics, ",")),
		BatchSize:     config.EnvInt("WRITE_BATCH_SIZE", 10),
		FlushInterval: config.EnvDuration("WRITE_FLUSH_INTERVAL", 200*time.Millisecond),

		HTTPPort:       config.Env("HTTP_PORT", "8080"),
		ReadinessGrace: 5 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// === InfluxDB ===
	opts := influxdb2.DefaultOptions().
		SetBatchSize(uint(cfg.BatchSize)).
		SetFlushInterval(uint(cfg.FlushInterval.Milliseconds()))
	influx := influxdb2.NewClientWithOptions(cfg.InfluxURL, cfg.InfluxToken, opts)
	defer influx.Close()
	writer := event.NewWriter(influx.WriteAPI(cfg.InfluxOrg, cfg.InfluxBucket))
	store := event.NewInfluxAlertStore(influx.QueryAPI(cfg.InfluxOrg), cfg.InfluxBucket)

	// === MQTT ===
	mqttClient, err := rabbitmq.NewRabbitMQConn(ctx, config.MQTT("event-service"))
	if err != nil {
		log.Fatalf("mqtt connection error: %v", err)
	}
	defer rabbitmq.CloseRabbitMQConn(mqttClient)

	// === HTTP ===
	hs := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           event.NewRouter(mqttClient, influx, writer, store),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("event-svc: HTTP listening on %s", hs.Addr)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	// === Consumer ===
	// alerts and results are QoS 1, redeliveries are dropped by payload
	h := event.NewMQTTHandler(writer.Write, dedup.New(10*time.Minute, 20000))
	consumer := rabbitmq.NewMultiConsumer(mqttClient, cfg.Topics, h.Handle)
	log.Printf("event-svc: subscribing to %v", cfg.Topics)
	consumer.ConsumeMessage(ctx)

	log.Printf("event-svc: shutting down...")
	shCtx, shCancel := context.WithTimeout(context.Background(), cfg.ReadinessGrace)
	defer shCancel()
	_ = hs.Shutdown(shCtx)
	writer.Flush()
}
