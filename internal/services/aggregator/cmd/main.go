package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LeonardoBeccarini/labmet/internal/config"
	"github.com/LeonardoBeccarini/labmet/internal/services/aggregator"
	"github.com/LeonardoBeccarini/labmet/pkg/rabbitmq"
)

func main() {
	config.LoadDotEnv()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client, err := rabbitmq.NewRabbitMQConn(ctx, config.MQTT("dataAggregator"))
	if err != nil {
		log.Fatalf("Failed to connect to MQTT broker: %v", err)
	}
	defer rabbitmq.CloseRabbitMQConn(client)

	publisher := rabbitmq.NewPublisher(client, "station/aggregated")
	// nil handler, injected by the service
	consumer := rabbitmq.NewConsumer(client, config.Env("RAW_TOPIC", aggregator.RawTopic), nil)

	svc := aggregator.NewDataAggregatorService(consumer, publisher, config.EnvDuration("AGGREGATION_INTERVAL", time.Minute))

	log.Println("Data Aggregator service is running...")
	svc.Start(ctx)
}
