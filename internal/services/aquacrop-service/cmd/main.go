package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/LeonardoBeccarini/labmet/internal/config"
	service "github.com/LeonardoBeccarini/labmet/internal/services/aquacrop-service"
	"github.com/LeonardoBeccarini/labmet/pkg/aquacroppb"
	"github.com/LeonardoBeccarini/labmet/pkg/labmet/productivity"
	"github.com/LeonardoBeccarini/labmet/pkg/rabbitmq"
)

func main() {
	config.LoadDotEnv()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// ---- plots ----
	plotsPath := config.Env("PLOTS_CONFIG_PATH", "/app/config/plots.yaml")
	plots, err := config.LoadPlots(plotsPath)
	if err != nil {
		log.Fatalf("plots config: %v", err)
	}
	registry, err := service.NewPlotRegistry(plots.Plots)
	if err != nil {
		log.Fatalf("plot registry: %v", err)
	}
	unit, err := productivity.ParseUnit(config.Env("PRODUCTIVITY_UNIT", "kg/hm²"))
	if err != nil {
		log.Fatalf("PRODUCTIVITY_UNIT: %v", err)
	}

	// ---- MQTT ----
	mqClient, err := rabbitmq.NewRabbitMQConn(ctx, config.MQTT("AquaCrop"))
	if err != nil {
		log.Fatalf("MQTT connect failed: %v", err)
	}
	defer rabbitmq.CloseRabbitMQConn(mqClient)

	aggregatedSub := config.Env("AGGREGATED_SUB_TOPIC", service.AggregatedTopic)
	consumer := rabbitmq.NewConsumer(mqClient, aggregatedSub, nil)
	publisher := rabbitmq.NewPublisher(mqClient, "labmet/result")

	// ---- push notifications ----
	var notifier service.Notifier = service.NopNotifier{}
	if url := config.Env("PUSH_API_URL", ""); url != "" {
		notifier = service.NewPushNotifier(service.PushConfig{
			BaseURL:         url,
			Token:           config.Env("PUSH_API_TOKEN", ""),
			Profile:         config.Env("PUSH_PROFILE", "labmet"),
			Tokens:          config.EnvList("PUSH_DEVICE_TOKENS", ""),
			Timeout:         config.EnvDuration("PUSH_TIMEOUT", 5*time.Second),
			MaxRetries:      uint64(config.EnvInt("PUSH_MAX_RETRIES", 3)),
			BreakerFailures: config.EnvInt("PUSH_BREAKER_FAILURES", 3),
			BreakerOpenFor:  config.EnvDuration("PUSH_BREAKER_OPEN", 30*time.Second),
		})
	}

	ctrl, err := service.NewController(consumer, publisher, registry, notifier, service.NewMetrics(), unit)
	if err != nil {
		log.Fatalf("controller init: %v", err)
	}

	// ---- gRPC ----
	grpcAddr := ":" + config.Env("GRPC_PORT", "50051")
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Fatalf("listen %s: %v", grpcAddr, err)
	}
	grpcServer := grpc.NewServer()
	aquacroppb.RegisterAquaCropServer(grpcServer, service.NewGrpcHandler(ctrl))
	go func() {
		log.Printf("aquacrop: gRPC on %s", grpcAddr)
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatalf("gRPC serve error: %v", err)
		}
	}()

	// ---- HTTP ----
	hs := &http.Server{
		Addr:              ":" + config.Env("HTTP_PORT", "8080"),
		Handler:           service.NewRouter(ctrl, mqClient),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("aquacrop: HTTP on %s", hs.Addr)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	log.Printf("aquacrop: running sub=%s plots=%v unit=%s", aggregatedSub, registry.IDs(), unit)
	ctrl.Start(ctx)

	log.Println("aquacrop: shutting down...")
	shCtx, shCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shCancel()
	_ = hs.Shutdown(shCtx)
	grpcServer.GracefulStop()
}
