package main

import (
	"context"
	"flag"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LeonardoBeccarini/labmet/internal/config"
	"github.com/LeonardoBeccarini/labmet/internal/model/entities"
	stationSimulator "github.com/LeonardoBeccarini/labmet/internal/station-simulator"
	"github.com/LeonardoBeccarini/labmet/pkg/rabbitmq"
)

func main() {
	config.LoadDotEnv()

	stationID := flag.String("station-id", config.Env("STATION_ID", "station1"), "unique station identifier")
	interval := flag.Duration("interval", config.EnvDuration("PUBLISH_INTERVAL", 10*time.Second), "publish interval")
	lat := flag.Float64("lat", config.EnvFloat("STATION_LAT", -22.7), "latitude")
	lon := flag.Float64("lon", config.EnvFloat("STATION_LON", -47.6), "longitude")
	alt := flag.Float64("alt", config.EnvFloat("STATION_ALT", 540), "altitude, m")
	halfLife := flag.Duration("half-life", config.EnvDuration("SOIL_HALF_LIFE", 2*time.Hour), "soil moisture half-life without rain")
	soilGrids := flag.Bool("soilgrids", config.EnvBool("SOILGRIDS_SEED", true), "seed soil moisture and altitude from SoilGrids")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	weather := stationSimulator.Weather{
		MeanTemp:      config.EnvFloat("WEATHER_MEAN_TEMP", stationSimulator.DefaultWeather.MeanTemp),
		TempAmplitude: config.EnvFloat("WEATHER_TEMP_AMPLITUDE", stationSimulator.DefaultWeather.TempAmplitude),
		Humidity:      config.EnvFloat("WEATHER_HUMIDITY", stationSimulator.DefaultWeather.Humidity),
		Cloudiness:    config.EnvFloat("WEATHER_CLOUDINESS", stationSimulator.DefaultWeather.Cloudiness),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.MQTT("stationSimulator-" + *stationID)
	client, err := rabbitmq.NewRabbitMQConn(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitmq.CloseRabbitMQConn(client)

	station := entities.Station{ID: *stationID, Latitude: *lat, Longitude: *lon, Altitude: *alt}

	// Fraction lost per minute for the configured half-life.
	decayPerMin := 1 - math.Pow(0.5, 1/halfLife.Minutes())
	generator := stationSimulator.NewDataGenerator(decayPerMin, weather, *seed)
	if *soilGrids {
		generator.SeedFromSoilGrids(ctx, &station)
	}

	publisher := rabbitmq.NewPublisher(client, stationSimulator.DataTopic(station.ID))
	consumer := rabbitmq.NewConsumer(client, stationSimulator.RainTopic(station.ID), nil)

	log.Printf("simulator: station %s at (%.4f, %.4f) every %s", station.ID, station.Latitude, station.Longitude, *interval)
	stationSimulator.NewStationSimulator(consumer, publisher, generator, &station).Start(ctx, *interval)
}
