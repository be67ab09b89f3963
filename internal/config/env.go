// Package config reads service settings from the environment (optionally
// seeded from a .env file) and the plot set-up from YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/LeonardoBeccarini/labmet/pkg/rabbitmq"
)

// LoadDotEnv loads the given .env files (".env" when none) without
// overriding variables already set. Missing files are ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Printf("config: %s: %v", f, err)
		}
	}
}

func Env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func EnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return def
}

// EnvFloat accepts a comma as decimal separator.
func EnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		v = strings.ReplaceAll(strings.TrimSpace(v), ",", ".")
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// EnvDuration accepts Go durations ("30s") or a bare number of seconds.
func EnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}

func EnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return def
}

// EnvList splits a comma separated value, dropping empty items.
func EnvList(key, def string) []string {
	var out []string
	for _, s := range strings.Split(Env(key, def), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ParseMap parses "k1=v1,k2=v2".
func ParseMap(s string) (map[string]string, error) {
	out := map[string]string{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if !ok || k == "" || v == "" {
			return nil, fmt.Errorf("bad pair %q (want key=value)", pair)
		}
		out[k] = v
	}
	return out, nil
}

// MQTT builds the broker settings shared by every service. The client id is
// prefix-HOSTNAME.
func MQTT(prefix string) *rabbitmq.RabbitMQConfig {
	return &rabbitmq.RabbitMQConfig{
		Host:       Env("RABBITMQ_HOST", "localhost"),
		Port:       EnvInt("RABBITMQ_PORT", 1883),
		User:       Env("RABBITMQ_USER", "guest"),
		Password:   Env("RABBITMQ_PASSWORD", "guest"),
		ClientID:   fmt.Sprintf("%s-%s", prefix, Env("HOSTNAME", "local")),
		KeepAlive:  EnvDuration("MQTT_KEEPALIVE", 60*time.Second),
		MaxRetries: EnvInt("MQTT_MAX_RETRIES", 5),
	}
}
