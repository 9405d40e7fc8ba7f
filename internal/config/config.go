package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultGeocoderBaseURL is the Yandex HTTP geocoder endpoint.
const DefaultGeocoderBaseURL = "https://geocode-maps.yandex.ru/1.x"

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// DatabaseURL points at the order-management database. Empty runs the
	// service without persistence: the coordinate cache is memory-only and
	// snapshots must come from a file.
	DatabaseURL string

	// Geocoding configuration.
	GeocoderAPIKey    string
	GeocoderEnabled   bool
	GeocoderBaseURL   string
	GeocoderTimeout   time.Duration
	GeocoderCacheSize int

	// Workers bounds how many orders are ranked concurrently.
	Workers int
	// PlanInterval schedules background passes in serve mode. Zero disables
	// them; plans are then computed on request only.
	PlanInterval time.Duration

	// Plan publishing.
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaPlanTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	geocoderTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("GEOCODER_TIMEOUT", "5s"))
	if err != nil || geocoderTimeout <= 0 {
		return nil, errors.New("invalid GEOCODER_TIMEOUT")
	}

	cacheSize, err := parsePositiveInt("GEOCODER_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	workers, err := parsePositiveInt("FULFILLMENT_WORKERS", 8)
	if err != nil {
		return nil, err
	}

	planInterval, err := time.ParseDuration(sharedcfg.EnvOrDefault("PLAN_INTERVAL", "0s"))
	if err != nil || planInterval < 0 {
		return nil, errors.New("invalid PLAN_INTERVAL")
	}

	apiKey := os.Getenv("GEOCODER_API_KEY")
	geocoderEnabled := apiKey != ""
	if v := os.Getenv("GEOCODER_ENABLED"); v != "" {
		geocoderEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		DatabaseURL:     os.Getenv("DATABASE_URL"),

		GeocoderAPIKey:    apiKey,
		GeocoderEnabled:   geocoderEnabled,
		GeocoderBaseURL:   sharedcfg.EnvOrDefault("GEOCODER_BASE_URL", DefaultGeocoderBaseURL),
		GeocoderTimeout:   geocoderTimeout,
		GeocoderCacheSize: cacheSize,

		Workers:      workers,
		PlanInterval: planInterval,

		KafkaEnabled:   os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:   sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaPlanTopic: sharedcfg.EnvOrDefault("KAFKA_PLAN_TOPIC", "fulfillment-plans"),
	}

	if cfg.GeocoderEnabled && cfg.GeocoderAPIKey == "" {
		return nil, errors.New("GEOCODER_ENABLED is true but GEOCODER_API_KEY is not set")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaPlanTopic == "" {
			return nil, errors.New("KAFKA_PLAN_TOPIC is required when KAFKA_ENABLED is true")
		}
	}

	return cfg, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}
