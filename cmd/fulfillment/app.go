package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/couchcryptid/order-fulfillment-engine/internal/adapter/kafka"
	"github.com/couchcryptid/order-fulfillment-engine/internal/adapter/memory"
	"github.com/couchcryptid/order-fulfillment-engine/internal/adapter/postgres"
	"github.com/couchcryptid/order-fulfillment-engine/internal/adapter/yandex"
	"github.com/couchcryptid/order-fulfillment-engine/internal/config"
	"github.com/couchcryptid/order-fulfillment-engine/internal/domain"
	"github.com/couchcryptid/order-fulfillment-engine/internal/fulfillment"
	"github.com/couchcryptid/order-fulfillment-engine/internal/observability"
	"github.com/couchcryptid/order-fulfillment-engine/internal/pipeline"
	"github.com/jackc/pgx/v5/pgxpool"
)

// app holds the wired components shared by the serve and plan commands.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	source   pipeline.SnapshotSource
	pipeline *pipeline.Pipeline

	pool   *pgxpool.Pool
	writer *kafka.PlanWriter
}

// newApp wires storage, geocoding and publishing from cfg. snapshotFile,
// when set, replaces the database as the source of orders.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics, snapshotFile string) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	var cache domain.CoordinateCache = memory.NewCache(cfg.GeocoderCacheSize)
	if cfg.DatabaseURL != "" {
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.pool = pool
		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			a.Close()
			return nil, err
		}
		cache = fulfillment.NewTieredCache(cache, postgres.NewCoordinateStore(pool), logger)
		logger.Info("persistent coordinate cache enabled")
	} else {
		logger.Warn("DATABASE_URL not set, coordinates are cached in memory only")
	}

	switch {
	case snapshotFile != "":
		a.source = pipeline.NewFileSource(snapshotFile)
	case a.pool != nil:
		a.source = postgres.NewCatalogRepository(a.pool)
	default:
		a.Close()
		return nil, errors.New("no order source: set DATABASE_URL or pass --snapshot")
	}

	var geocoder domain.Geocoder
	if cfg.GeocoderEnabled {
		geocoder = yandex.NewClient(cfg.GeocoderAPIKey, cfg.GeocoderBaseURL, cfg.GeocoderTimeout, metrics, logger)
		logger.Info("geocoding enabled", "cache_size", cfg.GeocoderCacheSize, "timeout", cfg.GeocoderTimeout)
	} else {
		logger.Info("geocoding disabled, only cached addresses resolve")
	}

	resolver := fulfillment.NewResolver(cache, geocoder, cfg.GeocoderTimeout, metrics, logger)
	engine := fulfillment.NewEngine(resolver, cfg.Workers, metrics, logger)

	var loader pipeline.PlanLoader
	if cfg.KafkaEnabled {
		a.writer = kafka.NewPlanWriter(cfg, logger)
		loader = a.writer
		logger.Info("plan publishing enabled", "topic", cfg.KafkaPlanTopic, "brokers", cfg.KafkaBrokers)
	}

	a.pipeline = pipeline.New(a.source, engine, loader, logger, metrics)
	return a, nil
}

// Close releases the Kafka writer and database pool.
func (a *app) Close() {
	if a.writer != nil {
		if err := a.writer.Close(); err != nil {
			a.logger.Error("kafka writer close error", "error", err)
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
