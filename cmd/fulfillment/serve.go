package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/order-fulfillment-engine/internal/adapter/http"
	"github.com/couchcryptid/order-fulfillment-engine/internal/config"
	"github.com/couchcryptid/order-fulfillment-engine/internal/observability"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var snapshotFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Long: `Serves GET /v1/fulfillment and GET /v1/availability together with
/healthz, /readyz and /metrics. When PLAN_INTERVAL is set, a plan is also
computed (and published when KAFKA_ENABLED=true) on that schedule.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), snapshotFile)
		},
	}
	cmd.Flags().StringVar(&snapshotFile, "snapshot", "", "read orders from a JSON snapshot file instead of the database")
	return cmd
}

func serve(parent context.Context, snapshotFile string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger, metrics, snapshotFile)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := httpadapter.NewServer(cfg.HTTPAddr, a.pipeline, a.pipeline, a.source, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	if cfg.PlanInterval > 0 {
		go a.pipeline.Loop(ctx, cfg.PlanInterval)
	} else {
		// Warm the coordinate cache and flip readiness. Nothing is published
		// without a schedule.
		go func() {
			if _, err := a.pipeline.Compute(ctx); err != nil {
				logger.Error("initial fulfillment pass failed", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
