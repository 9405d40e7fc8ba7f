package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/order-fulfillment-engine/internal/domain"
	"github.com/couchcryptid/order-fulfillment-engine/internal/observability"
)

// SnapshotSource reads the orders, restaurants and menu availability for one pass.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (domain.Snapshot, error)
}

// Planner computes a fulfillment plan from a snapshot.
type Planner interface {
	Plan(ctx context.Context, snap domain.Snapshot) domain.Plan
}

// PlanLoader publishes a computed plan.
type PlanLoader interface {
	LoadPlan(ctx context.Context, plan domain.Plan) error
}

// Pipeline orchestrates the extract-plan-load pass.
type Pipeline struct {
	source  SnapshotSource
	planner Planner
	loader  PlanLoader // optional
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
}

// New creates a Pipeline. loader may be nil, in which case plans are only
// returned to the caller.
func New(s SnapshotSource, p Planner, l PlanLoader, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:  s,
		planner: p,
		loader:  l,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil once a pass has completed, or an error
// describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no fulfillment pass has completed yet")
	}
	return nil
}

// Compute reads a snapshot and plans it without publishing. It serves
// read-only callers such as the HTTP API.
func (p *Pipeline) Compute(ctx context.Context) (domain.Plan, error) {
	start := time.Now()

	snap, err := p.source.Snapshot(ctx)
	if err != nil {
		p.metrics.RunsTotal.WithLabelValues("error").Inc()
		return domain.Plan{}, fmt.Errorf("read snapshot: %w", err)
	}

	plan := p.planner.Plan(ctx, snap)

	p.metrics.RunsTotal.WithLabelValues("success").Inc()
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)
	return plan, nil
}

// Run executes a single pass and publishes the plan. The only error is a
// failure to read the snapshot; publish failures are logged and the plan
// is still returned.
func (p *Pipeline) Run(ctx context.Context) (domain.Plan, error) {
	plan, err := p.Compute(ctx)
	if err != nil {
		return domain.Plan{}, err
	}

	if p.loader != nil {
		if err := p.loader.LoadPlan(ctx, plan); err != nil {
			p.metrics.PlansPublished.WithLabelValues("error").Inc()
			p.logger.Error("publish plan failed", "run_id", plan.RunID, "error", err)
		} else {
			p.metrics.PlansPublished.WithLabelValues("success").Inc()
		}
	}
	return plan, nil
}

// Loop runs a pass every interval until ctx is cancelled. Snapshot failures
// are retried with exponential backoff before the next scheduled pass.
func (p *Pipeline) Loop(ctx context.Context, interval time.Duration) {
	p.logger.Info("planning loop started", "interval", interval)

	backoff := initialBackoff
	for {
		if _, err := p.Run(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			p.logger.Error("fulfillment pass failed", "error", err, "retry_in", backoff)
			if !sleepWithContext(ctx, backoff) {
				break
			}
			backoff = nextBackoff(backoff, maxBackoff)
			continue
		}
		backoff = initialBackoff

		if !sleepWithContext(ctx, interval) {
			break
		}
	}
	p.logger.Info("planning loop stopping", "reason", ctx.Err())
}

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
