package fulfillment

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/order-fulfillment-engine/internal/domain"
	"github.com/couchcryptid/order-fulfillment-engine/internal/observability"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Engine runs a fulfillment pass: capability index, matching, then distance
// ranking of each matched order.
type Engine struct {
	ranker  *Ranker
	workers int
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewEngine creates an Engine ranking up to workers orders concurrently.
func NewEngine(resolver *Resolver, workers int, metrics *observability.Metrics, logger *slog.Logger) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		ranker:  NewRanker(resolver),
		workers: workers,
		metrics: metrics,
		logger:  logger,
	}
}

// Plan computes a plan for every open order in the snapshot. Orders appear
// in snapshot order. Address problems degrade individual distances to
// unresolved and integrity problems are attached to the affected order, so
// Plan has no error result.
func (e *Engine) Plan(ctx context.Context, snap domain.Snapshot) domain.Plan {
	start := time.Now()

	index := domain.BuildCapabilityIndex(snap.Restaurants, snap.Availability)
	matches, warnings := domain.Match(snap.Orders, index, snap.Catalog())
	for _, w := range warnings {
		e.metrics.IntegrityWarnings.WithLabelValues(w.Reason).Inc()
		e.logger.Warn("order skipped", "order_id", w.OrderID, "reason", w.Reason, "detail", w.Detail)
	}

	plans := make([]domain.OrderPlan, len(matches))
	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, m := range matches {
		g.Go(func() error {
			plans[i] = e.rank(ctx, m)
			return nil
		})
	}
	_ = g.Wait() // workers never return an error

	candidates := 0
	for _, p := range plans {
		candidates += len(p.Candidates)
	}
	e.metrics.OrdersPlanned.Add(float64(len(plans)))
	e.metrics.CandidatesRanked.Add(float64(candidates))

	plan := domain.NewPlan(uuid.NewString(), plans)
	e.logger.Info("fulfillment plan computed",
		"run_id", plan.RunID,
		"orders", len(plans),
		"candidates", candidates,
		"warnings", len(warnings),
		"duration", time.Since(start),
	)
	return plan
}

func (e *Engine) rank(ctx context.Context, m domain.OrderMatch) domain.OrderPlan {
	if m.Warning != nil {
		return domain.OrderPlan{
			Order:      m.Order,
			TotalCost:  m.Order.TotalCost(),
			Candidates: []domain.FulfillmentCandidate{},
			Warning:    m.Warning,
		}
	}
	return e.ranker.Rank(ctx, m.Order, m.Candidates)
}
