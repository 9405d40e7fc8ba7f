package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// FulfillmentCandidate is a restaurant able to prepare an order, annotated
// with its distance to the delivery address.
type FulfillmentCandidate struct {
	Restaurant Restaurant `json:"restaurant"`
	Distance   Distance   `json:"distance"`
}

// OrderPlan is the ranked result for one order.
type OrderPlan struct {
	Order          Order                  `json:"order"`
	TotalCost      decimal.Decimal        `json:"total_cost"`
	ClientResolved bool                   `json:"client_resolved"`
	Candidates     []FulfillmentCandidate `json:"candidates"`
	Warning        *IntegrityWarning      `json:"warning,omitempty"`
}

// Plan is the result of one fulfillment pass over all open orders.
type Plan struct {
	RunID       string      `json:"run_id"`
	GeneratedAt time.Time   `json:"generated_at"`
	Orders      []OrderPlan `json:"orders"`
}

// NewPlan stamps a plan with the current time.
func NewPlan(runID string, orders []OrderPlan) Plan {
	return Plan{
		RunID:       runID,
		GeneratedAt: clock.Now().UTC(),
		Orders:      orders,
	}
}

// SortByDistance returns a copy of candidates ordered nearest first, with
// unresolved candidates last. Ties keep their original relative order. This
// is a display helper; ranking itself never reorders.
func SortByDistance(candidates []FulfillmentCandidate) []FulfillmentCandidate {
	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, func(a, b FulfillmentCandidate) int {
		switch {
		case a.Distance.Resolved && !b.Distance.Resolved:
			return -1
		case !a.Distance.Resolved && b.Distance.Resolved:
			return 1
		case !a.Distance.Resolved:
			return 0
		case a.Distance.Km < b.Distance.Km:
			return -1
		case a.Distance.Km > b.Distance.Km:
			return 1
		default:
			return 0
		}
	})
	return sorted
}
