package fulfillment

import (
	"context"

	"github.com/couchcryptid/order-fulfillment-engine/internal/domain"
)

// Ranker annotates an order's candidate restaurants with their distance to
// the delivery address.
type Ranker struct {
	resolver *Resolver
}

// NewRanker creates a Ranker that resolves addresses through resolver.
func NewRanker(resolver *Resolver) *Ranker {
	return &Ranker{resolver: resolver}
}

// Rank returns one candidate per restaurant, in the order given. The
// delivery address is resolved once. If it cannot be resolved every
// candidate is unresolved and restaurant addresses are not looked up;
// otherwise only restaurants whose own address fails are unresolved.
func (r *Ranker) Rank(ctx context.Context, order domain.Order, restaurants []domain.Restaurant) domain.OrderPlan {
	plan := domain.OrderPlan{
		Order:      order,
		TotalCost:  order.TotalCost(),
		Candidates: make([]domain.FulfillmentCandidate, 0, len(restaurants)),
	}
	if len(restaurants) == 0 {
		return plan
	}

	client, clientOK := r.resolver.Resolve(ctx, order.Address)
	plan.ClientResolved = clientOK

	for _, rest := range restaurants {
		c := domain.FulfillmentCandidate{Restaurant: rest, Distance: domain.Unresolved()}
		if clientOK {
			if coord, ok := r.resolver.Resolve(ctx, rest.Address); ok {
				c.Distance = domain.Kilometers(domain.DistanceKm(coord, client))
			}
		}
		plan.Candidates = append(plan.Candidates, c)
	}
	return plan
}
