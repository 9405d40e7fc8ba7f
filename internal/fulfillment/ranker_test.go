package fulfillment

import (
	"context"
	"testing"

	"github.com/couchcryptid/order-fulfillment-engine/internal/adapter/memory"
	"github.com/couchcryptid/order-fulfillment-engine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRanker_NoRestaurantsSkipsGeocoding(t *testing.T) {
	geo := newFakeGeocoder(map[domain.Address]domain.Coordinate{addrX: coordX})
	r := NewRanker(newTestResolver(memory.NewCache(10), geo))

	plan := r.Rank(context.Background(), domain.Order{ID: 1, Address: addrX}, nil)
	assert.Empty(t, plan.Candidates)
	assert.NotNil(t, plan.Candidates)
	assert.Zero(t, geo.totalCalls())
}

func TestRanker_PreservesInputOrder(t *testing.T) {
	near := domain.Restaurant{ID: 7, Address: "near"}
	far := domain.Restaurant{ID: 3, Address: "far"}
	geo := newFakeGeocoder(map[domain.Address]domain.Coordinate{
		addrX:        coordX,
		near.Address: {Lat: 55.701, Lon: 37.601},
		far.Address:  {Lat: 56.5, Lon: 38.5},
	})
	r := NewRanker(newTestResolver(memory.NewCache(10), geo))

	plan := r.Rank(context.Background(), domain.Order{ID: 1, Address: addrX}, []domain.Restaurant{far, near})

	require.Len(t, plan.Candidates, 2)
	assert.Equal(t, far.ID, plan.Candidates[0].Restaurant.ID)
	assert.Equal(t, near.ID, plan.Candidates[1].Restaurant.ID)
	assert.Greater(t, plan.Candidates[0].Distance.Km, plan.Candidates[1].Distance.Km)

	sorted := domain.SortByDistance(plan.Candidates)
	assert.Equal(t, near.ID, sorted[0].Restaurant.ID)
}

func TestRanker_ClientResolvedOnce(t *testing.T) {
	restaurants := []domain.Restaurant{
		{ID: 1, Address: addrY},
		{ID: 2, Address: addrY},
		{ID: 3, Address: addrY},
	}
	geo := newFakeGeocoder(map[domain.Address]domain.Coordinate{addrX: coordX, addrY: coordY})
	r := NewRanker(newTestResolver(memory.NewCache(10), geo))

	plan := r.Rank(context.Background(), domain.Order{ID: 1, Address: addrX}, restaurants)

	require.Len(t, plan.Candidates, 3)
	for _, c := range plan.Candidates {
		assert.Equal(t, domain.Kilometers(domain.DistanceKm(coordX, coordY)), c.Distance)
	}
	assert.Equal(t, 1, geo.callsFor(addrX))
	assert.Equal(t, 1, geo.callsFor(addrY))
}
