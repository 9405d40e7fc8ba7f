//go:build integration

package integration_test

import (
	"context"
	"testing"
	"time"

	"github.com/couchcryptid/order-fulfillment-engine/internal/adapter/memory"
	"github.com/couchcryptid/order-fulfillment-engine/internal/adapter/postgres"
	"github.com/couchcryptid/order-fulfillment-engine/internal/adapter/yandex"
	"github.com/couchcryptid/order-fulfillment-engine/internal/domain"
	"github.com/couchcryptid/order-fulfillment-engine/internal/fulfillment"
	"github.com/couchcryptid/order-fulfillment-engine/internal/observability"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_Idempotent(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool := startPostgres(ctx, t)
	require.NoError(t, postgres.Migrate(ctx, pool, discardLogger()))

	var n int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM schema_migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestCoordinateStore_GetPut(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store := postgres.NewCoordinateStore(startPostgres(ctx, t))
	addr := domain.Address("Moscow, Tverskaya 12")

	_, found, err := store.Get(ctx, addr)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Put(ctx, addr, domain.Coordinate{Lat: 55.75, Lon: 37.65}))
	// A racing writer for the same address is a no-op; the first entry stays.
	require.NoError(t, store.Put(ctx, addr, domain.Coordinate{Lat: 55.76, Lon: 37.66}))

	got, found, err := store.Get(ctx, addr)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, domain.Coordinate{Lat: 55.75, Lon: 37.65}, got)

	// Keys are exact strings.
	_, found, err = store.Get(ctx, "moscow, tverskaya 12")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResolver_PersistentCacheSurvivesRestart(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool := startPostgres(ctx, t)
	geo, calls := geocoderServer(t, map[string]string{"Moscow, Tverskaya 12": "37.65 55.75"})

	newResolver := func() *fulfillment.Resolver {
		metrics := observability.NewMetricsForTesting()
		cache := fulfillment.NewTieredCache(memory.NewCache(10), postgres.NewCoordinateStore(pool), discardLogger())
		client := yandex.NewClient("key", geo.URL, 5*time.Second, metrics, discardLogger())
		return fulfillment.NewResolver(cache, client, 5*time.Second, metrics, discardLogger())
	}

	c1, ok := newResolver().Resolve(ctx, "Moscow, Tverskaya 12")
	require.True(t, ok)

	// A fresh resolver has an empty memory tier but shares the table.
	c2, ok := newResolver().Resolve(ctx, "Moscow, Tverskaya 12")
	require.True(t, ok)

	assert.Equal(t, c1, c2)
	assert.Equal(t, domain.Coordinate{Lat: 55.75, Lon: 37.65}, c2)
	assert.Equal(t, int64(1), calls.Load())

	// Not-found addresses never reach the table.
	_, ok = newResolver().Resolve(ctx, "nowhere")
	assert.False(t, ok)
	var n int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM places`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestCatalogRepository_Snapshot(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool := startPostgres(ctx, t)
	_, err := pool.Exec(ctx, `
		INSERT INTO foodcartapp_restaurant (id, name, address) VALUES
			(1, 'R1', 'Moscow, Tverskaya 12'),
			(2, 'R2', 'Moscow, Arbat 20');
		INSERT INTO foodcartapp_product (id, name) VALUES (1, 'Cheeseburger'), (2, 'Milkshake');
		INSERT INTO foodcartapp_restaurantmenuitem (restaurant_id, product_id, availability) VALUES
			(1, 1, true), (1, 2, true), (2, 1, true), (2, 2, false);
		INSERT INTO foodcartapp_order (id, address, status) VALUES
			(10, 'Moscow, Leninsky prospekt 30', 1),
			(11, 'Moscow, Arbat 5', 0),
			(12, 'Moscow, Arbat 7', 4);
		INSERT INTO foodcartapp_orderitem (order_id, product_id, quantity, price) VALUES
			(10, 1, 2, 350.00), (10, 2, 1, 120.50),
			(11, 1, 1, 350.00),
			(12, 1, 1, 350.00);`)
	require.NoError(t, err)

	snap, err := postgres.NewCatalogRepository(pool).Snapshot(ctx)
	require.NoError(t, err)

	// Completed orders are excluded; the rest are ordered by status.
	require.Len(t, snap.Orders, 2)
	assert.Equal(t, domain.OrderID(11), snap.Orders[0].ID)
	assert.Equal(t, domain.StatusUnprocessed, snap.Orders[0].Status)
	assert.Equal(t, domain.OrderID(10), snap.Orders[1].ID)
	require.Len(t, snap.Orders[1].Items, 2)
	assert.True(t, decimal.RequireFromString("820.50").Equal(snap.Orders[1].TotalCost()))

	assert.Len(t, snap.Restaurants, 2)
	assert.Len(t, snap.Products, 2)
	require.Len(t, snap.Availability, 4)
	assert.False(t, snap.Availability[3].Available)
}
