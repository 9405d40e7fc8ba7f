//go:build integration

package integration_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/couchcryptid/order-fulfillment-engine/internal/adapter/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node Kafka container and returns its broker address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	ctr, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("test-cluster"))
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err, "start kafka container")

	brokers, err := ctr.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	cc, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer cc.Close()

	require.NoError(t, cc.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// startPostgres runs a Postgres container, applies the service migrations
// and the upstream order tables, and returns a pool.
func startPostgres(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("foodcart"),
		tcpostgres.WithUsername("foodcart"),
		tcpostgres.WithPassword("foodcart"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err, "start postgres container")

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool, discardLogger()))
	_, err = pool.Exec(ctx, upstreamSchema)
	require.NoError(t, err)
	return pool
}

// upstreamSchema mirrors the order-management tables the catalog reads.
const upstreamSchema = `
CREATE TABLE foodcartapp_restaurant (
    id      BIGSERIAL PRIMARY KEY,
    name    VARCHAR(50) NOT NULL,
    address VARCHAR(100) NOT NULL DEFAULT ''
);
CREATE TABLE foodcartapp_product (
    id   BIGSERIAL PRIMARY KEY,
    name VARCHAR(50) NOT NULL
);
CREATE TABLE foodcartapp_restaurantmenuitem (
    id            BIGSERIAL PRIMARY KEY,
    restaurant_id BIGINT NOT NULL REFERENCES foodcartapp_restaurant(id),
    product_id    BIGINT NOT NULL REFERENCES foodcartapp_product(id),
    availability  BOOLEAN NOT NULL DEFAULT TRUE,
    UNIQUE (restaurant_id, product_id)
);
CREATE TABLE foodcartapp_order (
    id      BIGSERIAL PRIMARY KEY,
    address VARCHAR(100) NOT NULL,
    status  INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE foodcartapp_orderitem (
    id         BIGSERIAL PRIMARY KEY,
    order_id   BIGINT NOT NULL REFERENCES foodcartapp_order(id),
    product_id BIGINT NOT NULL REFERENCES foodcartapp_product(id),
    quantity   INTEGER NOT NULL,
    price      NUMERIC(8, 2)
);`

// geocoderServer fakes the Yandex geocoder from a fixed address table and
// counts requests.
func geocoderServer(t *testing.T, positions map[string]string) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		pos, ok := positions[r.URL.Query().Get("geocode")]
		if !ok {
			_, _ = io.WriteString(w, `{"response":{"GeoObjectCollection":{"featureMember":[]}}}`)
			return
		}
		_, _ = io.WriteString(w, `{"response":{"GeoObjectCollection":{"featureMember":[{"GeoObject":{"Point":{"pos":"`+pos+`"}}}]}}}`)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}
