package fulfillment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/order-fulfillment-engine/internal/adapter/memory"
	"github.com/couchcryptid/order-fulfillment-engine/internal/domain"
	"github.com/couchcryptid/order-fulfillment-engine/internal/observability"
)

var errBoom = errors.New("boom")

// fakeGeocoder answers from a fixed table and counts calls per address.
// Addresses listed in failing return a transport error; anything else not
// in known is not found.
type fakeGeocoder struct {
	known   map[domain.Address]domain.Coordinate
	failing map[domain.Address]bool

	mu    sync.Mutex
	calls map[domain.Address]int
}

func newFakeGeocoder(known map[domain.Address]domain.Coordinate) *fakeGeocoder {
	return &fakeGeocoder{
		known:   known,
		failing: map[domain.Address]bool{},
		calls:   map[domain.Address]int{},
	}
}

func (g *fakeGeocoder) Geocode(_ context.Context, address domain.Address) (domain.Coordinate, bool, error) {
	g.mu.Lock()
	g.calls[address]++
	g.mu.Unlock()

	if g.failing[address] {
		return domain.Coordinate{}, false, errors.Join(domain.ErrGeocode, errBoom)
	}
	c, ok := g.known[address]
	return c, ok, nil
}

func (g *fakeGeocoder) callsFor(address domain.Address) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[address]
}

func (g *fakeGeocoder) totalCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		n += c
	}
	return n
}

// blockingGeocoder waits for ctx to end.
type blockingGeocoder struct{}

func (blockingGeocoder) Geocode(ctx context.Context, _ domain.Address) (domain.Coordinate, bool, error) {
	select {
	case <-ctx.Done():
		return domain.Coordinate{}, false, errors.Join(domain.ErrGeocode, ctx.Err())
	case <-time.After(5 * time.Second):
		return domain.Coordinate{}, false, nil
	}
}

// gatedGeocoder holds every call until release is closed.
type gatedGeocoder struct {
	coord   domain.Coordinate
	started chan struct{}
	release chan struct{}
	once    sync.Once
	calls   atomic.Int32
}

func newGatedGeocoder(coord domain.Coordinate) *gatedGeocoder {
	return &gatedGeocoder{coord: coord, started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedGeocoder) Geocode(ctx context.Context, _ domain.Address) (domain.Coordinate, bool, error) {
	g.calls.Add(1)
	g.once.Do(func() { close(g.started) })
	select {
	case <-ctx.Done():
		return domain.Coordinate{}, false, errors.Join(domain.ErrGeocode, ctx.Err())
	case <-g.release:
		return g.coord, true, nil
	}
}

// brokenCache fails reads and/or writes.
type brokenCache struct {
	failGet bool
	failPut bool
	inner   *memory.Cache
}

func (c *brokenCache) Get(ctx context.Context, address domain.Address) (domain.Coordinate, bool, error) {
	if c.failGet {
		return domain.Coordinate{}, false, errBoom
	}
	return c.inner.Get(ctx, address)
}

func (c *brokenCache) Put(ctx context.Context, address domain.Address, coord domain.Coordinate) error {
	if c.failPut {
		return errBoom
	}
	return c.inner.Put(ctx, address, coord)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestResolver(cache domain.CoordinateCache, geocoder domain.Geocoder) *Resolver {
	return NewResolver(cache, geocoder, time.Second, observability.NewMetricsForTesting(), discardLogger())
}
