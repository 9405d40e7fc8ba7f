// Package fulfillment resolves addresses to coordinates and ranks the
// restaurants able to prepare each open order by distance.
package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/order-fulfillment-engine/internal/domain"
	"github.com/couchcryptid/order-fulfillment-engine/internal/observability"
	"golang.org/x/sync/singleflight"
)

// Resolver turns an address into a coordinate, consulting the cache before
// the geocoder and caching only positive results.
type Resolver struct {
	cache    domain.CoordinateCache
	geocoder domain.Geocoder // nil disables geocoding; only cached addresses resolve
	timeout  time.Duration
	metrics  *observability.Metrics
	logger   *slog.Logger

	// inflight collapses concurrent misses for the same address into one
	// geocoder call.
	inflight singleflight.Group
}

// NewResolver creates a Resolver. timeout bounds each geocoder call. A
// call shared by several waiters is not cancelled with any one of them, so
// timeout (or the geocoder's own client timeout when zero) is its only bound.
func NewResolver(cache domain.CoordinateCache, geocoder domain.Geocoder, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Resolver {
	return &Resolver{
		cache:    cache,
		geocoder: geocoder,
		timeout:  timeout,
		metrics:  metrics,
		logger:   logger,
	}
}

// Resolve returns the coordinate for address, or false when it cannot be
// resolved. Failures are logged and counted, never returned.
func (r *Resolver) Resolve(ctx context.Context, address domain.Address) (domain.Coordinate, bool) {
	coord, err := r.Lookup(ctx, address)
	if err != nil {
		r.metrics.UnresolvedAddresses.Inc()
		return domain.Coordinate{}, false
	}
	return coord, true
}

// Lookup is Resolve with the reason for a miss. Every error wraps
// domain.ErrAddressUnresolvable; geocoder failures also wrap the
// underlying error.
func (r *Resolver) Lookup(ctx context.Context, address domain.Address) (domain.Coordinate, error) {
	address = address.Normalize()
	if address == "" {
		return domain.Coordinate{}, fmt.Errorf("%w: blank address", domain.ErrAddressUnresolvable)
	}

	coord, found, err := r.cache.Get(ctx, address)
	switch {
	case err != nil:
		r.metrics.GeocodeCache.WithLabelValues("error").Inc()
		r.logger.Warn("coordinate cache read failed", "address", address, "error", err)
	case found:
		r.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return coord, nil
	default:
		r.metrics.GeocodeCache.WithLabelValues("miss").Inc()
	}

	if r.geocoder == nil {
		return domain.Coordinate{}, fmt.Errorf("%w: %q not cached and geocoding disabled", domain.ErrAddressUnresolvable, address)
	}

	// The shared call outlives any single waiter; each waiter gives up on
	// its own ctx.
	flight := r.inflight.DoChan(string(address), func() (any, error) {
		return r.fetch(context.WithoutCancel(ctx), address)
	})
	select {
	case <-ctx.Done():
		return domain.Coordinate{}, errors.Join(domain.ErrAddressUnresolvable, ctx.Err())
	case res := <-flight:
		if res.Err != nil {
			return domain.Coordinate{}, res.Err
		}
		return res.Val.(domain.Coordinate), nil
	}
}

// fetch geocodes a cache miss and stores a positive result.
func (r *Resolver) fetch(ctx context.Context, address domain.Address) (domain.Coordinate, error) {
	coord, found, err := r.geocode(ctx, address)
	if err != nil {
		r.logger.Warn("geocode failed", "address", address, "error", err)
		return domain.Coordinate{}, errors.Join(domain.ErrAddressUnresolvable, err)
	}
	if !found {
		r.logger.Debug("address not found by geocoder", "address", address)
		return domain.Coordinate{}, fmt.Errorf("%w: %q not found", domain.ErrAddressUnresolvable, address)
	}

	if err := r.cache.Put(ctx, address, coord); err != nil {
		r.logger.Warn("coordinate cache write failed", "address", address, "error", err)
	}
	return coord, nil
}

func (r *Resolver) geocode(ctx context.Context, address domain.Address) (domain.Coordinate, bool, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.geocoder.Geocode(ctx, address)
}
