package fulfillment

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/order-fulfillment-engine/internal/domain"
)

// TieredCache layers a fast in-process cache in front of a persistent one.
type TieredCache struct {
	front  domain.CoordinateCache
	store  domain.CoordinateCache
	logger *slog.Logger
}

var _ domain.CoordinateCache = (*TieredCache)(nil)

// NewTieredCache creates a cache that reads front first, then store.
func NewTieredCache(front, store domain.CoordinateCache, logger *slog.Logger) *TieredCache {
	return &TieredCache{front: front, store: store, logger: logger}
}

// Get checks the front tier, then the store. A store hit is copied into the
// front tier.
func (c *TieredCache) Get(ctx context.Context, address domain.Address) (domain.Coordinate, bool, error) {
	if coord, found, err := c.front.Get(ctx, address); err == nil && found {
		return coord, true, nil
	}

	coord, found, err := c.store.Get(ctx, address)
	if err != nil || !found {
		return coord, found, err
	}
	if err := c.front.Put(ctx, address, coord); err != nil {
		c.logger.Debug("front cache fill failed", "address", address, "error", err)
	}
	return coord, true, nil
}

// Put writes the store first so the front tier never holds an entry the
// store rejected.
func (c *TieredCache) Put(ctx context.Context, address domain.Address, coord domain.Coordinate) error {
	if err := c.store.Put(ctx, address, coord); err != nil {
		return err
	}
	return c.front.Put(ctx, address, coord)
}
