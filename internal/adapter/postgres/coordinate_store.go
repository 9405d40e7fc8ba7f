package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/couchcryptid/order-fulfillment-engine/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CoordinateStore is the persistent coordinate cache backed by the places
// table.
type CoordinateStore struct {
	pool *pgxpool.Pool
}

var _ domain.CoordinateCache = (*CoordinateStore)(nil)

// NewCoordinateStore creates a CoordinateStore backed by the given pool.
func NewCoordinateStore(pool *pgxpool.Pool) *CoordinateStore {
	return &CoordinateStore{pool: pool}
}

// Get looks up the coordinate for an exact address.
func (s *CoordinateStore) Get(ctx context.Context, address domain.Address) (domain.Coordinate, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	const q = `SELECT lat, lon FROM places WHERE address = $1`

	var c domain.Coordinate
	err := s.pool.QueryRow(ctx, q, string(address)).Scan(&c.Lat, &c.Lon)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Coordinate{}, false, nil
	}
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("postgres: places: get: %w", err)
	}
	return c, true, nil
}

// Put records the coordinate for an address. Entries are write-once: a
// second write for a stored address, including a racing one, is a no-op.
func (s *CoordinateStore) Put(ctx context.Context, address domain.Address, coord domain.Coordinate) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	const q = `
		INSERT INTO places (address, lat, lon)
		VALUES ($1, $2, $3)
		ON CONFLICT (address) DO NOTHING`

	if _, err := s.pool.Exec(ctx, q, string(address), coord.Lat, coord.Lon); err != nil {
		return fmt.Errorf("postgres: places: put: %w", err)
	}
	return nil
}
