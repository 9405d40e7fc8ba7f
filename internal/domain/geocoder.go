package domain

import (
	"context"
	"errors"
)

// ErrGeocode marks transport or protocol failures from a geocoding provider.
var ErrGeocode = errors.New("geocode failed")

// ErrAddressUnresolvable means no coordinate could be obtained for an
// address, whether it was blank, not found, or the lookup failed.
var ErrAddressUnresolvable = errors.New("address unresolvable")

// Geocoder converts an address to a coordinate.
type Geocoder interface {
	// Geocode returns found=false with a nil error when the provider has no
	// match for the address. Transport and protocol failures return an error
	// wrapping ErrGeocode.
	Geocode(ctx context.Context, address Address) (coord Coordinate, found bool, err error)
}

// CoordinateCache stores coordinates by exact address.
type CoordinateCache interface {
	Get(ctx context.Context, address Address) (coord Coordinate, found bool, err error)
	Put(ctx context.Context, address Address, coord Coordinate) error
}
