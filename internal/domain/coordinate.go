package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// Address is a free-text address. It is the natural key of the coordinate
// cache: two textually different addresses are distinct entries.
type Address string

// Normalize trims surrounding whitespace. No case folding or fuzzy matching
// is applied.
func (a Address) Normalize() Address {
	return Address(strings.TrimSpace(string(a)))
}

// IsBlank reports whether the address is empty or whitespace only.
func (a Address) IsBlank() bool {
	return a.Normalize() == ""
}

// Coordinate is a WGS-84 latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Point converts to an orb.Point, which orders axes as [lon, lat].
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

// Valid reports whether both axes are finite and within range.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// ParsePosition parses a space-separated "longitude latitude" position string
// and returns it as a (Lat, Lon) Coordinate.
func ParsePosition(pos string) (Coordinate, error) {
	fields := strings.Fields(pos)
	if len(fields) != 2 {
		return Coordinate{}, fmt.Errorf("parse position %q: expected 2 fields, got %d", pos, len(fields))
	}
	lon, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("parse position %q: longitude: %w", pos, err)
	}
	lat, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("parse position %q: latitude: %w", pos, err)
	}
	c := Coordinate{Lat: lat, Lon: lon}
	if !c.Valid() {
		return Coordinate{}, fmt.Errorf("parse position %q: coordinate out of range", pos)
	}
	return c, nil
}
