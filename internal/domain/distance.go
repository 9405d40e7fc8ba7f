package domain

import (
	"encoding/json"
	"math"

	"github.com/paulmach/orb/geo"
)

// DistanceKm returns the great-circle distance between a and b in kilometers,
// rounded to two decimal places.
func DistanceKm(a, b Coordinate) float64 {
	return RoundKm(geo.DistanceHaversine(a.Point(), b.Point()) / 1000)
}

// RoundKm rounds to two decimal places.
func RoundKm(km float64) float64 {
	return math.Round(km*100) / 100
}

// Distance is either a numeric distance in kilometers or the unresolved
// marker. The zero value is unresolved, so a missing coordinate can never
// read as "0 km".
type Distance struct {
	Km       float64
	Resolved bool
}

// Kilometers returns a resolved distance.
func Kilometers(km float64) Distance {
	return Distance{Km: km, Resolved: true}
}

// Unresolved returns the unresolved marker.
func Unresolved() Distance {
	return Distance{}
}

// Between resolves the distance between two optional coordinates. Either side
// missing yields the unresolved marker.
func Between(a Coordinate, aOK bool, b Coordinate, bOK bool) Distance {
	if !aOK || !bOK {
		return Unresolved()
	}
	return Kilometers(DistanceKm(a, b))
}

type distanceJSON struct {
	Km         *float64 `json:"km"`
	Unresolved bool     `json:"unresolved,omitempty"`
}

// MarshalJSON renders {"km": 6.39} or {"km": null, "unresolved": true}.
func (d Distance) MarshalJSON() ([]byte, error) {
	if !d.Resolved {
		return json.Marshal(distanceJSON{Unresolved: true})
	}
	km := d.Km
	return json.Marshal(distanceJSON{Km: &km})
}

// UnmarshalJSON accepts the MarshalJSON shape.
func (d *Distance) UnmarshalJSON(b []byte) error {
	var v distanceJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v.Km == nil || v.Unresolved {
		*d = Unresolved()
		return nil
	}
	*d = Kilometers(*v.Km)
	return nil
}
