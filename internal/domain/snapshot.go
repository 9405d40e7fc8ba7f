package domain

import (
	"cmp"
	"slices"
)

// Snapshot is the read-only input of one fulfillment pass.
type Snapshot struct {
	Orders       []Order            `json:"orders"`
	Restaurants  []Restaurant       `json:"restaurants"`
	Products     []Product          `json:"products"`
	Availability []MenuAvailability `json:"availability"`
}

// Catalog returns the set of known product ids, or nil when the snapshot
// carries no product list (existence is then not checked).
func (s Snapshot) Catalog() ProductSet {
	if len(s.Products) == 0 {
		return nil
	}
	set := make(ProductSet, len(s.Products))
	for _, p := range s.Products {
		set.Add(p.ID)
	}
	return set
}

// AvailabilityMatrix lays out the snapshot's availability records as a
// product × restaurant grid, with restaurant columns ordered by name.
func (s Snapshot) AvailabilityMatrix() AvailabilityMatrix {
	restaurants := slices.Clone(s.Restaurants)
	slices.SortStableFunc(restaurants, func(a, b Restaurant) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return BuildAvailabilityMatrix(restaurants, s.Products, s.Availability)
}
