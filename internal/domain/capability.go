package domain

import "slices"

// CapabilityIndex maps each restaurant to the set of products it can prepare
// right now. It is rebuilt on every matching run and never cached.
type CapabilityIndex struct {
	restaurants []Restaurant
	sets        map[RestaurantID]ProductSet
}

// BuildCapabilityIndex derives capability sets from availability records.
// Only records with Available set contribute. Every supplied restaurant is
// indexed, with an empty set when it offers nothing; records for restaurants
// that were not supplied are ignored because they cannot be located.
func BuildCapabilityIndex(restaurants []Restaurant, records []MenuAvailability) CapabilityIndex {
	ix := CapabilityIndex{
		restaurants: make([]Restaurant, 0, len(restaurants)),
		sets:        make(map[RestaurantID]ProductSet, len(restaurants)),
	}
	for _, r := range restaurants {
		if _, dup := ix.sets[r.ID]; dup {
			continue
		}
		ix.restaurants = append(ix.restaurants, r)
		ix.sets[r.ID] = ProductSet{}
	}
	slices.SortFunc(ix.restaurants, func(a, b Restaurant) int {
		return compareIDs(a.ID, b.ID)
	})

	for _, rec := range records {
		if !rec.Available {
			continue
		}
		if set, ok := ix.sets[rec.RestaurantID]; ok {
			set.Add(rec.ProductID)
		}
	}
	return ix
}

// Restaurants returns the indexed restaurants in ascending id order.
func (ix CapabilityIndex) Restaurants() []Restaurant {
	return ix.restaurants
}

// Capabilities returns the capability set for a restaurant; unknown
// restaurants get an empty set.
func (ix CapabilityIndex) Capabilities(id RestaurantID) ProductSet {
	if set, ok := ix.sets[id]; ok {
		return set
	}
	return ProductSet{}
}

// CanFulfill reports whether the restaurant offers every required product.
// An empty requirement is never fulfillable.
func (ix CapabilityIndex) CanFulfill(id RestaurantID, required ProductSet) bool {
	if required.Len() == 0 {
		return false
	}
	return required.SubsetOf(ix.Capabilities(id))
}

func compareIDs[T ~int64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
