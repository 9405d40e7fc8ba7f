package domain

import "slices"

// ProductID identifies a catalog product.
type ProductID int64

// Product is a catalog entry.
type Product struct {
	ID   ProductID `json:"id"`
	Name string    `json:"name"`
}

// ProductSet is a set of product ids.
type ProductSet map[ProductID]struct{}

// NewProductSet builds a set from ids, ignoring duplicates.
func NewProductSet(ids ...ProductID) ProductSet {
	s := make(ProductSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s ProductSet) Add(id ProductID) {
	s[id] = struct{}{}
}

func (s ProductSet) Has(id ProductID) bool {
	_, ok := s[id]
	return ok
}

func (s ProductSet) Len() int {
	return len(s)
}

// SubsetOf reports whether every id in s is also in other. The empty set is a
// subset of anything; callers that must reject empty orders check Len first.
func (s ProductSet) SubsetOf(other ProductSet) bool {
	if len(s) > len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// Sorted returns the ids in ascending order.
func (s ProductSet) Sorted() []ProductID {
	ids := make([]ProductID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
