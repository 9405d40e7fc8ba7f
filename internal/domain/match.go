package domain

import "fmt"

// Integrity warning reasons.
const (
	ReasonNoProducts     = "order has no products"
	ReasonUnknownProduct = "order references unknown product"
)

// IntegrityWarning flags an order whose product data is unusable. The order
// is kept with zero candidates instead of failing the run.
type IntegrityWarning struct {
	OrderID OrderID `json:"order_id"`
	Reason  string  `json:"reason"`
	Detail  string  `json:"detail,omitempty"`
}

func (w IntegrityWarning) String() string {
	if w.Detail == "" {
		return fmt.Sprintf("order %d: %s", w.OrderID, w.Reason)
	}
	return fmt.Sprintf("order %d: %s: %s", w.OrderID, w.Reason, w.Detail)
}

// OrderMatch is an order together with the restaurants able to prepare all
// of it.
type OrderMatch struct {
	Order      Order
	Candidates []Restaurant
	Warning    *IntegrityWarning
}

// Match finds fulfillment candidates for each non-terminal order, preserving
// the order in which orders were supplied. Candidates appear in ascending
// restaurant id order.
//
// catalog is the set of known product ids. When nil, product existence is
// not checked.
func Match(orders []Order, index CapabilityIndex, catalog ProductSet) ([]OrderMatch, []IntegrityWarning) {
	matches := make([]OrderMatch, 0, len(orders))
	var warnings []IntegrityWarning

	for _, order := range orders {
		if order.Status.IsTerminal() {
			continue
		}

		m := OrderMatch{Order: order, Candidates: []Restaurant{}}
		required := order.RequiredProducts()

		if w := checkIntegrity(order, required, catalog); w != nil {
			m.Warning = w
			warnings = append(warnings, *w)
			matches = append(matches, m)
			continue
		}

		for _, r := range index.Restaurants() {
			if index.CanFulfill(r.ID, required) {
				m.Candidates = append(m.Candidates, r)
			}
		}
		matches = append(matches, m)
	}
	return matches, warnings
}

func checkIntegrity(order Order, required, catalog ProductSet) *IntegrityWarning {
	if required.Len() == 0 {
		return &IntegrityWarning{OrderID: order.ID, Reason: ReasonNoProducts}
	}
	if catalog == nil {
		return nil
	}
	for _, id := range required.Sorted() {
		if !catalog.Has(id) {
			return &IntegrityWarning{
				OrderID: order.ID,
				Reason:  ReasonUnknownProduct,
				Detail:  fmt.Sprintf("product %d", id),
			}
		}
	}
	return nil
}
