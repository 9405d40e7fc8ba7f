package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OrderID identifies an order.
type OrderID int64

// OrderStatus is the lifecycle stage of an order.
type OrderStatus int

const (
	StatusUnprocessed OrderStatus = iota
	StatusAccepted
	StatusHandedToRestaurant
	StatusHandedToCourier
	StatusCompleted
)

var statusNames = map[OrderStatus]string{
	StatusUnprocessed:        "unprocessed",
	StatusAccepted:           "accepted",
	StatusHandedToRestaurant: "handed_to_restaurant",
	StatusHandedToCourier:    "handed_to_courier",
	StatusCompleted:          "completed",
}

func (s OrderStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// IsTerminal reports whether the order is finished and excluded from matching.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted
}

// OrderItem is a single line item.
type OrderItem struct {
	ProductID ProductID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Order is an order as read from the order-management system.
type Order struct {
	ID      OrderID     `json:"id"`
	Address Address     `json:"address"`
	Status  OrderStatus `json:"status"`
	Items   []OrderItem `json:"items"`
}

// RequiredProducts returns the distinct product ids across the line items.
func (o Order) RequiredProducts() ProductSet {
	s := make(ProductSet, len(o.Items))
	for _, item := range o.Items {
		s.Add(item.ProductID)
	}
	return s
}

// TotalCost sums price × quantity over the line items.
func (o Order) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
