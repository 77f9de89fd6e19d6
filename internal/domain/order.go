package domain

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "confirmed"
)

// OrderItem is a value snapshot of a purchased line. It never refers back
// to a live product.
type OrderItem struct {
	ProductID string `json:"productId,omitempty"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
	Subtotal  int64  `json:"subtotal"`
}

type Order struct {
	ID            string      `json:"id"`
	OrderID       string      `json:"orderId"`
	CustomerName  string      `json:"customerName"`
	CustomerEmail string      `json:"customerEmail"`
	Items         []OrderItem `json:"items"`
	Total         int64       `json:"total"`
	Status        OrderStatus `json:"status"`
	CreatedAt     time.Time   `json:"createdAt"`
}

type Receipt struct {
	OrderID       string      `json:"orderId"`
	CustomerName  string      `json:"customerName"`
	CustomerEmail string      `json:"customerEmail"`
	Items         []OrderItem `json:"items"`
	Total         int64       `json:"total"`
	Timestamp     string      `json:"timestamp"`
	Status        OrderStatus `json:"status"`
}

// Receipt renders the customer facing receipt for a persisted order.
func (o *Order) Receipt() Receipt {
	return Receipt{
		OrderID:       o.OrderID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Items:         o.Items,
		Total:         o.Total,
		Timestamp:     o.CreatedAt.UTC().Format(time.RFC3339Nano),
		Status:        o.Status,
	}
}

// SumItems fills in each item's subtotal and returns the order total. It
// fails with ErrAmountOverflow when a subtotal or the total does not fit in
// an int64.
func SumItems(items []OrderItem) (int64, error) {
	var total int64
	for i := range items {
		subtotal, ok := lineAmount(items[i].Price, items[i].Quantity)
		if !ok {
			return 0, fmt.Errorf("item %d: %w", i, ErrAmountOverflow)
		}
		items[i].Subtotal = subtotal
		if total, ok = addAmount(total, subtotal); !ok {
			return 0, ErrAmountOverflow
		}
	}
	return total, nil
}
