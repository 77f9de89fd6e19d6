package domain

import "time"

type OrderPlacedEvent struct {
	OrderID       string      `json:"order_id"`
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
	Items         []OrderItem `json:"items"`
	Total         int64       `json:"total"`
	Timestamp     time.Time   `json:"timestamp"`
}
