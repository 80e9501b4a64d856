package order

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated     = "OrderCreated"
	EventStatusChanged    = "OrderStatusChanged"
	EventPaymentCompleted = "OrderPaymentCompleted"
)

// Event is the envelope published to Kafka for every order-level change.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	OrderID   string          `json:"order_id"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

type OrderCreated struct {
	OrderID     string      `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	UserID      string      `json:"user_id"`
	Items       []OrderItem `json:"items"`
	Total       float64     `json:"total"`
	PlacedAt    time.Time   `json:"placed_at"`
}

type StatusChanged struct {
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	From      Status    `json:"from"`
	To        Status    `json:"to"`
	Note      string    `json:"note,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
}

type OrderPaid struct {
	OrderID     string      `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	UserID      string      `json:"user_id"`
	Items       []OrderItem `json:"items"`
	Total       float64     `json:"total"`
	PaidAt      time.Time   `json:"paid_at"`
}
