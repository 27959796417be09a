package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSweetPurchased EventType = "sweet_purchased"
	EventSweetRestocked EventType = "sweet_restocked"
	EventLowStock       EventType = "low_stock"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SweetID   string      `json:"sweet_id"`
	Subject   string      `json:"subject"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// StockChangedPayload describes a purchase or restock.
type StockChangedPayload struct {
	SweetName   string `json:"sweet_name"`
	Delta       int    `json:"delta"`
	NewQuantity int    `json:"new_quantity"`
}

// LowStockPayload fires when quantity drops to or below the threshold.
type LowStockPayload struct {
	SweetName string `json:"sweet_name"`
	Quantity  int    `json:"quantity"`
	Threshold int    `json:"threshold"`
}
