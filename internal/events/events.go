// Package events publishes order lifecycle events to Kafka. Publishing is
// strictly best-effort: the order transaction is authoritative and never
// waits on, or fails because of, the broker.
package events

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Event type names carried in the envelope.
const (
	TypeOrderPlaced    = "order.placed"
	TypeOrderCancelled = "order.cancelled"
)

// Envelope is the wire format for every published event.
type Envelope struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Producer   string          `json:"producer"`
	Payload    json.RawMessage `json:"payload"`
}

// ItemPayload is one frozen order line inside an event payload.
type ItemPayload struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// OrderPlacedPayload describes a successfully committed order.
type OrderPlacedPayload struct {
	OrderID string          `json:"order_id"`
	UserID  string          `json:"user_id"`
	Total   decimal.Decimal `json:"total"`
	Items   []ItemPayload   `json:"items"`
}

// OrderCancelledPayload describes a user-initiated cancellation.
type OrderCancelledPayload struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
}
