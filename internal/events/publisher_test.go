package events

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Yaseer123/etc-ecommerce-sub001/internal/domain/order"
)

func testOrder() *order.Order {
	return &order.Order{
		ID:     "o1",
		UserID: "u1",
		Total:  decimal.RequireFromString("40.00"),
		Status: order.StatusPending,
		Items: []order.Item{
			{ProductID: "p1", Quantity: 2, Price: decimal.RequireFromString("10.00")},
			{ProductID: "p2", Quantity: 1, Price: decimal.RequireFromString("20.00")},
		},
	}
}

func TestOrderPlaced_EnqueuesEnvelope(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, "store.orders", 4, zap.NewNop())

	p.OrderPlaced(testOrder())

	require.Len(t, p.inbox, 1)
	m := <-p.inbox
	assert.Equal(t, "o1", string(m.Key), "order ID keys the message for per-order ordering")

	var env Envelope
	require.NoError(t, json.Unmarshal(m.Value, &env))
	assert.Equal(t, TypeOrderPlaced, env.EventType)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, "store-api", env.Producer)

	var payload OrderPlacedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, "o1", payload.OrderID)
	require.Len(t, payload.Items, 2)
	assert.True(t, decimal.RequireFromString("40.00").Equal(payload.Total))
}

func TestOrderCancelled_EnqueuesEnvelope(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, "store.orders", 4, zap.NewNop())

	p.OrderCancelled(testOrder())

	require.Len(t, p.inbox, 1)
	m := <-p.inbox

	var env Envelope
	require.NoError(t, json.Unmarshal(m.Value, &env))
	assert.Equal(t, TypeOrderCancelled, env.EventType)
}

func TestEnqueue_DropsWhenInboxFull(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, "store.orders", 1, zap.NewNop())

	o := testOrder()
	p.OrderPlaced(o)
	p.OrderPlaced(o) // inbox full, must not block

	assert.Len(t, p.inbox, 1)
}
