package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Yaseer123/etc-ecommerce-sub001/internal/domain/order"
)

const producerName = "store-api"

// Publisher writes order events to a Kafka topic from a buffered inbox.
// When the inbox is full the event is dropped and counted in a log line,
// keeping the hot path non-blocking.
type Publisher struct {
	w      *kafka.Writer
	lg     *zap.Logger
	inbox  chan kafka.Message
	closed chan struct{}
}

// NewPublisher creates a Publisher for the given brokers and topic. Call
// Start to begin draining the inbox.
func NewPublisher(brokers []string, topic string, buf int, lg *zap.Logger) *Publisher {
	return &Publisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
		lg:     lg,
		inbox:  make(chan kafka.Message, buf),
		closed: make(chan struct{}),
	}
}

// Start launches the background writer goroutine. On context cancellation
// it flushes whatever is already buffered, then closes the writer.
func (p *Publisher) Start(ctx context.Context) {
	go func() {
		defer close(p.closed)
		for {
			select {
			case <-ctx.Done():
				p.drain()
				return
			case m := <-p.inbox:
				p.write(m)
			}
		}
	}()
}

// Wait blocks until the writer goroutine has flushed and exited.
func (p *Publisher) Wait() { <-p.closed }

func (p *Publisher) drain() {
	for {
		select {
		case m := <-p.inbox:
			p.write(m)
		default:
			if err := p.w.Close(); err != nil {
				p.lg.Warn("Kafka writer close failed", zap.Error(err))
			}
			return
		}
	}
}

func (p *Publisher) write(m kafka.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.w.WriteMessages(ctx, m); err != nil {
		p.lg.Warn("Order event publish failed",
			zap.String("key", string(m.Key)),
			zap.Error(err),
		)
	}
}

// OrderPlaced implements order.EventSink.
func (p *Publisher) OrderPlaced(o *order.Order) {
	items := make([]ItemPayload, len(o.Items))
	for i, it := range o.Items {
		items[i] = ItemPayload{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price}
	}
	p.enqueue(o.ID, TypeOrderPlaced, OrderPlacedPayload{
		OrderID: o.ID,
		UserID:  o.UserID,
		Total:   o.Total,
		Items:   items,
	})
}

// OrderCancelled implements order.EventSink.
func (p *Publisher) OrderCancelled(o *order.Order) {
	p.enqueue(o.ID, TypeOrderCancelled, OrderCancelledPayload{
		OrderID: o.ID,
		UserID:  o.UserID,
	})
}

func (p *Publisher) enqueue(key, eventType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		p.lg.Warn("Order event marshal failed", zap.String("type", eventType), zap.Error(err))
		return
	}
	env := Envelope{
		EventID:    uuid.New().String(),
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		Producer:   producerName,
		Payload:    raw,
	}
	value, err := json.Marshal(env)
	if err != nil {
		p.lg.Warn("Order event marshal failed", zap.String("type", eventType), zap.Error(err))
		return
	}

	select {
	case p.inbox <- kafka.Message{Key: []byte(key), Value: value, Time: time.Now()}:
	default:
		p.lg.Warn("Order event dropped, inbox full", zap.String("type", eventType))
	}
}
