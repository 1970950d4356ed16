package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tokopos/pkg/kafka"
	"tokopos/pkg/rabbitmq"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// Type names an order lifecycle event.
type Type string

const (
	OrderCreated     Type = "order.created"
	OrderCanceled    Type = "order.canceled"
	PaymentCompleted Type = "payment.completed"
)

// Event is the envelope published after a unit of work commits.
type Event struct {
	ID         string          `json:"event_id"`
	Type       Type            `json:"event_type"`
	Version    int             `json:"event_version"`
	OccurredAt time.Time       `json:"occurred_at"`
	Producer   string          `json:"producer"`
	OrderID    string          `json:"order_id"`
	Payload    json.RawMessage `json:"payload"`
}

// New builds an Event with a fresh id and the JSON encoding of payload.
func New(t Type, producer, orderID string, payload any) (Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", t, err)
	}
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		Version:    1,
		OccurredAt: time.Now().UTC(),
		Producer:   producer,
		OrderID:    orderID,
		Payload:    body,
	}, nil
}

// Publisher delivers events to a broker.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

// RabbitMQPublisher publishes events to the order queue.
type RabbitMQPublisher struct {
	client *rabbitmq.Client
}

func NewRabbitMQPublisher(client *rabbitmq.Client) *RabbitMQPublisher {
	return &RabbitMQPublisher{client: client}
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return p.client.Publish(ctx, string(ev.Type), body)
}

func (p *RabbitMQPublisher) Close() error { return p.client.Close() }

// KafkaPublisher publishes events keyed by order id so one order's events stay ordered.
type KafkaPublisher struct {
	producer *kafka.Producer
}

func NewKafkaPublisher(producer *kafka.Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return p.producer.Publish(ctx, []byte(ev.OrderID), body,
		kafkago.Header{Key: "x-event-type", Value: []byte(ev.Type)},
		kafkago.Header{Key: "x-event-version", Value: []byte(fmt.Sprint(ev.Version))},
	)
}

func (p *KafkaPublisher) Close() error { return p.producer.Close() }
