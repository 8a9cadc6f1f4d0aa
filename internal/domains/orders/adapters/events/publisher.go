package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

// EventVersion is bumped whenever a payload changes incompatibly.
const EventVersion = 1

// Envelope wraps every order event on the wire.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// MessagePublisher is satisfied by the platform Kafka producer.
type MessagePublisher interface {
	Publish(ctx context.Context, key, value []byte, headers ...kafka.Header) error
}

var _ ports.EventPublisher = (*Publisher)(nil)

// Publisher encodes order events into envelopes keyed by order id, so every
// event for one order stays on one partition.
type Publisher struct {
	out      MessagePublisher
	producer string
	newID    func() string
}

// NewPublisher builds a publisher that stamps envelopes with the producer name.
func NewPublisher(out MessagePublisher, producer string) *Publisher {
	return &Publisher{out: out, producer: producer, newID: uuid.NewString}
}

func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", event.EventType(), err)
	}
	envelope := Envelope{
		EventID:       p.newID(),
		EventType:     event.EventType(),
		EventVersion:  EventVersion,
		OccurredAt:    event.OccurredAt().UTC(),
		Producer:      p.producer,
		CorrelationID: event.AggregateID(),
		Payload:       payload,
	}
	value, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	return p.out.Publish(ctx, []byte(event.AggregateID()), value,
		kafka.Header{Key: "event_type", Value: []byte(event.EventType())},
		kafka.Header{Key: "event_version", Value: []byte(fmt.Sprint(EventVersion))},
	)
}

// DecodePayload unwraps an envelope payload into its concrete event type.
func DecodePayload[T any](payload json.RawMessage) (T, error) {
	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		return out, fmt.Errorf("decode payload: %w", err)
	}
	return out, nil
}
