package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
)

type captured struct {
	key     []byte
	value   []byte
	headers []kafka.Header
}

type fakeOut struct {
	messages []captured
}

func (f *fakeOut) Publish(_ context.Context, key, value []byte, headers ...kafka.Header) error {
	f.messages = append(f.messages, captured{key: key, value: value, headers: headers})
	return nil
}

func TestPublisher_WrapsOrderPlaced(t *testing.T) {
	out := &fakeOut{}
	pub := NewPublisher(out, "storefront-api")
	pub.newID = func() string { return "evt-1" }

	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	event := domain.OrderPlaced{
		OrderID: "order-9",
		Items:   []domain.PlacedItem{{ProductID: "p1", Quantity: 2, Price: decimal.RequireFromString("3.50")}},
		Total:   decimal.RequireFromString("7.00"),
		At:      at,
	}
	require.NoError(t, pub.Publish(context.Background(), event))

	require.Len(t, out.messages, 1)
	msg := out.messages[0]
	assert.Equal(t, "order-9", string(msg.key))
	assert.Contains(t, msg.headers, kafka.Header{Key: "event_type", Value: []byte(domain.EventOrderPlaced)})

	var envelope Envelope
	require.NoError(t, json.Unmarshal(msg.value, &envelope))
	assert.Equal(t, "evt-1", envelope.EventID)
	assert.Equal(t, domain.EventOrderPlaced, envelope.EventType)
	assert.Equal(t, EventVersion, envelope.EventVersion)
	assert.Equal(t, "storefront-api", envelope.Producer)
	assert.Equal(t, "order-9", envelope.CorrelationID)
	assert.True(t, at.Equal(envelope.OccurredAt))

	payload, err := DecodePayload[domain.OrderPlaced](envelope.Payload)
	require.NoError(t, err)
	assert.Equal(t, "order-9", payload.OrderID)
	assert.True(t, decimal.RequireFromString("7.00").Equal(payload.Total))
	require.Len(t, payload.Items, 1)
	assert.Equal(t, 2, payload.Items[0].Quantity)
}

func TestPublisher_StatusChangeCarriesDeltas(t *testing.T) {
	out := &fakeOut{}
	pub := NewPublisher(out, "storefront-api")

	event := domain.OrderStatusChanged{
		OrderID: "order-3",
		From:    domain.StatusPending,
		To:      domain.StatusCancelled,
		Deltas:  []domain.StockDelta{{ProductID: "p1", Delta: 2}},
		At:      time.Now().UTC(),
	}
	require.NoError(t, pub.Publish(context.Background(), event))

	var envelope Envelope
	require.NoError(t, json.Unmarshal(out.messages[0].value, &envelope))
	payload, err := DecodePayload[domain.OrderStatusChanged](envelope.Payload)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, payload.To)
	assert.Equal(t, []domain.StockDelta{{ProductID: "p1", Delta: 2}}, payload.Deltas)
	assert.NotEmpty(t, envelope.EventID)
}
