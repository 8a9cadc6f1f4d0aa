package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
)

// EventPublisher ships committed order events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// NoopEventPublisher drops every event.
var NoopEventPublisher EventPublisher = noopEventPublisher{}

type noopEventPublisher struct{}

func (noopEventPublisher) Publish(context.Context, domain.Event) error { return nil }
