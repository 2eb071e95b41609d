package ports

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// EventPublisher forwards order events to downstream consumers (Kafka in
// production, a no-op when no brokers are configured).
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, evt order.OrderCreated) error
	PublishStatusChanged(ctx context.Context, evt order.StatusChanged) error
}
