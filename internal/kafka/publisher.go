package kafka

import (
	"context"
	"github.com/ariefcatur/go-kantin-orders/internal/orders"
	"github.com/google/uuid"
)

// OrderPublisher announces confirmed orders on TopicOrderConfirmed, keyed by order code.
type OrderPublisher struct {
	Producer    *Producer
	ServiceName string
}

func (p *OrderPublisher) PublishOrderConfirmed(ctx context.Context, sessionID string, o orders.Order) error {
	env, err := orders.NewOrderConfirmedEvent(uuid.NewString(), p.ServiceName, sessionID, o)
	if err != nil {
		return err
	}
	b, err := EncodeEnvelope(env)
	if err != nil {
		return err
	}
	return p.Producer.Publish(ctx, orders.PartitionKey(o.Code), b, EnvelopeHeaders(env)...)
}
