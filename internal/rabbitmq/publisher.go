package rabbitmq

import (
	"context"
	"encoding/json"
	"github.com/ariefcatur/go-kantin-orders/internal/orders"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

type publisher interface {
	Publish(ctx context.Context, exchange, key string, body []byte, headers amqp.Table) error
}

// RoutingKey: order.confirmed.{pickupTime}, so staff queues can bind per pickup window.
func RoutingKey(o orders.Order) string {
	return "order.confirmed." + string(o.PickupTime)
}

type OrderPublisher struct {
	Client      publisher
	ServiceName string
}

func NewOrderPublisher(c *Client, serviceName string) *OrderPublisher {
	return &OrderPublisher{Client: c, ServiceName: serviceName}
}

func (p *OrderPublisher) PublishOrderConfirmed(ctx context.Context, sessionID string, o orders.Order) error {
	env, err := orders.NewOrderConfirmedEvent(uuid.NewString(), p.ServiceName, sessionID, o)
	if err != nil {
		return err
	}
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}
	headers := amqp.Table{
		"x-event-type":    env.EventType,
		"x-event-version": int32(env.EventVersion),
		"x-event-id":      env.EventID,
	}
	return p.Client.Publish(ctx, ExchangeOrders, RoutingKey(o), body, headers)
}
