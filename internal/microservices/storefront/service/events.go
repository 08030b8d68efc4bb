package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"restaurant-storefront/internal/connections/rabbitmq"
	"restaurant-storefront/internal/microservices/notificator/hub"
	"restaurant-storefront/internal/microservices/storefront/domain/dao"
)

const (
	OrderCreatedKey = "order.created"
	publishTimeout  = 5 * time.Second
)

type EventPublisherInterface interface {
	OrderCreated(ctx context.Context, order dao.Order) error
	StatusChanged(ctx context.Context, e hub.Event) error
}

// Publisher - часть rabbitmq.Client, которая нужна для публикации.
type Publisher interface {
	Publish(ctx context.Context, exchange, key string, body []byte, headers amqp.Table, correlationID string) error
}

// RabbitEvents публикует order.created в orders_topic, а смены статусов в
// notifications_fanout; до SSE их доносит notificator.
type RabbitEvents struct {
	client Publisher
}

func NewRabbitEvents(client Publisher) *RabbitEvents {
	return &RabbitEvents{client: client}
}

func (re *RabbitEvents) OrderCreated(ctx context.Context, order dao.Order) error {
	body, err := json.Marshal(dao.NewOrderMessage(order))
	if err != nil {
		return fmt.Errorf("failed to marshal order message: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := re.client.Publish(ctx, rabbitmq.OrdersExchange, OrderCreatedKey, body,
		amqp.Table{"x-source": "storefront"}, order.OrderNumber); err != nil {
		return fmt.Errorf("failed to publish order: %w", err)
	}
	return nil
}

func (re *RabbitEvents) StatusChanged(ctx context.Context, e hub.Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal status event: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := re.client.Publish(ctx, rabbitmq.NotificationsExchange, "", body,
		amqp.Table{"x-source": "storefront", "x-status": e.Status}, e.OrderNumber); err != nil {
		return fmt.Errorf("failed to publish status change: %w", err)
	}
	return nil
}

// HubEvents отдаёт смены статусов прямо в hub, без брокера.
type HubEvents struct {
	hub *hub.Hub
}

func NewHubEvents(h *hub.Hub) *HubEvents { return &HubEvents{hub: h} }

func (he *HubEvents) OrderCreated(context.Context, dao.Order) error { return nil }

func (he *HubEvents) StatusChanged(_ context.Context, e hub.Event) error {
	he.hub.Publish(e)
	return nil
}

func statusEvent(o dao.Order, change dao.StatusChange) hub.Event {
	return hub.Event{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		Status:      change.Status.Name,
		Description: change.Status.Description,
		Color:       change.Status.Color,
		ChangedBy:   change.ChangedBy,
		ChangedAt:   change.CreatedAt,
	}
}
