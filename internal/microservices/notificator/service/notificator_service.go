package service

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"restaurant-storefront/internal/common/logger"
	"restaurant-storefront/internal/connections/rabbitmq"
	"restaurant-storefront/internal/microservices/notificator/hub"
)

// DeliverySource - то, что умеет отдавать поток сообщений fanout-обменника.
type DeliverySource interface {
	ConsumeFanout(exchange, consumer string) (<-chan amqp.Delivery, error)
}

type NotificatorService struct {
	source DeliverySource
	hub    *hub.Hub
	lg     *logger.Logger
}

func NewNotificatorService(source DeliverySource, h *hub.Hub, lg *logger.Logger) *NotificatorService {
	return &NotificatorService{source: source, hub: h, lg: lg}
}

// Notify пересылает события из notifications_fanout в hub, пока не
// закончится ctx или поток доставок.
func (ns *NotificatorService) Notify(ctx context.Context, consumer string) error {
	msgs, err := ns.source.ConsumeFanout(rabbitmq.NotificationsExchange, consumer)
	if err != nil {
		return fmt.Errorf("consume %s: %w", rabbitmq.NotificationsExchange, err)
	}
	ns.lg.Info("notificator_started", map[string]any{"exchange": rabbitmq.NotificationsExchange})

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				ns.lg.Warn("notificator_stream_closed", nil)
				return nil
			}
			ns.handle(d)
		}
	}
}

func (ns *NotificatorService) handle(d amqp.Delivery) {
	var e hub.Event
	if err := json.Unmarshal(d.Body, &e); err != nil || e.OrderID == "" {
		ns.lg.Warn("notification_skipped", map[string]any{"message_id": d.MessageId, "correlation_id": d.CorrelationId})
		return
	}
	ns.hub.Publish(e)
	ns.lg.Debug("notification_received", map[string]any{
		"order_id":     e.OrderID,
		"order_number": e.OrderNumber,
		"status":       e.Status,
		"request_id":   d.CorrelationId,
	})
}
