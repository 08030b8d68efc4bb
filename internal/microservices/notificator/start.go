package notificator

import (
	"context"

	"restaurant-storefront/internal/common/logger"
	"restaurant-storefront/internal/connections/rabbitmq"
	"restaurant-storefront/internal/microservices/notificator/hub"
	"restaurant-storefront/internal/microservices/notificator/service"
)

// Start блокируется, пока жив ctx, и пересылает уведомления о статусах в hub.
// Пустой consumer tag - брокер сгенерирует уникальный для каждого процесса.
func Start(ctx context.Context, rmqClient *rabbitmq.Client, h *hub.Hub, lg *logger.Logger) error {
	svc := service.NewNotificatorService(rmqClient, h, lg)
	return svc.Notify(ctx, "")
}
