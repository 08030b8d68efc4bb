package kitchen

import (
	"context"
	"errors"
	"fmt"

	"restaurant-storefront/internal/common/logger"
	"restaurant-storefront/internal/config"
	"restaurant-storefront/internal/connections/database"
	"restaurant-storefront/internal/connections/rabbitmq"
	"restaurant-storefront/internal/microservices/kitchen/repository"
	"restaurant-storefront/internal/microservices/kitchen/service"
	storefrontrepo "restaurant-storefront/internal/microservices/storefront/repository"
	storefront "restaurant-storefront/internal/microservices/storefront/service"
)

// Run - воркер кухни; ему нужны и база (заказы общие со storefront), и RabbitMQ.
func Run(ctx context.Context, cfg *config.Config, lg *logger.Logger) error {
	if !cfg.Database.Enabled() || !cfg.RabbitMQ.Enabled() {
		return errors.New("kitchen mode requires database and rabbitmq config")
	}

	db, err := database.ConnectDB(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	rmq, err := rabbitmq.Dial(cfg.RabbitMQ)
	if err != nil {
		return fmt.Errorf("connect rabbitmq: %w", err)
	}
	defer rmq.Close()
	if err := rmq.DeclareTopology(); err != nil {
		return fmt.Errorf("declare topology: %w", err)
	}

	pricing, err := storefront.NewPricing(cfg.Checkout)
	if err != nil {
		return err
	}
	orders := storefrontrepo.New(db)
	orderSvc := storefront.NewOrderService(orders.OrderRepo, orders.MenuRepo, storefront.NewRabbitEvents(rmq), pricing, lg)

	svc := service.Service{
		KitchenService: service.NewKitchenService(repository.New(db).WorkerRepo, orderSvc, cfg.Kitchen, lg),
	}
	return svc.KitchenService.Run(ctx, rmq)
}
