package storefront

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"restaurant-storefront/internal/cart"
	"restaurant-storefront/internal/common/httpx"
	"restaurant-storefront/internal/common/logger"
	"restaurant-storefront/internal/config"
	"restaurant-storefront/internal/connections/database"
	"restaurant-storefront/internal/connections/payments"
	"restaurant-storefront/internal/connections/rabbitmq"
	"restaurant-storefront/internal/microservices/notificator"
	"restaurant-storefront/internal/microservices/notificator/hub"
	"restaurant-storefront/internal/microservices/storefront/handlers"
	"restaurant-storefront/internal/microservices/storefront/repository"
	"restaurant-storefront/internal/microservices/storefront/service"
)

const (
	hubBuffer    = 16
	sessionSweep = time.Hour
)

// Run поднимает storefront. Без базы работает на in-memory репозитории с
// демо-рестораном, без RabbitMQ статусы идут напрямую в hub.
func Run(ctx context.Context, cfg *config.Config, lg *logger.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Initialize repository
	repo := repository.NewMemory()
	storage := cart.MemoryStorageFactory()
	if cfg.Database.Enabled() {
		db, err := database.ConnectDB(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect db: %w", err)
		}
		defer db.Close()
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		repo = repository.New(db)
		storage = repository.SessionStorageFactory(db)
		lg.Info("db_connected", map[string]any{"host": cfg.Database.Host, "database": cfg.Database.Database})
	} else {
		lg.Warn("db_disabled", map[string]any{"fallback": "memory", "restaurant_id": repository.DemoRestaurantID})
	}

	// Events: RabbitMQ + notificator или сразу hub
	h := hub.New(hubBuffer)
	var events service.EventPublisherInterface = service.NewHubEvents(h)
	notifyErr := make(chan error, 1)
	if cfg.RabbitMQ.Enabled() {
		rmq, err := rabbitmq.Dial(cfg.RabbitMQ)
		if err != nil {
			return fmt.Errorf("connect rabbitmq: %w", err)
		}
		defer rmq.Close()
		if err := rmq.DeclareTopology(); err != nil {
			return fmt.Errorf("declare topology: %w", err)
		}
		events = service.NewRabbitEvents(rmq)
		go func() { notifyErr <- notificator.Start(ctx, rmq, h, lg.Named("notificator")) }()
		lg.Info("rabbitmq_connected", map[string]any{"host": cfg.RabbitMQ.Host})
	}

	// Initialize service
	svc, err := service.New(repo, events, payments.NewStripeClient(cfg.Stripe.SecretKey), cfg, lg)
	if err != nil {
		return err
	}
	sessions := cart.NewSessions(storage, lg)
	go sessions.Run(ctx, sessionSweep)
	handler := handlers.New(svc, sessions, h, cfg.HTTP, lg)

	addr := ":" + strconv.Itoa(cfg.HTTP.Port)
	srv := httpx.New(addr, handlers.Router(handler, cfg.HTTP, lg),
		httpx.WithTimeouts(cfg.HTTP.ReadTimeout, cfg.HTTP.WriteTimeout))

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Run(ctx) }()
	lg.Info("service_started", map[string]any{"addr": addr, "stripe": cfg.Stripe.SecretKey != ""})

	select {
	case err := <-serveErr:
		return err
	case err := <-notifyErr:
		if ctx.Err() != nil {
			return <-serveErr
		}
		// без notificator SSE молчит, поэтому останавливаем весь процесс
		cancel()
		<-serveErr
		if err == nil {
			err = errors.New("notificator stream closed")
		}
		return err
	}
}
