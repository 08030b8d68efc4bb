package service

import (
	"restaurant-storefront/internal/common/logger"
	"restaurant-storefront/internal/config"
	"restaurant-storefront/internal/connections/payments"
	"restaurant-storefront/internal/microservices/storefront/repository"
	"restaurant-storefront/internal/theme"
)

type Service struct {
	MenuService     MenuServiceInterface
	ThemeService    ThemeServiceInterface
	OrderService    OrderServiceInterface
	PaymentService  PaymentServiceInterface
	CheckoutService CheckoutServiceInterface
}

func New(repo *repository.Repository, events EventPublisherInterface, intents payments.IntentCreator,
	cfg *config.Config, lg *logger.Logger) (*Service, error) {

	pricing, err := NewPricing(cfg.Checkout)
	if err != nil {
		return nil, err
	}
	orders := NewOrderService(repo.OrderRepo, repo.MenuRepo, events, pricing, lg)
	return &Service{
		MenuService:     NewMenuService(repo.MenuRepo, lg),
		ThemeService:    NewThemeService(repo.MenuRepo, theme.Default(), cfg.Theme.StrictCustomCSS, lg),
		OrderService:    orders,
		PaymentService:  NewPaymentService(intents, cfg.Stripe.Currency),
		CheckoutService: NewCheckoutService(orders, pricing),
	}, nil
}
