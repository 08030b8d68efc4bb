package handlers

import (
	"restaurant-storefront/internal/cart"
	"restaurant-storefront/internal/common/logger"
	"restaurant-storefront/internal/config"
	"restaurant-storefront/internal/microservices/notificator/hub"
	"restaurant-storefront/internal/microservices/storefront/service"
)

type Handler struct {
	RestaurantHandler *RestaurantHandler
	OrderHandler      *OrderHandler
	PaymentHandler    *PaymentHandler
	CartHandler       *CartHandler
	EventsHandler     *EventsHandler
}

func New(s *service.Service, sessions *cart.Sessions, h *hub.Hub, cfg config.HTTPConfig, lg *logger.Logger) *Handler {
	return &Handler{
		RestaurantHandler: NewRestaurantHandler(s.MenuService, s.ThemeService),
		OrderHandler:      NewOrderHandler(s.OrderService, lg),
		PaymentHandler:    NewPaymentHandler(s.PaymentService, lg),
		CartHandler:       NewCartHandler(sessions, s.CheckoutService, cfg, lg),
		EventsHandler:     NewEventsHandler(s.OrderService, h, lg),
	}
}
