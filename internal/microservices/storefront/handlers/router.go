package handlers

import (
	"net/http"

	"restaurant-storefront/internal/common/logger"
	"restaurant-storefront/internal/config"
)

func Router(h *Handler, cfg config.HTTPConfig, lg *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/restaurant/{id}", h.RestaurantHandler.GetRestaurant)
	mux.HandleFunc("GET /api/restaurant/{id}/theme", h.RestaurantHandler.GetTheme)
	mux.HandleFunc("GET /api/restaurant/{id}/theme.css", h.RestaurantHandler.GetStylesheet)

	mux.HandleFunc("POST /api/orders", h.OrderHandler.AddOrder)
	mux.HandleFunc("GET /api/orders/{orderId}", h.OrderHandler.GetOrder)
	mux.HandleFunc("PATCH /api/orders/{orderId}/status", h.OrderHandler.UpdateStatus)
	mux.HandleFunc("GET /api/orders/{orderId}/events", h.EventsHandler.Stream)

	mux.HandleFunc("POST /api/create-payment-intent", h.PaymentHandler.CreateIntent)

	mux.HandleFunc("GET /api/cart", h.CartHandler.GetCart)
	mux.HandleFunc("DELETE /api/cart", h.CartHandler.ClearCart)
	mux.HandleFunc("POST /api/cart/items", h.CartHandler.AddItem)
	mux.HandleFunc("PATCH /api/cart/items/{id}", h.CartHandler.UpdateQuantity)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.CartHandler.RemoveItem)
	mux.HandleFunc("POST /api/cart/toggle", h.CartHandler.Toggle)
	mux.HandleFunc("POST /api/cart/close", h.CartHandler.Close)
	mux.HandleFunc("POST /api/cart/checkout", h.CartHandler.Checkout)
	mux.HandleFunc("POST /api/cart/checkout/steps/{step}", h.CartHandler.ValidateStep)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// снаружи внутрь: request id → лог → CORS → лимит
	var handler http.Handler = mux
	handler = limit(cfg.MaxConcurrent, handler)
	handler = cors(cfg.AllowedOrigins, handler)
	handler = logRequests(lg, handler)
	handler = requestID(handler)
	return handler
}
