package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"restaurant-storefront/internal/cart"
	"restaurant-storefront/internal/common/logger"
	"restaurant-storefront/internal/config"
	"restaurant-storefront/internal/microservices/storefront/domain/dto"
	"restaurant-storefront/internal/microservices/storefront/service"
)

// CartHandler обслуживает корзину текущей сессии; сессия - cookie с uuid.
type CartHandler struct {
	sessions *cart.Sessions
	checkout service.CheckoutServiceInterface
	cookie   string
	secure   bool
	lg       *logger.Logger
}

func NewCartHandler(sessions *cart.Sessions, checkout service.CheckoutServiceInterface, cfg config.HTTPConfig, lg *logger.Logger) *CartHandler {
	name := cfg.SessionCookie
	if name == "" {
		name = "cart_session"
	}
	return &CartHandler{sessions: sessions, checkout: checkout, cookie: name, secure: cfg.SecureCookies, lg: lg}
}

func (ch *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ch.respond(w, ch.store(w, r).State())
}

func (ch *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req dto.CartItemRequest
	if err := decode(w, r, &req); err != nil {
		badJSON(w, err)
		return
	}
	if strings.TrimSpace(req.ID) == "" || strings.TrimSpace(req.Name) == "" || req.Price.IsNegative() {
		writeProblem(w, http.StatusBadRequest, "validation_error", "Item id, name and a non-negative price are required", nil)
		return
	}

	st := ch.store(w, r)
	state := st.Dispatch(r.Context(), cart.AddItem{Item: cart.Item{
		ID:        req.ID,
		Name:      req.Name,
		UnitPrice: req.Price,
		ImageURL:  req.ImageURL,
	}})
	ch.respond(w, state)
}

func (ch *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateQuantityRequest
	if err := decode(w, r, &req); err != nil {
		badJSON(w, err)
		return
	}
	if req.Quantity == nil {
		writeProblem(w, http.StatusBadRequest, "validation_error", "Quantity is required", nil)
		return
	}
	state := ch.store(w, r).Dispatch(r.Context(), cart.UpdateQuantity{ID: param(r, "id"), Quantity: *req.Quantity})
	ch.respond(w, state)
}

func (ch *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ch.respond(w, ch.store(w, r).Dispatch(r.Context(), cart.RemoveItem{ID: param(r, "id")}))
}

func (ch *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ch.respond(w, ch.store(w, r).Dispatch(r.Context(), cart.ClearCart{}))
}

func (ch *CartHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ch.respond(w, ch.store(w, r).Dispatch(r.Context(), cart.ToggleCart{}))
}

func (ch *CartHandler) Close(w http.ResponseWriter, r *http.Request) {
	ch.respond(w, ch.store(w, r).Dispatch(r.Context(), cart.CloseCart{}))
}

// Checkout оформляет заказ из корзины сессии. Корзина очищается только после
// сохранения заказа.
func (ch *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckoutRequest
	if err := decode(w, r, &req); err != nil {
		badJSON(w, err)
		return
	}

	order, err := ch.checkout.Checkout(r.Context(), ch.store(w, r), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, dto.OrderResponse{Order: order})
	case errors.Is(err, service.ErrValidation):
		writeProblem(w, http.StatusBadRequest, "validation_error", err.Error(), err)
	default:
		ch.lg.Error("checkout_failed", err, map[string]any{"request_id": RequestID(r.Context())})
		writeProblem(w, http.StatusInternalServerError, "db_error", "Failed to create order", err)
	}
}

// ValidateStep проверяет один шаг формы checkout (1 контакт … 4 подтверждение).
func (ch *CartHandler) ValidateStep(w http.ResponseWriter, r *http.Request) {
	step, err := strconv.Atoi(param(r, "step"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "validation_error", "Invalid step", err)
		return
	}
	var req dto.CheckoutRequest
	if err := decode(w, r, &req); err != nil {
		badJSON(w, err)
		return
	}

	if err := ch.checkout.ValidateStep(service.Step(step), req, ch.store(w, r).State()); err != nil {
		writeProblem(w, http.StatusBadRequest, "validation_error", err.Error(), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ch *CartHandler) respond(w http.ResponseWriter, state cart.State) {
	writeJSON(w, http.StatusOK, dto.NewCartResponse(state, ch.checkout.Quote(state)))
}

// store возвращает корзину сессии, при необходимости выдавая новую cookie.
func (ch *CartHandler) store(w http.ResponseWriter, r *http.Request) *cart.Store {
	return ch.sessions.Get(r.Context(), ch.session(w, r))
}

func (ch *CartHandler) session(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(ch.cookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     ch.cookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(cart.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   ch.secure,
		SameSite: http.SameSiteLaxMode,
	})
	ch.lg.Debug("cart_session_issued", map[string]any{"session_id": id, "request_id": RequestID(r.Context())})
	return id
}
