package handlers

import (
	"errors"
	"net/http"

	"restaurant-storefront/internal/common/logger"
	"restaurant-storefront/internal/microservices/storefront/domain/dto"
	"restaurant-storefront/internal/microservices/storefront/repository"
	"restaurant-storefront/internal/microservices/storefront/service"
)

type OrderHandler struct {
	service service.OrderServiceInterface
	lg      *logger.Logger
}

func NewOrderHandler(s service.OrderServiceInterface, lg *logger.Logger) *OrderHandler {
	return &OrderHandler{service: s, lg: lg}
}

func (oh *OrderHandler) AddOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOrderRequest
	if err := decode(w, r, &req); err != nil {
		badJSON(w, err)
		return
	}

	order, err := oh.service.CreateOrder(r.Context(), req)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrValidation):
		writeProblem(w, http.StatusBadRequest, "validation_error", err.Error(), err)
		return
	default:
		oh.lg.Error("order_create_failed", err, map[string]any{"request_id": RequestID(r.Context())})
		writeProblem(w, http.StatusInternalServerError, "db_error", "Failed to create order", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.OrderResponse{Order: order})
}

func (oh *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := oh.service.GetOrder(r.Context(), param(r, "orderId"))
	if err != nil {
		orderError(w, err, "Failed to fetch order")
		return
	}
	writeJSON(w, http.StatusOK, dto.OrderResponse{Order: order})
}

func (oh *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateStatusRequest
	if err := decode(w, r, &req); err != nil {
		badJSON(w, err)
		return
	}

	order, err := oh.service.UpdateStatus(r.Context(), param(r, "orderId"), req)
	if err != nil {
		orderError(w, err, "Failed to update order status")
		return
	}
	writeJSON(w, http.StatusOK, dto.OrderResponse{Order: order})
}

func orderError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "not_found", "Order not found", err)
	case errors.Is(err, service.ErrValidation):
		writeProblem(w, http.StatusBadRequest, "validation_error", err.Error(), err)
	case errors.Is(err, service.ErrTransition), errors.Is(err, repository.ErrConflict):
		writeProblem(w, http.StatusConflict, "conflict", err.Error(), err)
	default:
		writeProblem(w, http.StatusInternalServerError, "db_error", fallback, err)
	}
}
