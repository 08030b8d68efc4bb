package handlers

import (
	"errors"
	"net/http"

	"restaurant-storefront/internal/common/logger"
	"restaurant-storefront/internal/microservices/storefront/domain/dto"
	"restaurant-storefront/internal/microservices/storefront/service"
)

type PaymentHandler struct {
	service service.PaymentServiceInterface
	lg      *logger.Logger
}

func NewPaymentHandler(s service.PaymentServiceInterface, lg *logger.Logger) *PaymentHandler {
	return &PaymentHandler{service: s, lg: lg}
}

func (ph *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req dto.PaymentIntentRequest
	if err := decode(w, r, &req); err != nil {
		badJSON(w, err)
		return
	}

	resp, err := ph.service.CreateIntent(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, service.ErrInvalidAmount):
		writeProblem(w, http.StatusBadRequest, "invalid_amount", "Invalid amount. Minimum charge is $0.50", err)
	default:
		ph.lg.Error("payment_intent_failed", err, map[string]any{
			"amount":     req.Amount.String(),
			"request_id": RequestID(r.Context()),
		})
		writeProblem(w, http.StatusInternalServerError, "payment_error", "Failed to create payment intent", err)
	}
}
