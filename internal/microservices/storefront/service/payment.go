package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"restaurant-storefront/internal/connections/payments"
	"restaurant-storefront/internal/microservices/storefront/domain/dto"
)

var ErrInvalidAmount = errors.New("invalid amount")

// MinimumCharge is the smallest amount, in dollars, a card can be charged.
var MinimumCharge = decimal.RequireFromString("0.50")

type PaymentServiceInterface interface {
	CreateIntent(ctx context.Context, req dto.PaymentIntentRequest) (dto.PaymentIntentResponse, error)
}

type PaymentService struct {
	intents  payments.IntentCreator
	currency string
}

func NewPaymentService(intents payments.IntentCreator, currency string) *PaymentService {
	if currency == "" {
		currency = "usd"
	}
	return &PaymentService{intents: intents, currency: currency}
}

func (ps *PaymentService) CreateIntent(ctx context.Context, req dto.PaymentIntentRequest) (dto.PaymentIntentResponse, error) {
	if req.Amount.LessThan(MinimumCharge) {
		return dto.PaymentIntentResponse{}, fmt.Errorf("%w: %s", ErrInvalidAmount, req.Amount)
	}
	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = ps.currency
	}

	intent, err := ps.intents.CreateIntent(ctx, AmountToCents(req.Amount), currency)
	if err != nil {
		return dto.PaymentIntentResponse{}, fmt.Errorf("failed to create payment intent: %w", err)
	}
	return dto.PaymentIntentResponse{ClientSecret: intent.ClientSecret}, nil
}

// AmountToCents rounds a dollar amount to whole cents, half away from zero.
func AmountToCents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
