package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// Intent - то, что отдаём фронту после создания payment intent.
type Intent struct {
	ID           string
	ClientSecret string
}

type IntentCreator interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string) (Intent, error)
}

var ErrNotConfigured = errors.New("payment provider is not configured")

type StripeClient struct {
	api *client.API
}

func NewStripeClient(secretKey string) *StripeClient {
	if secretKey == "" {
		return &StripeClient{}
	}
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &StripeClient{api: sc}
}

func (s *StripeClient) CreateIntent(ctx context.Context, amountCents int64, currency string) (Intent, error) {
	if s == nil || s.api == nil {
		return Intent{}, ErrNotConfigured
	}
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return Intent{}, fmt.Errorf("stripe create payment intent: %w", err)
	}
	return Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}
