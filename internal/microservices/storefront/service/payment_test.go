package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-storefront/internal/microservices/storefront/domain/dto"
)

func TestCreateIntent(t *testing.T) {
	intents := &fakeIntents{}
	svc := NewPaymentService(intents, "")

	resp, err := svc.CreateIntent(context.Background(), dto.PaymentIntentRequest{Amount: decimal.RequireFromString("53.72")})
	require.NoError(t, err)
	assert.Equal(t, "pi_123_secret", resp.ClientSecret)
	assert.Equal(t, int64(5372), intents.cents)
	assert.Equal(t, "usd", intents.currency)
}

func TestCreateIntent_MinimumCharge(t *testing.T) {
	for _, amount := range []string{"0", "0.49", "-5"} {
		t.Run(amount, func(t *testing.T) {
			intents := &fakeIntents{}
			_, err := NewPaymentService(intents, "usd").CreateIntent(context.Background(),
				dto.PaymentIntentRequest{Amount: decimal.RequireFromString(amount)})
			assert.ErrorIs(t, err, ErrInvalidAmount)
			assert.Zero(t, intents.cents)
		})
	}

	_, err := NewPaymentService(&fakeIntents{}, "usd").CreateIntent(context.Background(),
		dto.PaymentIntentRequest{Amount: decimal.RequireFromString("0.50"), Currency: "EUR"})
	assert.NoError(t, err)
}

func TestCreateIntent_ProviderFailure(t *testing.T) {
	svc := NewPaymentService(&fakeIntents{err: errors.New("card_declined")}, "usd")
	_, err := svc.CreateIntent(context.Background(), dto.PaymentIntentRequest{Amount: decimal.NewFromInt(10)})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidAmount)
}

func TestAmountToCents(t *testing.T) {
	tests := map[string]int64{
		"0.5":     50,
		"10":      1000,
		"12.345":  1235,
		"12.344":  1234,
		"19.999":  2000,
		"0.50001": 50,
	}
	for in, want := range tests {
		assert.Equal(t, want, AmountToCents(decimal.RequireFromString(in)), in)
	}
}
