package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePaymentIntent(t *testing.T) {
	env := newEnv(t, stubIntents{})

	rec := env.do(t, http.MethodPost, "/api/create-payment-intent", map[string]any{"amount": 53.72})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"clientSecret":"pi_1_secret"}`, rec.Body.String())
}

func TestCreatePaymentIntent_BelowMinimum(t *testing.T) {
	env := newEnv(t, stubIntents{})

	rec := env.do(t, http.MethodPost, "/api/create-payment-intent", map[string]any{"amount": 0.3})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid amount. Minimum charge is $0.50", decodeBody[problem](t, rec).Error)
}

func TestCreatePaymentIntent_ProviderFailure(t *testing.T) {
	env := newEnv(t, stubIntents{err: errors.New("stripe down")})

	rec := env.do(t, http.MethodPost, "/api/create-payment-intent", map[string]any{"amount": 10})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	p := decodeBody[problem](t, rec)
	assert.Equal(t, "Failed to create payment intent", p.Error)
	assert.Contains(t, p.Detail, "stripe down")
}
