package dto

import "github.com/shopspring/decimal"

// PaymentIntentRequest - amount в долларах.
type PaymentIntentRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}
