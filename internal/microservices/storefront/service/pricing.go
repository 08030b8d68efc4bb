package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"restaurant-storefront/internal/config"
	"restaurant-storefront/internal/microservices/storefront/domain/dto"
)

// Pricing - доставка и налог, которые добавляются к сумме корзины.
type Pricing struct {
	DeliveryFee decimal.Decimal
	TaxRate     decimal.Decimal
}

func NewPricing(cfg config.CheckoutConfig) (Pricing, error) {
	fee, err := decimal.NewFromString(cfg.DeliveryFee)
	if err != nil {
		return Pricing{}, fmt.Errorf("invalid delivery fee %q: %w", cfg.DeliveryFee, err)
	}
	rate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		return Pricing{}, fmt.Errorf("invalid tax rate %q: %w", cfg.TaxRate, err)
	}
	if fee.IsNegative() || rate.IsNegative() {
		return Pricing{}, fmt.Errorf("delivery fee and tax rate must not be negative")
	}
	return Pricing{DeliveryFee: fee, TaxRate: rate}, nil
}

// Quote rounds every part to cents. Total is rounded from the unrounded
// tax, so it can differ by a cent from the sum of the rounded parts.
func (p Pricing) Quote(subtotal decimal.Decimal) dto.Totals {
	tax := subtotal.Mul(p.TaxRate)
	return dto.Totals{
		Subtotal:    subtotal.Round(2),
		DeliveryFee: p.DeliveryFee.Round(2),
		Tax:         tax.Round(2),
		Total:       subtotal.Add(p.DeliveryFee).Add(tax).Round(2),
	}
}
