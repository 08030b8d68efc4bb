package dto

import (
	"github.com/shopspring/decimal"

	"restaurant-storefront/internal/cart"
)

type CartItemRequest struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

type CartLine struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	ImageURL string          `json:"image_url,omitempty"`
}

type CartResponse struct {
	Items     []CartLine      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
	IsOpen    bool            `json:"isOpen"`
	Summary   Totals          `json:"summary"`
}

func NewCartResponse(s cart.State, summary Totals) CartResponse {
	items := make([]CartLine, 0, len(s.Lines))
	for _, l := range s.Lines {
		items = append(items, CartLine{
			ID:       l.ID,
			Name:     l.Name,
			Price:    l.UnitPrice,
			Quantity: l.Quantity,
			ImageURL: l.ImageURL,
		})
	}
	return CartResponse{
		Items:     items,
		Total:     s.Total,
		ItemCount: s.Count,
		IsOpen:    s.DrawerOpen,
		Summary:   summary,
	}
}

// CheckoutRequest - поля формы checkout; корзина берётся из сессии.
type CheckoutRequest struct {
	RestaurantID    string   `json:"restaurant_id"`
	UserID          *string  `json:"user_id"`
	CustomerName    string   `json:"customer_name"`
	CustomerPhone   string   `json:"customer_phone"`
	DeliveryAddress string   `json:"delivery_address"`
	Building        string   `json:"building"`
	Floor           string   `json:"floor"`
	Lat             *float64 `json:"lat"`
	Lng             *float64 `json:"lng"`
	PaymentMethod   string   `json:"payment_method"`
	PaymentMethodID *string  `json:"payment_method_id"`
	PaymentIntentID *string  `json:"payment_intent_id"`
	Notes           string   `json:"notes"`
}
