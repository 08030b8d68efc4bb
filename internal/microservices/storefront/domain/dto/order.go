package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"restaurant-storefront/internal/microservices/storefront/domain/dao"
)

type CreateOrderRequest struct {
	RestaurantID        string           `json:"restaurant_id"`
	UserID              *string          `json:"user_id"`
	CustomerName        string           `json:"customer_name"`
	CustomerEmail       string           `json:"customer_email"`
	CustomerPhone       string           `json:"customer_phone"`
	DeliveryAddress     string           `json:"delivery_address"`
	DeliveryCoordinates json.RawMessage  `json:"delivery_coordinates"`
	Items               []OrderItemInput `json:"items"`
	PaymentMethod       string           `json:"payment_method"`
	PaymentMethodID     *string          `json:"payment_method_id"`
	PaymentIntentID     *string          `json:"payment_intent_id"`
	Notes               string           `json:"notes"`
}

type OrderItemInput struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	ImageURL string          `json:"image_url"`
}

// Coordinates принимает и объект {lat,lng}, и ту же структуру, закодированную
// в строку (так её шлёт checkout). null или пусто - nil.
func (r CreateOrderRequest) Coordinates() (*dao.Coordinates, error) {
	raw := bytes.TrimSpace(r.DeliveryCoordinates)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("delivery_coordinates: %w", err)
		}
		raw = []byte(s)
	}
	var c dao.Coordinates
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("delivery_coordinates: %w", err)
	}
	return &c, nil
}

// ConvertItems maps input items to order items.
func ConvertItems(inputs []OrderItemInput) []dao.OrderItem {
	items := make([]dao.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, dao.OrderItem{
			MenuItemID: in.ID,
			Name:       in.Name,
			Quantity:   in.Quantity,
			Price:      in.Price,
			ImageURL:   in.ImageURL,
		})
	}
	return items
}

type OrderResponse struct {
	Order dao.Order `json:"order"`
}

type UpdateStatusRequest struct {
	Status    string        `json:"status"`
	ChangedBy string        `json:"changed_by"`
	Tracking  *dao.Tracking `json:"tracking,omitempty"`
}

// Totals - разбивка суммы заказа.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}
