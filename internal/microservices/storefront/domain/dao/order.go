package dao

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lifecycle: pending → confirmed → preparing → ready → out_for_delivery → delivered.
const (
	StatusPending        = "pending"
	StatusConfirmed      = "confirmed"
	StatusPreparing      = "preparing"
	StatusReady          = "ready"
	StatusOutForDelivery = "out_for_delivery"
	StatusDelivered      = "delivered"
	StatusCancelled      = "cancelled"
)

const (
	PaymentCash = "cash"
	PaymentCard = "card"

	PaymentPending   = "pending"
	PaymentCompleted = "completed"
)

type OrderStatus struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	SortOrder   int    `json:"sort_order"`
}

// Statuses mirrors the order_statuses seed in schema.sql.
var Statuses = []OrderStatus{
	{ID: "1", Name: StatusPending, Description: "Order received", Color: "#6b7280", SortOrder: 1},
	{ID: "2", Name: StatusConfirmed, Description: "Restaurant confirmed your order", Color: "#3b82f6", SortOrder: 2},
	{ID: "3", Name: StatusPreparing, Description: "Your order is being prepared", Color: "#f59e0b", SortOrder: 3},
	{ID: "4", Name: StatusReady, Description: "Order is ready for pickup/delivery", Color: "#10b981", SortOrder: 4},
	{ID: "5", Name: StatusOutForDelivery, Description: "Driver is on the way", Color: "#8b5cf6", SortOrder: 5},
	{ID: "6", Name: StatusDelivered, Description: "Order has been delivered", Color: "#22c55e", SortOrder: 6},
	{ID: "7", Name: StatusCancelled, Description: "Order was cancelled", Color: "#ef4444", SortOrder: 7},
}

func StatusByName(name string) (OrderStatus, bool) {
	for _, s := range Statuses {
		if s.Name == name {
			return s, true
		}
	}
	return OrderStatus{}, false
}

// Terminal statuses accept no further changes.
func (s OrderStatus) Terminal() bool {
	return s.Name == StatusDelivered || s.Name == StatusCancelled
}

// CanMoveTo: only forward along the lifecycle, or to cancelled from any
// non-terminal status.
func (s OrderStatus) CanMoveTo(next OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if next.Name == StatusCancelled {
		return true
	}
	return next.SortOrder > s.SortOrder
}

type OrderItem struct {
	MenuItemID string          `json:"id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	ImageURL   string          `json:"image_url,omitempty"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Tracking struct {
	EstimatedDeliveryTime *time.Time `json:"estimated_delivery_time,omitempty"`
	DriverName            string     `json:"driver_name,omitempty"`
	DriverPhone           string     `json:"driver_phone,omitempty"`
}

type StatusChange struct {
	Status    OrderStatus `json:"status"`
	ChangedBy string      `json:"changed_by,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

type Order struct {
	ID                  string          `json:"id"`
	OrderNumber         string          `json:"order_number"`
	RestaurantID        string          `json:"restaurant_id"`
	UserID              *string         `json:"user_id"`
	CustomerName        string          `json:"customer_name"`
	CustomerEmail       string          `json:"customer_email"`
	CustomerPhone       string          `json:"customer_phone"`
	DeliveryAddress     string          `json:"delivery_address"`
	DeliveryCoordinates *Coordinates    `json:"delivery_coordinates"`
	Items               []OrderItem     `json:"items"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	Tax                 decimal.Decimal `json:"tax"`
	DeliveryFee         decimal.Decimal `json:"delivery_fee"`
	Total               decimal.Decimal `json:"total"`
	PaymentMethod       string          `json:"payment_method"`
	PaymentMethodID     *string         `json:"payment_method_id"`
	PaymentIntentID     *string         `json:"payment_intent_id"`
	PaymentStatus       string          `json:"payment_status"`
	Notes               string          `json:"notes"`
	Status              OrderStatus     `json:"status"`
	Tracking            *Tracking       `json:"tracking"`
	StatusHistory       []StatusChange  `json:"status_history"`
	CreatedAt           time.Time       `json:"created_at"`
}

// FOR RABBITMQ MESSAGE

// OrderMessage is published to orders_topic with key "order.created".
type OrderMessage struct {
	OrderID       string          `json:"order_id"`
	OrderNumber   string          `json:"order_number"`
	RestaurantID  string          `json:"restaurant_id"`
	CustomerName  string          `json:"customer_name"`
	Items         []OrderItem     `json:"items"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`
}

func NewOrderMessage(o Order) OrderMessage {
	return OrderMessage{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		RestaurantID:  o.RestaurantID,
		CustomerName:  o.CustomerName,
		Items:         o.Items,
		Total:         o.Total,
		PaymentMethod: o.PaymentMethod,
		CreatedAt:     o.CreatedAt,
	}
}
