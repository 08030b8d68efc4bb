package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"restaurant-storefront/internal/cart"
	"restaurant-storefront/internal/microservices/storefront/domain/dao"
	"restaurant-storefront/internal/microservices/storefront/domain/dto"
)

// Step - шаг формы checkout.
type Step int

const (
	StepContact Step = iota + 1
	StepAddress
	StepPayment
	StepReview
)

type CheckoutServiceInterface interface {
	Quote(state cart.State) dto.Totals
	ValidateStep(step Step, req dto.CheckoutRequest, state cart.State) error
	Checkout(ctx context.Context, store *cart.Store, req dto.CheckoutRequest) (dao.Order, error)
}

type CheckoutService struct {
	orders  OrderServiceInterface
	pricing Pricing
}

func NewCheckoutService(orders OrderServiceInterface, pricing Pricing) *CheckoutService {
	return &CheckoutService{orders: orders, pricing: pricing}
}

func (cs *CheckoutService) Quote(state cart.State) dto.Totals {
	return cs.pricing.Quote(state.Total)
}

// ValidateStep checks the fields a step needs; the review step also needs
// every earlier step and a non-empty cart.
func (cs *CheckoutService) ValidateStep(step Step, req dto.CheckoutRequest, state cart.State) error {
	switch step {
	case StepContact:
		if strings.TrimSpace(req.CustomerName) == "" || strings.TrimSpace(req.CustomerPhone) == "" {
			return validationError("name and phone are required")
		}
	case StepAddress:
		if strings.TrimSpace(req.DeliveryAddress) == "" {
			return validationError("delivery address is required")
		}
	case StepPayment:
		switch req.PaymentMethod {
		case dao.PaymentCash:
		case dao.PaymentCard:
			if req.PaymentMethodID == nil || *req.PaymentMethodID == "" {
				return validationError("card details are required")
			}
			if req.PaymentIntentID == nil || *req.PaymentIntentID == "" {
				return validationError("card payment requires payment_intent_id")
			}
		default:
			return validationError("choose a payment method")
		}
	case StepReview:
		if state.IsEmpty() {
			return validationError("cart is empty")
		}
		for s := StepContact; s < StepReview; s++ {
			if err := cs.ValidateStep(s, req, state); err != nil {
				return err
			}
		}
	default:
		return validationError("unknown step %d", step)
	}
	return nil
}

// Checkout places an order from the session's cart and clears the cart
// once the order is stored. On failure the cart is left as it was.
func (cs *CheckoutService) Checkout(ctx context.Context, store *cart.Store, req dto.CheckoutRequest) (dao.Order, error) {
	var order dao.Order
	err := store.Checkout(ctx, func(state cart.State) error {
		var err error
		order, err = cs.place(ctx, state, req)
		return err
	})
	if err != nil {
		return dao.Order{}, err
	}
	return order, nil
}

func (cs *CheckoutService) place(ctx context.Context, state cart.State, req dto.CheckoutRequest) (dao.Order, error) {
	if err := cs.ValidateStep(StepReview, req, state); err != nil {
		return dao.Order{}, err
	}

	lines := state.Snapshot()
	items := make([]dto.OrderItemInput, 0, len(lines))
	for _, l := range lines {
		items = append(items, dto.OrderItemInput{
			ID:       l.ID,
			Name:     l.Name,
			Price:    l.UnitPrice,
			Quantity: l.Quantity,
			ImageURL: l.ImageURL,
		})
	}

	var coords json.RawMessage
	if req.Lat != nil && req.Lng != nil {
		b, err := json.Marshal(dao.Coordinates{Lat: *req.Lat, Lng: *req.Lng})
		if err != nil {
			return dao.Order{}, fmt.Errorf("failed to encode coordinates: %w", err)
		}
		coords = b
	}

	order, err := cs.orders.CreateOrder(ctx, dto.CreateOrderRequest{
		RestaurantID:        req.RestaurantID,
		UserID:              req.UserID,
		CustomerName:        req.CustomerName,
		CustomerEmail:       EmailFromPhone(req.CustomerPhone),
		CustomerPhone:       req.CustomerPhone,
		DeliveryAddress:     FormatAddress(req.DeliveryAddress, req.Building, req.Floor),
		DeliveryCoordinates: coords,
		Items:               items,
		PaymentMethod:       req.PaymentMethod,
		PaymentMethodID:     req.PaymentMethodID,
		PaymentIntentID:     req.PaymentIntentID,
		Notes:               req.Notes,
	})
	if err != nil {
		return dao.Order{}, err
	}
	return order, nil
}

// FormatAddress joins address[, building][, Floor N].
func FormatAddress(address, building, floor string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(address))
	if building = strings.TrimSpace(building); building != "" {
		b.WriteString(", ")
		b.WriteString(building)
	}
	if floor = strings.TrimSpace(floor); floor != "" {
		b.WriteString(", Floor ")
		b.WriteString(floor)
	}
	return b.String()
}
