package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"restaurant-storefront/internal/common/logger"
	"restaurant-storefront/internal/microservices/storefront/domain/dao"
	"restaurant-storefront/internal/microservices/storefront/domain/dto"
	"restaurant-storefront/internal/microservices/storefront/repository"
)

var (
	ErrValidation = errors.New("validation failed")
	// ErrTransition - запрошенный статус недостижим из текущего.
	ErrTransition = errors.New("status transition not allowed")
)

// deliveryETA - оценка доставки, если курьер выехал без явного ETA.
const deliveryETA = 25 * time.Minute

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (dao.Order, error)
	GetOrder(ctx context.Context, id string) (dao.Order, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (dao.Order, error)
}

type OrderService struct {
	db      repository.OrderRepositoryInterface
	menu    repository.MenuRepositoryInterface
	events  EventPublisherInterface
	pricing Pricing
	lg      *logger.Logger

	now func() time.Time
}

func NewOrderService(db repository.OrderRepositoryInterface, menu repository.MenuRepositoryInterface,
	events EventPublisherInterface, pricing Pricing, lg *logger.Logger) *OrderService {
	return &OrderService{
		db:      db,
		menu:    menu,
		events:  events,
		pricing: pricing,
		lg:      lg,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *OrderService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (dao.Order, error) {
	// 1. Basic validation
	if err := validateOrder(req); err != nil {
		return dao.Order{}, err
	}
	coords, err := req.Coordinates()
	if err != nil {
		return dao.Order{}, validationError("%v", err)
	}
	if _, err := s.menu.GetRestaurant(ctx, req.RestaurantID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dao.Order{}, validationError("unknown restaurant %s", req.RestaurantID)
		}
		return dao.Order{}, err
	}

	// 2. Цены и названия берём из меню, totals всегда пересчитываются
	items, err := s.priceItems(ctx, req.RestaurantID, req.Items)
	if err != nil {
		return dao.Order{}, err
	}
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	totals := s.pricing.Quote(subtotal)

	// 3. Order id and number (ORD-YYYYMMDD-xxxxxxxx)
	now := s.now()
	id := uuid.New()
	pending, _ := dao.StatusByName(dao.StatusPending)

	email := req.CustomerEmail
	if email == "" {
		email = EmailFromPhone(req.CustomerPhone)
	}
	paymentStatus := dao.PaymentPending
	if req.PaymentMethod == dao.PaymentCard {
		paymentStatus = dao.PaymentCompleted
	}

	order := dao.Order{
		ID:                  id.String(),
		OrderNumber:         OrderNumber(now, id),
		RestaurantID:        req.RestaurantID,
		UserID:              req.UserID,
		CustomerName:        strings.TrimSpace(req.CustomerName),
		CustomerEmail:       email,
		CustomerPhone:       strings.TrimSpace(req.CustomerPhone),
		DeliveryAddress:     strings.TrimSpace(req.DeliveryAddress),
		DeliveryCoordinates: coords,
		Items:               items,
		Subtotal:            totals.Subtotal,
		Tax:                 totals.Tax,
		DeliveryFee:         totals.DeliveryFee,
		Total:               totals.Total,
		PaymentMethod:       req.PaymentMethod,
		PaymentStatus:       paymentStatus,
		Notes:               req.Notes,
		Status:              pending,
		StatusHistory:       []dao.StatusChange{{Status: pending, ChangedBy: "storefront", CreatedAt: now}},
		CreatedAt:           now,
	}
	if req.PaymentMethod == dao.PaymentCard {
		order.PaymentMethodID = req.PaymentMethodID
		order.PaymentIntentID = req.PaymentIntentID
	}

	// 4. Save order
	if err := s.db.AddOrder(ctx, order); err != nil {
		return dao.Order{}, fmt.Errorf("failed to save order: %w", err)
	}
	s.lg.Info("order_created", map[string]any{
		"order_id":       order.ID,
		"order_number":   order.OrderNumber,
		"restaurant_id":  order.RestaurantID,
		"total":          order.Total.StringFixed(2),
		"payment_method": order.PaymentMethod,
		"request_id":     order.OrderNumber,
	})

	// 5. Publish. Заказ уже сохранён, поэтому ошибки публикации только логируем.
	if err := s.events.OrderCreated(ctx, order); err != nil {
		s.lg.Error("order_publish_failed", err, map[string]any{"order_number": order.OrderNumber})
	}
	s.notify(ctx, order, order.StatusHistory[0])

	return order, nil
}

// priceItems resolves every line against the restaurant's menu. The client's
// name and price are ignored; unknown or unavailable items are rejected.
func (s *OrderService) priceItems(ctx context.Context, restaurantID string, inputs []dto.OrderItemInput) ([]dao.OrderItem, error) {
	menu, err := s.menu.ListMenuItems(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu: %w", err)
	}
	byID := make(map[string]dao.MenuItem, len(menu))
	for _, m := range menu {
		byID[m.ID] = m
	}

	items := dto.ConvertItems(inputs)
	for i := range items {
		m, ok := byID[items[i].MenuItemID]
		if !ok || !m.Available {
			return nil, validationError("item %s is not on the menu", items[i].MenuItemID)
		}
		items[i].Name = m.Name
		items[i].Price = m.Price
		if m.ImageURL != "" {
			items[i].ImageURL = m.ImageURL
		}
	}
	return items, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (dao.Order, error) {
	return s.db.GetOrder(ctx, id)
}

func (s *OrderService) UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (dao.Order, error) {
	next, ok := dao.StatusByName(req.Status)
	if !ok {
		return dao.Order{}, validationError("unknown status %q", req.Status)
	}
	cur, err := s.db.GetOrder(ctx, id)
	if err != nil {
		return dao.Order{}, err
	}
	if !cur.Status.CanMoveTo(next) {
		return dao.Order{}, fmt.Errorf("%w: %s -> %s", ErrTransition, cur.Status.Name, next.Name)
	}

	changedBy := req.ChangedBy
	if changedBy == "" {
		changedBy = "staff"
	}
	change := dao.StatusChange{Status: next, ChangedBy: changedBy, CreatedAt: s.now()}

	tracking := req.Tracking
	if next.Name == dao.StatusOutForDelivery && (tracking == nil || tracking.EstimatedDeliveryTime == nil) {
		t := dao.Tracking{}
		if tracking != nil {
			t = *tracking
		}
		eta := change.CreatedAt.Add(deliveryETA)
		t.EstimatedDeliveryTime = &eta
		tracking = &t
	}

	if err := s.db.UpdateStatus(ctx, id, cur.Status.ID, change, tracking); err != nil {
		return dao.Order{}, err
	}
	s.lg.Info("order_status_changed", map[string]any{
		"order_id":   id,
		"old_status": cur.Status.Name,
		"new_status": next.Name,
		"changed_by": changedBy,
		"request_id": cur.OrderNumber,
	})
	s.notify(ctx, cur, change)

	return s.db.GetOrder(ctx, id)
}

func (s *OrderService) notify(ctx context.Context, o dao.Order, change dao.StatusChange) {
	if err := s.events.StatusChanged(ctx, statusEvent(o, change)); err != nil {
		s.lg.Error("status_publish_failed", err, map[string]any{"order_number": o.OrderNumber, "status": change.Status.Name})
	}
}

func validateOrder(req dto.CreateOrderRequest) error {
	switch {
	case req.RestaurantID == "":
		return validationError("restaurant_id is required")
	case strings.TrimSpace(req.CustomerName) == "":
		return validationError("customer name is required")
	case strings.TrimSpace(req.CustomerPhone) == "":
		return validationError("customer phone is required")
	case strings.TrimSpace(req.DeliveryAddress) == "":
		return validationError("delivery address is required")
	case len(req.Items) == 0:
		return validationError("at least one item is required")
	}
	for _, item := range req.Items {
		if item.ID == "" {
			return validationError("item %q has no id", item.Name)
		}
		if item.Quantity <= 0 {
			return validationError("invalid quantity for item %s", item.Name)
		}
		if item.Price.IsNegative() {
			return validationError("invalid price for item %s", item.Name)
		}
	}
	switch req.PaymentMethod {
	case dao.PaymentCash:
	case dao.PaymentCard:
		if req.PaymentMethodID == nil || *req.PaymentMethodID == "" {
			return validationError("card payment requires payment_method_id")
		}
		if req.PaymentIntentID == nil || *req.PaymentIntentID == "" {
			return validationError("card payment requires payment_intent_id")
		}
	default:
		return validationError("invalid payment method %q", req.PaymentMethod)
	}
	return nil
}

// OrderNumber formats ORD-YYYYMMDD-<first 8 hex digits of id>.
func OrderNumber(at time.Time, id uuid.UUID) string {
	return fmt.Sprintf("ORD-%s-%s", at.UTC().Format("20060102"), id.String()[:8])
}

var nonDigits = regexp.MustCompile(`[^0-9]`)

// EmailFromPhone builds the placeholder address <digits>@temp.com.
func EmailFromPhone(phone string) string {
	return nonDigits.ReplaceAllString(phone, "") + "@temp.com"
}
