package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"restaurant-storefront/internal/microservices/storefront/domain/dao"
)

type OrderRepositoryInterface interface {
	AddOrder(ctx context.Context, order dao.Order) error
	GetOrder(ctx context.Context, id string) (dao.Order, error)
	// UpdateStatus moves the order from status fromID to change.Status and
	// appends change to its history. ErrConflict when the order is no longer
	// in fromID.
	UpdateStatus(ctx context.Context, id, fromID string, change dao.StatusChange, tracking *dao.Tracking) error
}

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderRepositoryInterface {
	return &OrderRepository{db: db}
}

func (or *OrderRepository) AddOrder(ctx context.Context, order dao.Order) (err error) {
	tx, err := or.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var coords []byte
	if order.DeliveryCoordinates != nil {
		coords, _ = json.Marshal(order.DeliveryCoordinates)
	}

	// 1. Insert order
	_, err = tx.ExecContext(ctx, `
INSERT INTO orders
    (id, order_number, restaurant_id, user_id, customer_name, customer_email, customer_phone,
     delivery_address, delivery_coordinates, subtotal, tax, delivery_fee, total,
     payment_method, payment_method_id, payment_intent_id, payment_status, notes,
     status_id, created_at, updated_at)
VALUES
    ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $20)
`,
		order.ID,
		order.OrderNumber,
		order.RestaurantID,
		order.UserID,
		order.CustomerName,
		order.CustomerEmail,
		order.CustomerPhone,
		order.DeliveryAddress,
		nullJSON(coords),
		order.Subtotal,
		order.Tax,
		order.DeliveryFee,
		order.Total,
		order.PaymentMethod,
		order.PaymentMethodID,
		order.PaymentIntentID,
		order.PaymentStatus,
		order.Notes,
		order.Status.ID,
		order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	// 2. Insert order items
	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
INSERT INTO order_items (order_id, menu_item_id, name, quantity, price, image_url)
VALUES ($1, $2, $3, $4, $5, $6)
`, order.ID, item.MenuItemID, item.Name, item.Quantity, item.Price, item.ImageURL)
		if err != nil {
			return fmt.Errorf("failed to insert order item %s: %w", item.Name, err)
		}
	}

	// 3. Status history
	for _, h := range order.StatusHistory {
		if err = insertHistory(ctx, tx, order.ID, h); err != nil {
			return err
		}
	}

	if order.Tracking != nil {
		if err = upsertTracking(ctx, tx, order.ID, *order.Tracking); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (or *OrderRepository) GetOrder(ctx context.Context, id string) (dao.Order, error) {
	var (
		o      dao.Order
		userID sql.NullString
		coords []byte
		pmID   sql.NullString
		piID   sql.NullString
	)
	err := or.db.QueryRowContext(ctx, `
SELECT o.id, o.order_number, o.restaurant_id, o.user_id, o.customer_name, o.customer_email,
       o.customer_phone, o.delivery_address, o.delivery_coordinates, o.subtotal, o.tax,
       o.delivery_fee, o.total, o.payment_method, o.payment_method_id, o.payment_intent_id,
       o.payment_status, o.notes, o.created_at,
       s.id, s.name, s.description, s.color, s.sort_order
FROM orders o
JOIN order_statuses s ON s.id = o.status_id
WHERE o.id = $1
`, id).Scan(&o.ID, &o.OrderNumber, &o.RestaurantID, &userID, &o.CustomerName, &o.CustomerEmail,
		&o.CustomerPhone, &o.DeliveryAddress, &coords, &o.Subtotal, &o.Tax,
		&o.DeliveryFee, &o.Total, &o.PaymentMethod, &pmID, &piID,
		&o.PaymentStatus, &o.Notes, &o.CreatedAt,
		&o.Status.ID, &o.Status.Name, &o.Status.Description, &o.Status.Color, &o.Status.SortOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return dao.Order{}, ErrNotFound
	}
	if err != nil {
		return dao.Order{}, fmt.Errorf("failed to get order: %w", err)
	}
	o.UserID = nullString(userID)
	o.PaymentMethodID = nullString(pmID)
	o.PaymentIntentID = nullString(piID)
	if len(coords) > 0 {
		var c dao.Coordinates
		if json.Unmarshal(coords, &c) == nil {
			o.DeliveryCoordinates = &c
		}
	}

	if o.Items, err = or.items(ctx, id); err != nil {
		return dao.Order{}, err
	}
	if o.StatusHistory, err = or.history(ctx, id); err != nil {
		return dao.Order{}, err
	}
	if o.Tracking, err = or.tracking(ctx, id); err != nil {
		return dao.Order{}, err
	}
	return o, nil
}

func (or *OrderRepository) UpdateStatus(ctx context.Context, id, fromID string, change dao.StatusChange, tracking *dao.Tracking) (err error) {
	tx, err := or.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
UPDATE orders SET status_id = $3, updated_at = $4
WHERE id = $1 AND status_id = $2
`, id, fromID, change.Status.ID, change.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if n == 0 {
		err = ErrConflict
		return err
	}

	if err = insertHistory(ctx, tx, id, change); err != nil {
		return err
	}
	if tracking != nil {
		if err = upsertTracking(ctx, tx, id, *tracking); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (or *OrderRepository) items(ctx context.Context, id string) ([]dao.OrderItem, error) {
	rows, err := or.db.QueryContext(ctx, `
SELECT menu_item_id, name, quantity, price, image_url
FROM order_items WHERE order_id = $1
ORDER BY id ASC
`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	out := []dao.OrderItem{}
	for rows.Next() {
		var it dao.OrderItem
		if err := rows.Scan(&it.MenuItemID, &it.Name, &it.Quantity, &it.Price, &it.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (or *OrderRepository) history(ctx context.Context, id string) ([]dao.StatusChange, error) {
	rows, err := or.db.QueryContext(ctx, `
SELECT s.id, s.name, s.description, s.color, s.sort_order, h.changed_by, h.created_at
FROM order_status_history h
JOIN order_statuses s ON s.id = h.status_id
WHERE h.order_id = $1
ORDER BY h.created_at ASC, h.id ASC
`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get status history: %w", err)
	}
	defer rows.Close()

	out := []dao.StatusChange{}
	for rows.Next() {
		var h dao.StatusChange
		if err := rows.Scan(&h.Status.ID, &h.Status.Name, &h.Status.Description, &h.Status.Color,
			&h.Status.SortOrder, &h.ChangedBy, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status history: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (or *OrderRepository) tracking(ctx context.Context, id string) (*dao.Tracking, error) {
	var (
		t   dao.Tracking
		eta sql.NullTime
	)
	err := or.db.QueryRowContext(ctx, `
SELECT estimated_delivery_time, driver_name, driver_phone
FROM order_tracking WHERE order_id = $1
`, id).Scan(&eta, &t.DriverName, &t.DriverPhone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tracking: %w", err)
	}
	if eta.Valid {
		t.EstimatedDeliveryTime = &eta.Time
	}
	return &t, nil
}

func insertHistory(ctx context.Context, tx *sql.Tx, orderID string, h dao.StatusChange) error {
	_, err := tx.ExecContext(ctx, `
INSERT INTO order_status_history (order_id, status_id, changed_by, created_at)
VALUES ($1, $2, $3, $4)
`, orderID, h.Status.ID, h.ChangedBy, h.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert status history: %w", err)
	}
	return nil
}

func upsertTracking(ctx context.Context, tx *sql.Tx, orderID string, t dao.Tracking) error {
	_, err := tx.ExecContext(ctx, `
INSERT INTO order_tracking (order_id, estimated_delivery_time, driver_name, driver_phone)
VALUES ($1, $2, $3, $4)
ON CONFLICT (order_id) DO UPDATE SET
  estimated_delivery_time = COALESCE(EXCLUDED.estimated_delivery_time, order_tracking.estimated_delivery_time),
  driver_name = COALESCE(NULLIF(EXCLUDED.driver_name, ''), order_tracking.driver_name),
  driver_phone = COALESCE(NULLIF(EXCLUDED.driver_phone, ''), order_tracking.driver_phone)
`, orderID, t.EstimatedDeliveryTime, t.DriverName, t.DriverPhone)
	if err != nil {
		return fmt.Errorf("failed to upsert tracking: %w", err)
	}
	return nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
