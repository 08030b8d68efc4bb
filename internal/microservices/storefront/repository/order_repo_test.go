package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-storefront/internal/microservices/storefront/domain/dao"
)

func statusOf(t *testing.T, name string) dao.OrderStatus {
	t.Helper()
	s, ok := dao.StatusByName(name)
	require.True(t, ok)
	return s
}

func sampleOrder(t *testing.T) dao.Order {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	pending := statusOf(t, dao.StatusPending)
	return dao.Order{
		ID:              "ord-1",
		OrderNumber:     "ORD-20260301-0a1b2c3d",
		RestaurantID:    DemoRestaurantID,
		CustomerName:    "John Doe",
		CustomerEmail:   "15551234567@temp.com",
		CustomerPhone:   "+1 (555) 123-4567",
		DeliveryAddress: "123 Main Street, Apt 4B, Floor 2",
		Items: []dao.OrderItem{
			{MenuItemID: "item-3", Name: "Margherita Pizza", Quantity: 2, Price: decimal.RequireFromString("18.99")},
		},
		Subtotal:      decimal.RequireFromString("37.98"),
		Tax:           decimal.RequireFromString("3.04"),
		DeliveryFee:   decimal.RequireFromString("2.99"),
		Total:         decimal.RequireFromString("44.01"),
		PaymentMethod: dao.PaymentCash,
		PaymentStatus: dao.PaymentPending,
		Status:        pending,
		StatusHistory: []dao.StatusChange{{Status: pending, ChangedBy: "storefront", CreatedAt: now}},
		CreatedAt:     now,
	}
}

func TestOrderRepository_AddOrder(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOrderRepository(db)
	o := sampleOrder(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO orders`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO order_items`).
		WithArgs("ord-1", "item-3", "Margherita Pizza", 2, "18.99", "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO order_status_history`).
		WithArgs("ord-1", "1", "storefront", o.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.AddOrder(context.Background(), o))
}

func TestOrderRepository_AddOrderRollsBack(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOrderRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO orders`).WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err := repo.AddOrder(context.Background(), sampleOrder(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert order")
}

func TestOrderRepository_GetOrder(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOrderRepository(db)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	eta := created.Add(25 * time.Minute)

	mock.ExpectQuery(`FROM orders o JOIN order_statuses s ON s.id = o.status_id WHERE o.id = \$1`).
		WithArgs("ord-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "order_number", "restaurant_id", "user_id", "customer_name", "customer_email",
			"customer_phone", "delivery_address", "delivery_coordinates", "subtotal", "tax",
			"delivery_fee", "total", "payment_method", "payment_method_id", "payment_intent_id",
			"payment_status", "notes", "created_at",
			"sid", "sname", "sdescription", "scolor", "ssort",
		}).AddRow(
			"ord-1", "ORD-20260301-0a1b2c3d", DemoRestaurantID, nil, "John Doe", "1@temp.com",
			"1", "Main St", []byte(`{"lat":1,"lng":2}`), "46.97", "3.76",
			"2.99", "53.72", "card", "pm_1", "pi_1",
			"completed", "", created,
			"3", "preparing", "Your order is being prepared", "#f59e0b", 3,
		))
	mock.ExpectQuery(`FROM order_items WHERE order_id = \$1`).
		WithArgs("ord-1").
		WillReturnRows(sqlmock.NewRows([]string{"menu_item_id", "name", "quantity", "price", "image_url"}).
			AddRow("item-3", "Margherita Pizza", 2, "18.99", "").
			AddRow("item-9", "Tiramisu", 1, "8.99", ""))
	mock.ExpectQuery(`FROM order_status_history h JOIN order_statuses s`).
		WithArgs("ord-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "color", "sort_order", "changed_by", "created_at"}).
			AddRow("1", "pending", "Order received", "#6b7280", 1, "storefront", created).
			AddRow("3", "preparing", "Your order is being prepared", "#f59e0b", 3, "kitchen", created.Add(5*time.Minute)))
	mock.ExpectQuery(`FROM order_tracking WHERE order_id = \$1`).
		WithArgs("ord-1").
		WillReturnRows(sqlmock.NewRows([]string{"estimated_delivery_time", "driver_name", "driver_phone"}).
			AddRow(eta, "Mike Johnson", "+1 (555) 987-6543"))

	o, err := repo.GetOrder(context.Background(), "ord-1")
	require.NoError(t, err)

	assert.Equal(t, "preparing", o.Status.Name)
	assert.Nil(t, o.UserID)
	require.NotNil(t, o.PaymentIntentID)
	assert.Equal(t, "pi_1", *o.PaymentIntentID)
	require.NotNil(t, o.DeliveryCoordinates)
	assert.Equal(t, 2.0, o.DeliveryCoordinates.Lng)
	assert.Equal(t, "53.72", o.Total.StringFixed(2))
	assert.Len(t, o.Items, 2)
	require.Len(t, o.StatusHistory, 2)
	assert.Equal(t, "kitchen", o.StatusHistory[1].ChangedBy)
	require.NotNil(t, o.Tracking)
	assert.Equal(t, "Mike Johnson", o.Tracking.DriverName)
	require.NotNil(t, o.Tracking.EstimatedDeliveryTime)
	assert.True(t, eta.Equal(*o.Tracking.EstimatedDeliveryTime))
}

func TestOrderRepository_GetOrderNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOrderRepository(db)

	mock.ExpectQuery(`FROM orders o`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetOrder(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOrderRepository(db)
	at := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	change := dao.StatusChange{Status: statusOf(t, dao.StatusOutForDelivery), ChangedBy: "kitchen", CreatedAt: at}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE orders SET status_id = \$3, updated_at = \$4 WHERE id = \$1 AND status_id = \$2`).
		WithArgs("ord-1", "4", "5", at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO order_status_history`).
		WithArgs("ord-1", "5", "kitchen", at).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO order_tracking`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateStatus(context.Background(), "ord-1", "4", change, &dao.Tracking{DriverName: "Mike"})
	require.NoError(t, err)
}

func TestOrderRepository_UpdateStatusConflict(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOrderRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE orders SET status_id`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.UpdateStatus(context.Background(), "ord-1", "1",
		dao.StatusChange{Status: statusOf(t, dao.StatusConfirmed), CreatedAt: time.Now()}, nil)
	assert.ErrorIs(t, err, ErrConflict)
}
