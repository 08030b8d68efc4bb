package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-storefront/internal/microservices/storefront/domain/dao"
)

func TestMemoryMenu_Seed(t *testing.T) {
	repo := NewMemory().MenuRepo
	ctx := context.Background()

	r, err := repo.GetRestaurant(ctx, DemoRestaurantID)
	require.NoError(t, err)
	assert.Equal(t, "Bella's Italian Kitchen", r.Name)

	cats, _ := repo.ListCategories(ctx, DemoRestaurantID)
	assert.Len(t, cats, 4)
	items, _ := repo.ListMenuItems(ctx, DemoRestaurantID)
	assert.Len(t, items, 10)

	th, err := repo.GetTheme(ctx, DemoRestaurantID)
	require.NoError(t, err)
	require.NotNil(t, th)
	assert.Equal(t, "#e53e3e", th.Colors.Primary)

	_, err = repo.GetRestaurant(ctx, "other")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryMenu_HidesDraftsAndUnavailable(t *testing.T) {
	m := SeedMenu()
	m.Theme.IsDraft = true
	m.Items[0].Available = false
	repo := NewMemoryMenuRepository(m)

	th, err := repo.GetTheme(context.Background(), DemoRestaurantID)
	require.NoError(t, err)
	assert.Nil(t, th)

	items, _ := repo.ListMenuItems(context.Background(), DemoRestaurantID)
	assert.Len(t, items, 9)
}

func TestMemoryOrders_UpdateStatus(t *testing.T) {
	repo := NewMemoryOrderRepository()
	ctx := context.Background()
	o := sampleOrder(t)
	require.NoError(t, repo.AddOrder(ctx, o))

	confirmed := statusOf(t, dao.StatusConfirmed)
	change := dao.StatusChange{Status: confirmed, ChangedBy: "staff", CreatedAt: time.Now()}
	require.NoError(t, repo.UpdateStatus(ctx, o.ID, o.Status.ID, change, &dao.Tracking{DriverName: "Mike"}))

	got, err := repo.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, dao.StatusConfirmed, got.Status.Name)
	assert.Len(t, got.StatusHistory, 2)
	require.NotNil(t, got.Tracking)
	assert.Equal(t, "Mike", got.Tracking.DriverName)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, o.ID, o.Status.ID, change, nil), ErrConflict)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, "nope", "1", change, nil), ErrNotFound)
}

func TestMemoryOrders_ReturnsCopies(t *testing.T) {
	repo := NewMemoryOrderRepository()
	ctx := context.Background()
	require.NoError(t, repo.AddOrder(ctx, sampleOrder(t)))

	got, _ := repo.GetOrder(ctx, "ord-1")
	got.Items[0].Quantity = 99

	again, _ := repo.GetOrder(ctx, "ord-1")
	assert.Equal(t, 2, again.Items[0].Quantity)
}
