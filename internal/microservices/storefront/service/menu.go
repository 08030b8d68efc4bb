package service

import (
	"context"

	"restaurant-storefront/internal/common/logger"
	"restaurant-storefront/internal/microservices/storefront/domain/dao"
	"restaurant-storefront/internal/microservices/storefront/domain/dto"
	"restaurant-storefront/internal/microservices/storefront/repository"
)

type MenuServiceInterface interface {
	GetRestaurant(ctx context.Context, id string) (dto.RestaurantResponse, error)
}

type MenuService struct {
	db repository.MenuRepositoryInterface
	lg *logger.Logger
}

func NewMenuService(db repository.MenuRepositoryInterface, lg *logger.Logger) *MenuService {
	return &MenuService{db: db, lg: lg}
}

// GetRestaurant fails only when the restaurant itself cannot be read; a
// broken theme, category or item query degrades to an empty value.
func (ms *MenuService) GetRestaurant(ctx context.Context, id string) (dto.RestaurantResponse, error) {
	rest, err := ms.db.GetRestaurant(ctx, id)
	if err != nil {
		return dto.RestaurantResponse{}, err
	}
	resp := dto.RestaurantResponse{
		Restaurant: rest,
		Categories: []dao.Category{},
		MenuItems:  []dao.MenuItem{},
	}

	if resp.Theme, err = ms.db.GetTheme(ctx, id); err != nil {
		ms.lg.Error("theme_load_failed", err, map[string]any{"restaurant_id": id})
	}
	if cats, err := ms.db.ListCategories(ctx, id); err != nil {
		ms.lg.Error("categories_load_failed", err, map[string]any{"restaurant_id": id})
	} else {
		resp.Categories = cats
	}
	if items, err := ms.db.ListMenuItems(ctx, id); err != nil {
		ms.lg.Error("menu_items_load_failed", err, map[string]any{"restaurant_id": id})
	} else {
		resp.MenuItems = items
	}
	return resp, nil
}
