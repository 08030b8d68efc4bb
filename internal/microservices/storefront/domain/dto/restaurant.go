package dto

import (
	"restaurant-storefront/internal/microservices/storefront/domain/dao"
	"restaurant-storefront/internal/theme"
)

// RestaurantResponse - всё, что нужно витрине одного ресторана.
type RestaurantResponse struct {
	Restaurant dao.Restaurant         `json:"restaurant"`
	Theme      *theme.RestaurantTheme `json:"theme"`
	Categories []dao.Category         `json:"categories"`
	MenuItems  []dao.MenuItem         `json:"menuItems"`
}

type ThemeResponse struct {
	Theme     theme.Config      `json:"theme"`
	Variables map[string]string `json:"variables"`
	Preview   bool              `json:"preview"`
}
