package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"restaurant-storefront/internal/microservices/storefront/domain/dao"
	"restaurant-storefront/internal/theme"
)

type MenuRepositoryInterface interface {
	GetRestaurant(ctx context.Context, id string) (dao.Restaurant, error)
	// GetTheme returns the published theme, or nil when the restaurant has none.
	GetTheme(ctx context.Context, restaurantID string) (*theme.RestaurantTheme, error)
	ListCategories(ctx context.Context, restaurantID string) ([]dao.Category, error)
	// ListMenuItems returns available items only.
	ListMenuItems(ctx context.Context, restaurantID string) ([]dao.MenuItem, error)
}

type MenuRepository struct {
	db *sql.DB
}

func NewMenuRepository(db *sql.DB) MenuRepositoryInterface {
	return &MenuRepository{db: db}
}

func (r *MenuRepository) GetRestaurant(ctx context.Context, id string) (dao.Restaurant, error) {
	var rest dao.Restaurant
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, description, logo, address, phone, email
FROM restaurants WHERE id = $1
`, id).Scan(&rest.ID, &rest.Name, &rest.Description, &rest.Logo, &rest.Address, &rest.Phone, &rest.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return dao.Restaurant{}, ErrNotFound
	}
	if err != nil {
		return dao.Restaurant{}, fmt.Errorf("failed to get restaurant: %w", err)
	}
	return rest, nil
}

func (r *MenuRepository) GetTheme(ctx context.Context, restaurantID string) (*theme.RestaurantTheme, error) {
	var (
		t         theme.RestaurantTheme
		colors    []byte
		customCSS sql.NullString
		display   []byte
		parentID  sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
SELECT id, restaurant_id, name, template, layout, colors, font_family,
       custom_css, display_options, is_draft, parent_theme_id
FROM restaurant_themes
WHERE restaurant_id = $1 AND is_draft = false
LIMIT 1
`, restaurantID).Scan(&t.ID, &t.RestaurantID, &t.Name, &t.Template, &t.Layout, &colors,
		&t.FontFamily, &customCSS, &display, &t.IsDraft, &parentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get theme: %w", err)
	}

	// Битый JSON в цветах/опциях не должен ронять витрину: поля просто
	// остаются пустыми и при резолве проваливаются к умолчаниям.
	_ = json.Unmarshal(colors, &t.Colors)
	if len(display) > 0 {
		var d theme.DisplayOptions
		if json.Unmarshal(display, &d) == nil {
			t.DisplayOptions = &d
		}
	}
	if customCSS.Valid {
		t.CustomCSS = &customCSS.String
	}
	if parentID.Valid {
		t.ParentThemeID = &parentID.String
	}
	return &t, nil
}

func (r *MenuRepository) ListCategories(ctx context.Context, restaurantID string) ([]dao.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, restaurant_id, name, description, "order"
FROM categories WHERE restaurant_id = $1
ORDER BY "order" ASC
`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	out := []dao.Category{}
	for rows.Next() {
		var c dao.Category
		if err := rows.Scan(&c.ID, &c.RestaurantID, &c.Name, &c.Description, &c.Order); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *MenuRepository) ListMenuItems(ctx context.Context, restaurantID string) ([]dao.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, restaurant_id, category_id, name, description, price, original_price,
       image_url, available, featured
FROM menu_items WHERE restaurant_id = $1 AND available = true
ORDER BY "order" ASC
`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	defer rows.Close()

	out := []dao.MenuItem{}
	for rows.Next() {
		var (
			m        dao.MenuItem
			original decimal.NullDecimal
		)
		if err := rows.Scan(&m.ID, &m.RestaurantID, &m.CategoryID, &m.Name, &m.Description,
			&m.Price, &original, &m.ImageURL, &m.Available, &m.Featured); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		if original.Valid {
			m.OriginalPrice = &original.Decimal
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
