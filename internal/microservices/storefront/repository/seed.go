package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// Seed writes m into Postgres. Existing rows are left untouched, so running
// it twice is harmless.
func Seed(ctx context.Context, db *sql.DB, m Menu) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	r := m.Restaurant
	if _, err = tx.ExecContext(ctx, `
INSERT INTO restaurants (id, name, description, logo, address, phone, email)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO NOTHING
`, r.ID, r.Name, r.Description, r.Logo, r.Address, r.Phone, r.Email); err != nil {
		return fmt.Errorf("failed to seed restaurant: %w", err)
	}

	if t := m.Theme; t != nil {
		colors, _ := json.Marshal(t.Colors)
		var display any
		if t.DisplayOptions != nil {
			b, _ := json.Marshal(t.DisplayOptions)
			display = string(b)
		}
		id := t.ID
		if id == "" {
			id = r.ID + "-theme"
		}
		if _, err = tx.ExecContext(ctx, `
INSERT INTO restaurant_themes (id, restaurant_id, name, template, layout, colors, font_family, custom_css, display_options, is_draft)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO NOTHING
`, id, r.ID, t.Name, t.Template, t.Layout, string(colors), t.FontFamily, t.CustomCSS, display, t.IsDraft); err != nil {
			return fmt.Errorf("failed to seed theme: %w", err)
		}
	}

	for _, c := range m.Categories {
		if _, err = tx.ExecContext(ctx, `
INSERT INTO categories (id, restaurant_id, name, description, "order")
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO NOTHING
`, c.ID, r.ID, c.Name, c.Description, c.Order); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", c.ID, err)
		}
	}

	for i, it := range m.Items {
		if _, err = tx.ExecContext(ctx, `
INSERT INTO menu_items (id, restaurant_id, category_id, name, description, price, original_price, image_url, available, featured, "order")
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id) DO NOTHING
`, it.ID, r.ID, it.CategoryID, it.Name, it.Description, it.Price, it.OriginalPrice,
			it.ImageURL, it.Available, it.Featured, i+1); err != nil {
			return fmt.Errorf("failed to seed menu item %s: %w", it.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
