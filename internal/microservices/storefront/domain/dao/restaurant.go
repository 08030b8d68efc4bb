package dao

import "github.com/shopspring/decimal"

func init() {
	// Деньги в ответах API - числа, а не строки.
	decimal.MarshalJSONWithoutQuotes = true
}

type Restaurant struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}

type Category struct {
	ID           string `json:"id"`
	RestaurantID string `json:"restaurant_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Order        int    `json:"order"`
}

type MenuItem struct {
	ID            string           `json:"id"`
	RestaurantID  string           `json:"restaurant_id"`
	CategoryID    string           `json:"category_id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	ImageURL      string           `json:"image_url"`
	Available     bool             `json:"available"`
	Featured      bool             `json:"featured"`
}
