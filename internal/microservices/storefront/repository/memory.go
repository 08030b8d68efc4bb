package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"restaurant-storefront/internal/microservices/storefront/domain/dao"
	"restaurant-storefront/internal/theme"
)

// Menu - полный набор данных одного ресторана для in-memory репозитория.
type Menu struct {
	Restaurant dao.Restaurant
	Theme      *theme.RestaurantTheme
	Categories []dao.Category
	Items      []dao.MenuItem
}

type MemoryMenuRepository struct {
	mu    sync.RWMutex
	menus map[string]Menu
}

func NewMemoryMenuRepository(menus ...Menu) *MemoryMenuRepository {
	r := &MemoryMenuRepository{menus: make(map[string]Menu)}
	for _, m := range menus {
		r.Put(m)
	}
	return r
}

// Put adds or replaces a restaurant.
func (r *MemoryMenuRepository) Put(m Menu) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.menus[m.Restaurant.ID] = m
}

func (r *MemoryMenuRepository) get(id string) (Menu, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.menus[id]
	return m, ok
}

func (r *MemoryMenuRepository) GetRestaurant(_ context.Context, id string) (dao.Restaurant, error) {
	m, ok := r.get(id)
	if !ok {
		return dao.Restaurant{}, ErrNotFound
	}
	return m.Restaurant, nil
}

func (r *MemoryMenuRepository) GetTheme(_ context.Context, restaurantID string) (*theme.RestaurantTheme, error) {
	m, ok := r.get(restaurantID)
	if !ok || m.Theme == nil || m.Theme.IsDraft {
		return nil, nil
	}
	t := *m.Theme
	return &t, nil
}

func (r *MemoryMenuRepository) ListCategories(_ context.Context, restaurantID string) ([]dao.Category, error) {
	m, _ := r.get(restaurantID)
	out := append([]dao.Category{}, m.Categories...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *MemoryMenuRepository) ListMenuItems(_ context.Context, restaurantID string) ([]dao.MenuItem, error) {
	m, _ := r.get(restaurantID)
	out := []dao.MenuItem{}
	for _, it := range m.Items {
		if it.Available {
			out = append(out, it)
		}
	}
	return out, nil
}

type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]dao.Order
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{orders: make(map[string]dao.Order)}
}

func (r *MemoryOrderRepository) AddOrder(_ context.Context, order dao.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = copyOrder(order)
	return nil
}

func (r *MemoryOrderRepository) GetOrder(_ context.Context, id string) (dao.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return dao.Order{}, ErrNotFound
	}
	return copyOrder(o), nil
}

func (r *MemoryOrderRepository) UpdateStatus(_ context.Context, id, fromID string, change dao.StatusChange, tracking *dao.Tracking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return ErrNotFound
	}
	if o.Status.ID != fromID {
		return ErrConflict
	}
	o.Status = change.Status
	o.StatusHistory = append(append([]dao.StatusChange{}, o.StatusHistory...), change)
	if tracking != nil {
		o.Tracking = mergeTracking(o.Tracking, *tracking)
	}
	r.orders[id] = o
	return nil
}

func mergeTracking(cur *dao.Tracking, upd dao.Tracking) *dao.Tracking {
	out := dao.Tracking{}
	if cur != nil {
		out = *cur
	}
	if upd.EstimatedDeliveryTime != nil {
		out.EstimatedDeliveryTime = upd.EstimatedDeliveryTime
	}
	if upd.DriverName != "" {
		out.DriverName = upd.DriverName
	}
	if upd.DriverPhone != "" {
		out.DriverPhone = upd.DriverPhone
	}
	return &out
}

func copyOrder(o dao.Order) dao.Order {
	o.Items = append([]dao.OrderItem{}, o.Items...)
	o.StatusHistory = append([]dao.StatusChange{}, o.StatusHistory...)
	if o.Tracking != nil {
		t := *o.Tracking
		o.Tracking = &t
	}
	return o
}

// DemoRestaurantID - ресторан, которым засеян in-memory репозиторий.
const DemoRestaurantID = "2fb2a4e9-824d-4968-a15f-9ff896730607"

// SeedMenu returns the demo restaurant served when no database is configured.
func SeedMenu() Menu {
	const placeholder = "/placeholder.svg?height=200&width=300"
	item := func(id, cat, name, desc, price, original string, featured bool) dao.MenuItem {
		m := dao.MenuItem{
			ID:           id,
			RestaurantID: DemoRestaurantID,
			CategoryID:   cat,
			Name:         name,
			Description:  desc,
			Price:        decimal.RequireFromString(price),
			ImageURL:     placeholder,
			Available:    true,
			Featured:     featured,
		}
		if original != "" {
			p := decimal.RequireFromString(original)
			m.OriginalPrice = &p
		}
		return m
	}
	category := func(id, name, desc string, order int) dao.Category {
		return dao.Category{ID: id, RestaurantID: DemoRestaurantID, Name: name, Description: desc, Order: order}
	}

	return Menu{
		Restaurant: dao.Restaurant{
			ID:          DemoRestaurantID,
			Name:        "Bella's Italian Kitchen",
			Description: "Authentic Italian cuisine made with love",
			Logo:        "/placeholder.svg?height=100&width=100",
			Address:     "123 Main Street, City",
			Phone:       "+1 (555) 123-4567",
			Email:       "info@bellas.com",
		},
		Theme: &theme.RestaurantTheme{
			RestaurantID: DemoRestaurantID,
			Colors:       theme.Default().Colors,
			FontFamily:   "Inter, sans-serif",
		},
		Categories: []dao.Category{
			category("cat-1", "Appetizers", "Start your meal right", 1),
			category("cat-2", "Pizza", "Wood-fired pizzas", 2),
			category("cat-3", "Pasta", "Fresh homemade pasta", 3),
			category("cat-4", "Desserts", "Sweet endings", 4),
		},
		Items: []dao.MenuItem{
			item("item-1", "cat-1", "Bruschetta Trio", "Three varieties of our signature bruschetta with fresh tomatoes, basil, and mozzarella", "12.99", "", true),
			item("item-2", "cat-1", "Calamari Fritti", "Crispy fried squid rings served with marinara sauce", "14.99", "", false),
			item("item-3", "cat-2", "Margherita Pizza", "Classic pizza with fresh mozzarella, tomatoes, and basil", "18.99", "22.99", true),
			item("item-4", "cat-2", "Pepperoni Supreme", "Loaded with pepperoni, mushrooms, bell peppers, and extra cheese", "24.99", "", false),
			item("item-5", "cat-2", "Quattro Stagioni", "Four seasons pizza with artichokes, ham, mushrooms, and olives", "26.99", "", false),
			item("item-6", "cat-3", "Spaghetti Carbonara", "Classic Roman pasta with eggs, cheese, pancetta, and black pepper", "19.99", "", true),
			item("item-7", "cat-3", "Fettuccine Alfredo", "Rich and creamy pasta with parmesan cheese and butter", "17.99", "", false),
			item("item-8", "cat-3", "Penne Arrabbiata", "Spicy tomato sauce with garlic, red peppers, and herbs", "16.99", "19.99", false),
			item("item-9", "cat-4", "Tiramisu", "Classic Italian dessert with coffee-soaked ladyfingers and mascarpone", "8.99", "", true),
			item("item-10", "cat-4", "Cannoli Siciliani", "Crispy shells filled with sweet ricotta and chocolate chips", "7.99", "", false),
		},
	}
}
