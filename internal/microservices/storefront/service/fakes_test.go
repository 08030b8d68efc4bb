package service

import (
	"context"
	"errors"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"restaurant-storefront/internal/common/logger"
	"restaurant-storefront/internal/config"
	"restaurant-storefront/internal/connections/payments"
	"restaurant-storefront/internal/microservices/notificator/hub"
	"restaurant-storefront/internal/microservices/storefront/domain/dao"
	"restaurant-storefront/internal/microservices/storefront/repository"
	"restaurant-storefront/internal/theme"
)

type recordedEvents struct {
	mu       sync.Mutex
	created  []dao.Order
	statuses []hub.Event
	err      error
}

func (r *recordedEvents) OrderCreated(_ context.Context, o dao.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, o)
	return r.err
}

func (r *recordedEvents) StatusChanged(_ context.Context, e hub.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, e)
	return r.err
}

type fakeIntents struct {
	cents    int64
	currency string
	err      error
}

func (f *fakeIntents) CreateIntent(_ context.Context, cents int64, currency string) (payments.Intent, error) {
	f.cents, f.currency = cents, currency
	if f.err != nil {
		return payments.Intent{}, f.err
	}
	return payments.Intent{ID: "pi_123", ClientSecret: "pi_123_secret"}, nil
}

type published struct {
	exchange, key, correlationID string
	body                         []byte
	headers                      amqp.Table
}

type fakePublisher struct {
	msgs []published
	err  error
}

func (f *fakePublisher) Publish(_ context.Context, exchange, key string, body []byte, headers amqp.Table, correlationID string) error {
	f.msgs = append(f.msgs, published{exchange: exchange, key: key, body: body, headers: headers, correlationID: correlationID})
	return f.err
}

// brokenMenu fails every query except GetRestaurant.
type brokenMenu struct {
	repository.MenuRepositoryInterface
}

var errBroken = errors.New("db down")

func (brokenMenu) GetTheme(context.Context, string) (*theme.RestaurantTheme, error) {
	return nil, errBroken
}

func (brokenMenu) ListCategories(context.Context, string) ([]dao.Category, error) {
	return nil, errBroken
}

func (brokenMenu) ListMenuItems(context.Context, string) ([]dao.MenuItem, error) {
	return nil, errBroken
}

func testPricing() Pricing {
	p, err := NewPricing(config.Defaults().Checkout)
	if err != nil {
		panic(err)
	}
	return p
}

func newOrderService(repo *repository.Repository, events EventPublisherInterface) *OrderService {
	s := NewOrderService(repo.OrderRepo, repo.MenuRepo, events, testPricing(), logger.NewNop())
	s.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s
}
