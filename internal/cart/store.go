package cart

import (
	"context"
	"sync"

	"restaurant-storefront/internal/common/logger"
)

// Store owns the cart of one session. Dispatch serialises writers, so each
// store has exactly one writer at a time.
type Store struct {
	mu      sync.Mutex
	state   State
	storage Storage
	lg      *logger.Logger
}

// NewStore restores the cart from storage. storage may be nil, in which
// case nothing is persisted.
func NewStore(ctx context.Context, storage Storage, lg *logger.Logger) *Store {
	return &Store{
		state:   Restore(ctx, storage),
		storage: storage,
		lg:      lg,
	}
}

// State returns a copy of the current cart.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Dispatch applies cmd and, for commands touching lines, writes the result
// to storage. Write failures are logged and otherwise ignored.
func (s *Store) Dispatch(ctx context.Context, cmd Command) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, cmd)
	if mutates(cmd) {
		s.persist(ctx)
	}
	return s.state.clone()
}

// Checkout hands the current cart to place and clears it once place
// succeeds. The store is held for the whole call, so a concurrent Dispatch
// or second Checkout runs after it and sees the cleared cart.
func (s *Store) Checkout(ctx context.Context, place func(State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := place(s.state.clone()); err != nil {
		return err
	}
	s.state = Reduce(s.state, ClearCart{})
	s.persist(ctx)
	return nil
}

func (s *Store) persist(ctx context.Context) {
	if s.storage == nil {
		return
	}
	b, err := Encode(s.state)
	if err == nil {
		err = s.storage.Save(ctx, StorageKey, b)
	}
	if err != nil {
		s.lg.Error("cart_persist_failed", err, map[string]any{"items": len(s.state.Lines)})
	}
}
