package cart

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-storefront/internal/common/logger"
)

func TestStore_PersistsAfterMutations(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStorage()
	store := NewStore(ctx, st, logger.NewNop())

	store.Dispatch(ctx, AddItem{Item: pizza()})
	store.Dispatch(ctx, AddItem{Item: pizza()})

	b, err := st.Load(ctx, StorageKey)
	require.NoError(t, err)
	restored, ok := Decode(b)
	require.True(t, ok)
	assert.Equal(t, 2, restored.Count)
	assert.Equal(t, "37.98", restored.Total.String())
}

func TestStore_RestoresAcrossInstances(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStorage()

	first := NewStore(ctx, st, logger.NewNop())
	first.Dispatch(ctx, AddItem{Item: pizza()})
	first.Dispatch(ctx, ToggleCart{})
	require.True(t, first.State().DrawerOpen)

	second := NewStore(ctx, st, logger.NewNop())
	s := second.State()
	assert.Equal(t, 1, s.Count)
	assert.False(t, s.DrawerOpen)
}

func TestStore_DrawerCommandsDoNotWrite(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStorage()
	store := NewStore(ctx, st, logger.NewNop())

	store.Dispatch(ctx, ToggleCart{})
	_, err := st.Load(ctx, StorageKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_UpdateUnknownIDStillPersists(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStorage()
	store := NewStore(ctx, st, logger.NewNop())

	store.Dispatch(ctx, UpdateQuantity{ID: "missing", Quantity: 2})
	b, err := st.Load(ctx, StorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"total":0,"itemCount":0}`, string(b))
}

func TestStore_WriteFailureDoesNotBreakState(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, &failingStorage{}, logger.NewNop())

	s := store.Dispatch(ctx, AddItem{Item: Item{ID: "a", UnitPrice: decimal.NewFromInt(3)}})
	assert.Equal(t, 1, s.Count)
}

func TestStore_StateIsACopy(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, nil, logger.NewNop())
	store.Dispatch(ctx, AddItem{Item: pizza()})

	s := store.State()
	s.Lines[0].Quantity = 99
	assert.Equal(t, 1, store.State().Lines[0].Quantity)
}

func TestSessions_IsolatesAndRestores(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessions(MemoryStorageFactory(), logger.NewNop())

	a := sessions.Get(ctx, "a")
	a.Dispatch(ctx, AddItem{Item: pizza()})
	assert.Same(t, a, sessions.Get(ctx, "a"))
	assert.True(t, sessions.Get(ctx, "b").State().IsEmpty())

	sessions.Forget("a")
	again := sessions.Get(ctx, "a")
	assert.NotSame(t, a, again)
	assert.Equal(t, 1, again.State().Count)
}

func TestSessions_SweepDropsIdle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sessions := NewSessions(MemoryStorageFactory(), logger.NewNop(), WithIdleTimeout(time.Hour))
	sessions.now = func() time.Time { return now }

	for i := 0; i < 1000; i++ {
		sessions.Get(ctx, fmt.Sprintf("one-shot-%d", i))
	}
	kept := sessions.Get(ctx, "kept")
	kept.Dispatch(ctx, AddItem{Item: pizza()})
	require.Equal(t, 1001, sessions.Len())

	now = now.Add(45 * time.Minute)
	sessions.Get(ctx, "kept")
	now = now.Add(30 * time.Minute)

	assert.Equal(t, 1000, sessions.Sweep())
	assert.Equal(t, 1, sessions.Len())
	assert.Same(t, kept, sessions.Get(ctx, "kept"))
}

func TestSessions_SweepReleasesMemoryStorage(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	factory := MemoryStorageFactory()
	sessions := NewSessions(factory, logger.NewNop(), WithIdleTimeout(time.Minute))
	sessions.now = func() time.Time { return now }

	sessions.Get(ctx, "a").Dispatch(ctx, AddItem{Item: pizza()})
	now = now.Add(2 * time.Minute)
	require.Equal(t, 1, sessions.Sweep())

	// the expired cart is gone together with its storage
	assert.True(t, sessions.Get(ctx, "a").State().IsEmpty())
	_, err := factory("a").Load(ctx, StorageKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessions_SweepKeepsDurableRecord(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	durable := NewMemoryStorage()
	sessions := NewSessions(func(string) Storage { return durable }, logger.NewNop(), WithIdleTimeout(time.Minute))
	sessions.now = func() time.Time { return now }

	sessions.Get(ctx, "a").Dispatch(ctx, AddItem{Item: pizza()})
	now = now.Add(2 * time.Minute)
	require.Equal(t, 1, sessions.Sweep())
	assert.Equal(t, 1, sessions.Get(ctx, "a").State().Count)
}

// slowStorage blocks Load until release is closed.
type slowStorage struct {
	*MemoryStorage
	release chan struct{}
}

func (s slowStorage) Load(ctx context.Context, key string) ([]byte, error) {
	<-s.release
	return s.MemoryStorage.Load(ctx, key)
}

func TestSessions_RestoreDoesNotBlockOtherSessions(t *testing.T) {
	ctx := context.Background()
	slow := slowStorage{MemoryStorage: NewMemoryStorage(), release: make(chan struct{})}
	sessions := NewSessions(func(id string) Storage {
		if id == "slow" {
			return slow
		}
		return NewMemoryStorage()
	}, logger.NewNop())

	done := make(chan *Store)
	go func() { done <- sessions.Get(ctx, "slow") }()

	fast := make(chan struct{})
	go func() {
		sessions.Get(ctx, "fast")
		close(fast)
	}()
	select {
	case <-fast:
	case <-time.After(2 * time.Second):
		t.Fatal("Get for a restored session waited on another session's restore")
	}

	close(slow.release)
	st := <-done
	assert.Same(t, st, sessions.Get(ctx, "slow"))
}

func TestStore_CheckoutClearsOnSuccess(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, NewMemoryStorage(), logger.NewNop())
	store.Dispatch(ctx, AddItem{Item: pizza()})

	var placed State
	require.NoError(t, store.Checkout(ctx, func(s State) error {
		placed = s
		return nil
	}))
	assert.Equal(t, 1, placed.Count)
	assert.True(t, store.State().IsEmpty())
}

func TestStore_CheckoutKeepsCartOnFailure(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, NewMemoryStorage(), logger.NewNop())
	store.Dispatch(ctx, AddItem{Item: pizza()})

	boom := errors.New("db down")
	err := store.Checkout(ctx, func(State) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, store.State().Count)
}

func TestStore_CheckoutHoldsConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, NewMemoryStorage(), logger.NewNop())
	store.Dispatch(ctx, AddItem{Item: pizza()})

	placing := make(chan struct{})
	release := make(chan struct{})
	checkedOut := make(chan error)
	go func() {
		checkedOut <- store.Checkout(ctx, func(State) error {
			close(placing)
			<-release
			return nil
		})
	}()
	<-placing

	added := make(chan struct{})
	go func() {
		store.Dispatch(ctx, AddItem{Item: Item{ID: "item-9", Name: "Tiramisu", UnitPrice: decimal.RequireFromString("8.99")}})
		close(added)
	}()
	second := make(chan int, 1)
	go func() {
		_ = store.Checkout(ctx, func(s State) error {
			second <- s.Count
			return errors.New("stop")
		})
	}()

	close(release)
	require.NoError(t, <-checkedOut)
	<-added

	// the item added while the order was placed survives the clear
	got := store.State()
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "item-9", got.Lines[0].ID)
	assert.LessOrEqual(t, <-second, 1)
}
