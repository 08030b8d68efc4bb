package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
)

// StorageKey is the durable-storage key the cart lives under.
const StorageKey = "cart"

var ErrNotFound = errors.New("storage key not found")

// Storage is durable key/value storage scoped to one browser session.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// MemoryStorage keeps values in process memory.
type MemoryStorage struct {
	mu      sync.RWMutex
	data    map[string][]byte
	release func()
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

// Release drops the storage from the factory that created it.
func (m *MemoryStorage) Release() {
	if m.release != nil {
		m.release()
	}
}

func (m *MemoryStorage) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemoryStorage) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// record is the persisted shape: {items, total, itemCount}. isOpen is never stored.
type record struct {
	Items     *[]lineRecord `json:"items"`
	Total     float64       `json:"total"`
	ItemCount int           `json:"itemCount"`
}

type lineRecord struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	ImageURL string  `json:"image_url,omitempty"`
}

// Encode serialises the persisted part of state.
func Encode(state State) ([]byte, error) {
	items := make([]lineRecord, 0, len(state.Lines))
	for _, l := range state.Lines {
		items = append(items, lineRecord{
			ID:       l.ID,
			Name:     l.Name,
			Price:    l.UnitPrice.InexactFloat64(),
			Quantity: l.Quantity,
			ImageURL: l.ImageURL,
		})
	}
	return json.Marshal(record{
		Items:     &items,
		Total:     state.Total.InexactFloat64(),
		ItemCount: state.Count,
	})
}

// Decode parses a persisted record. It reports false when the record does
// not have an array under "items". Total and count are recomputed from the
// lines; lines without an id or with a non-positive quantity are dropped
// and repeated ids are merged.
func Decode(b []byte) (State, bool) {
	var rec record
	if err := json.Unmarshal(b, &rec); err != nil || rec.Items == nil {
		return Empty(), false
	}
	lines := make([]Line, 0, len(*rec.Items))
	for _, r := range *rec.Items {
		if r.ID == "" || r.Quantity <= 0 {
			continue
		}
		if i := indexOf(lines, r.ID); i >= 0 {
			lines[i].Quantity += r.Quantity
			continue
		}
		lines = append(lines, Line{
			ID:        r.ID,
			Name:      r.Name,
			UnitPrice: decimal.NewFromFloat(r.Price),
			Quantity:  r.Quantity,
			ImageURL:  r.ImageURL,
		})
	}
	return withLines(Empty(), lines), true
}

// Restore loads the cart from storage. A missing, unreadable or malformed
// record yields the empty cart; anything unusable is deleted.
func Restore(ctx context.Context, storage Storage) State {
	if storage == nil {
		return Empty()
	}
	b, err := storage.Load(ctx, StorageKey)
	if errors.Is(err, ErrNotFound) {
		return Empty()
	}
	if err == nil {
		if state, ok := Decode(b); ok {
			return state
		}
	}
	_ = storage.Delete(ctx, StorageKey)
	return Empty()
}
