package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := Reduce(Empty(), AddItem{Item: Item{ID: "x", Name: "Pizza", UnitPrice: decimal.RequireFromString("18.99"), ImageURL: "/pizza.png"}})
	s = Reduce(s, AddItem{Item: Item{ID: "y", Name: "Tiramisu", UnitPrice: decimal.RequireFromString("8.99")}})
	s = Reduce(s, UpdateQuantity{ID: "x", Quantity: 3})
	s = Reduce(s, ToggleCart{})

	b, err := Encode(s)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "isOpen")
	assert.JSONEq(t, `{
		"items": [
			{"id":"x","name":"Pizza","price":18.99,"quantity":3,"image_url":"/pizza.png"},
			{"id":"y","name":"Tiramisu","price":8.99,"quantity":1}
		],
		"total": 65.96,
		"itemCount": 4
	}`, string(b))

	got, ok := Decode(b)
	require.True(t, ok)
	require.Len(t, got.Lines, 2)
	for i := range s.Lines {
		assert.Equal(t, s.Lines[i].ID, got.Lines[i].ID)
		assert.Equal(t, s.Lines[i].Name, got.Lines[i].Name)
		assert.Equal(t, s.Lines[i].Quantity, got.Lines[i].Quantity)
		assert.Equal(t, s.Lines[i].ImageURL, got.Lines[i].ImageURL)
		assert.True(t, s.Lines[i].UnitPrice.Equal(got.Lines[i].UnitPrice))
	}
	assert.True(t, s.Total.Equal(got.Total))
	assert.Equal(t, s.Count, got.Count)
	assert.False(t, got.DrawerOpen)
}

func TestDecode_RejectsMalformedShapes(t *testing.T) {
	for name, body := range map[string]string{
		"not json":        `{{{`,
		"missing items":   `{"total": 3}`,
		"null items":      `{"items": null}`,
		"items not array": `{"items": "pizza"}`,
		"array root":      `[1,2,3]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, ok := Decode([]byte(body))
			assert.False(t, ok)
		})
	}
}

func TestDecode_RecomputesDerivedFields(t *testing.T) {
	got, ok := Decode([]byte(`{"items":[
		{"id":"x","name":"Pizza","price":10,"quantity":2},
		{"id":"","name":"ghost","price":5,"quantity":1},
		{"id":"z","name":"Zero","price":5,"quantity":0},
		{"id":"x","name":"Pizza","price":10,"quantity":1}
	],"total":9999,"itemCount":42}`))
	require.True(t, ok)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 3, got.Lines[0].Quantity)
	assert.Equal(t, "30", got.Total.String())
	assert.Equal(t, 3, got.Count)
}

func TestRestore_DiscardsCorruptRecord(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStorage()
	require.NoError(t, st.Save(ctx, StorageKey, []byte("not-json")))

	s := Restore(ctx, st)
	assert.True(t, s.IsEmpty())

	_, err := st.Load(ctx, StorageKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRestore_MissingRecord(t *testing.T) {
	s := Restore(context.Background(), NewMemoryStorage())
	assert.True(t, s.IsEmpty())
	assert.True(t, s.Total.IsZero())
}

type failingStorage struct {
	deleted bool
}

func (f *failingStorage) Load(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}
func (f *failingStorage) Save(context.Context, string, []byte) error { return errors.New("disk on fire") }
func (f *failingStorage) Delete(context.Context, string) error {
	f.deleted = true
	return nil
}

func TestRestore_ReadFailureTreatedAsEmpty(t *testing.T) {
	st := &failingStorage{}
	s := Restore(context.Background(), st)
	assert.True(t, s.IsEmpty())
	assert.True(t, st.deleted)
}
