package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/shop-diary/internal/common"
	"github.com/Veraticus/shop-diary/internal/model"
	"github.com/Veraticus/shop-diary/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStorage_CreateItem(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	created, err := store.CreateItem(ctx, &model.Item{
		ID:                "item_1",
		Name:              "Sugar",
		LastPrice:         ptr(40.0),
		LastPurchasedDate: ptr(at),
	})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultUnit, created.Unit, "blank unit defaults to kg")

	items, err := store.ListItems(ctx, service.ListOptions{})
	require.NoError(t, err)
	require.Len(t, items, 1)

	got := items[0]
	assert.Equal(t, "item_1", got.ID)
	assert.Equal(t, "Sugar", got.Name)
	assert.Equal(t, "kg", got.Unit)
	require.NotNil(t, got.LastPrice)
	assert.InDelta(t, 40.0, *got.LastPrice, 1e-9)
	require.NotNil(t, got.LastPurchasedDate)
	assert.True(t, at.Equal(*got.LastPurchasedDate))

	_, err = store.CreateItem(ctx, &model.Item{ID: "item_1", Name: "Sugar again"})
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)
}

func TestSQLiteStorage_CreateItemValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		item    *model.Item
		wantErr error
		name    string
	}{
		{name: "nil item", item: nil, wantErr: ErrNilParameter},
		{name: "missing id", item: &model.Item{Name: "Rice"}, wantErr: ErrInvalidItem},
		{name: "blank name", item: &model.Item{ID: "item_x", Name: "   "}, wantErr: ErrInvalidItem},
		{name: "negative price", item: &model.Item{ID: "item_x", Name: "Rice", LastPrice: ptr(-1.0)}, wantErr: ErrInvalidItem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.CreateItem(ctx, tt.item)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSQLiteStorage_ItemWithoutHistory(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.CreateItem(ctx, &model.Item{ID: "item_1", Name: "Salt", Unit: "pkt"})
	require.NoError(t, err)

	items, err := store.ListItems(ctx, service.ListOptions{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].LastPrice)
	assert.Nil(t, items[0].LastPurchasedDate)
	assert.False(t, items[0].HasPriceHistory())
}

func TestSQLiteStorage_UpdateItem(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	seedItem(t, store, "item_1", "Sugar", 40, first)

	second := first.Add(48 * time.Hour)
	updated, err := store.UpdateItem(ctx, "item_1", model.ItemUpdate{
		LastPrice:         ptr(45.0),
		LastPurchasedDate: ptr(second),
	})
	require.NoError(t, err)
	assert.Equal(t, "Sugar", updated.Name)
	assert.Equal(t, "kg", updated.Unit, "unit untouched")
	assert.InDelta(t, 45.0, *updated.LastPrice, 1e-9)
	assert.True(t, second.Equal(*updated.LastPurchasedDate))

	// Empty update returns the current record
	same, err := store.UpdateItem(ctx, "item_1", model.ItemUpdate{})
	require.NoError(t, err)
	assert.InDelta(t, 45.0, *same.LastPrice, 1e-9)

	_, err = store.UpdateItem(ctx, "item_missing", model.ItemUpdate{LastPrice: ptr(1.0)})
	assert.True(t, errors.Is(err, common.ErrNotFound))

	_, err = store.UpdateItem(ctx, "", model.ItemUpdate{})
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestSQLiteStorage_GetItem(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	at := time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC)
	seedItem(t, store, "item_rice", "Rice", 40, at)

	item, err := store.GetItem(ctx, "item_rice")
	require.NoError(t, err)
	assert.Equal(t, "Rice", item.Name)
	assert.InDelta(t, 40.0, *item.LastPrice, 1e-9)
	assert.True(t, at.Equal(*item.LastPurchasedDate))

	_, err = store.GetItem(ctx, "item_nope")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = store.GetItem(ctx, " ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestSQLiteStorage_ListItems(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	seedItem(t, store, "item_b", "brown sugar", 60, base.Add(2*time.Hour))
	seedItem(t, store, "item_a", "Atta", 50, base)
	seedItem(t, store, "item_c", "Curd", 30, base.Add(time.Hour))

	t.Run("natural order is by name ignoring case", func(t *testing.T) {
		items, err := store.ListItems(ctx, service.ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{"Atta", "brown sugar", "Curd"}, itemNames(items))
	})

	t.Run("date sort uses last purchase", func(t *testing.T) {
		items, err := store.ListItems(ctx, service.ByDateDesc(0))
		require.NoError(t, err)
		assert.Equal(t, []string{"brown sugar", "Curd", "Atta"}, itemNames(items))
	})

	t.Run("limit", func(t *testing.T) {
		items, err := store.ListItems(ctx, service.ListOptions{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("rejects unknown sort field", func(t *testing.T) {
		_, err := store.ListItems(ctx, service.ListOptions{Sort: &service.Sort{Field: "price"}})
		assert.ErrorIs(t, err, ErrInvalidListOptions)
	})

	t.Run("rejects negative limit", func(t *testing.T) {
		_, err := store.ListItems(ctx, service.ListOptions{Limit: -1})
		assert.ErrorIs(t, err, ErrInvalidListOptions)
	})
}

func itemNames(items []model.Item) []string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names
}
