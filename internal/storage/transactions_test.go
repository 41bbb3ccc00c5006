package storage

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/Veraticus/shop-diary/internal/model"
	"github.com/Veraticus/shop-diary/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTransaction(id, itemID string, date time.Time) *model.Transaction {
	return &model.Transaction{
		ID:           id,
		Date:         date,
		ItemID:       itemID,
		PricePerUnit: 42.5,
		Quantity:     2,
		TotalCost:    85,
		Unit:         "kg",
		PriceTrend:   model.TrendStable,
	}
}

func TestSQLiteStorage_CreateTransaction(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	seedItem(t, store, "item_1", "Sugar", 40, at)
	_, err := store.CreateShop(ctx, &model.Shop{ID: "shop_1", Name: "Siva Traders"})
	require.NoError(t, err)

	withShop := testTransaction("txn_1", "item_1", at)
	withShop.ShopID = "shop_1"
	withShop.PriceTrend = model.TrendIncrease
	_, err = store.CreateTransaction(ctx, withShop)
	require.NoError(t, err)

	_, err = store.CreateTransaction(ctx, testTransaction("txn_2", "item_1", at.Add(time.Hour)))
	require.NoError(t, err)

	txns, err := store.ListTransactions(ctx, service.ListOptions{})
	require.NoError(t, err)
	require.Len(t, txns, 2)

	first := txns[0]
	assert.Equal(t, "txn_1", first.ID)
	assert.Equal(t, "item_1", first.ItemID)
	assert.Equal(t, "shop_1", first.ShopID)
	assert.True(t, first.HasShop())
	assert.Equal(t, model.TrendIncrease, first.PriceTrend)
	assert.InDelta(t, 42.5, first.PricePerUnit, 1e-9)
	assert.InDelta(t, 2.0, first.Quantity, 1e-9)
	assert.InDelta(t, 85.0, first.TotalCost, 1e-9)
	assert.True(t, at.Equal(first.Date))

	assert.Empty(t, txns[1].ShopID, "blank shop stored as NULL")
	assert.False(t, txns[1].HasShop())
}

func TestSQLiteStorage_CreateTransactionValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	at := time.Now()

	tests := []struct {
		mutate func(*model.Transaction)
		name   string
	}{
		{name: "missing id", mutate: func(txn *model.Transaction) { txn.ID = "" }},
		{name: "missing date", mutate: func(txn *model.Transaction) { txn.Date = time.Time{} }},
		{name: "missing item", mutate: func(txn *model.Transaction) { txn.ItemID = "" }},
		{name: "zero quantity", mutate: func(txn *model.Transaction) { txn.Quantity = 0 }},
		{name: "negative price", mutate: func(txn *model.Transaction) { txn.PricePerUnit = -3 }},
		{name: "unknown trend", mutate: func(txn *model.Transaction) { txn.PriceTrend = "sideways" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := testTransaction("txn_x", "item_1", at)
			tt.mutate(txn)
			_, err := store.CreateTransaction(ctx, txn)
			assert.ErrorIs(t, err, ErrInvalidTransaction)
		})
	}
}

func TestSQLiteStorage_CreateTransactionUnknownItem(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.CreateTransaction(context.Background(), testTransaction("txn_1", "item_ghost", time.Now()))
	assert.Error(t, err, "foreign key on item_id")
}

func TestSQLiteStorage_ListTransactionsSorted(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	seedItem(t, store, "item_1", "Milk", 30, base)
	for i, offset := range []time.Duration{2 * time.Hour, 0, time.Hour} {
		id := []string{"txn_late", "txn_early", "txn_mid"}[i]
		_, err := store.CreateTransaction(ctx, testTransaction(id, "item_1", base.Add(offset)))
		require.NoError(t, err)
	}

	desc, err := store.ListTransactions(ctx, service.ByDateDesc(0))
	require.NoError(t, err)
	assert.Equal(t, []string{"txn_late", "txn_mid", "txn_early"}, transactionIDs(desc))

	asc, err := store.ListTransactions(ctx, service.ListOptions{Sort: &service.Sort{Field: "date", Order: service.SortAsc}})
	require.NoError(t, err)
	assert.Equal(t, []string{"txn_early", "txn_mid", "txn_late"}, transactionIDs(asc))

	limited, err := store.ListTransactions(ctx, service.ByDateDesc(2))
	require.NoError(t, err)
	assert.Equal(t, []string{"txn_late", "txn_mid"}, transactionIDs(limited))

	_, err = store.ListTransactions(ctx, service.ListOptions{Sort: &service.Sort{Field: "date", Order: "sideways"}})
	assert.ErrorIs(t, err, ErrInvalidListOptions)
}

func TestTransactionsAreImmutable(t *testing.T) {
	sqlite, cleanup := createTestStorage(t)
	defer cleanup()

	for name, store := range map[string]any{
		"sqlite": sqlite,
		"mock":   NewMockStorage(),
	} {
		t.Run(name, func(t *testing.T) {
			_, ok := reflect.TypeOf(store).MethodByName("UpdateTransaction")
			assert.False(t, ok, "stored purchases cannot be rewritten")
		})
	}
}

func transactionIDs(txns []model.Transaction) []string {
	ids := make([]string, len(txns))
	for i, txn := range txns {
		ids[i] = txn.ID
	}
	return ids
}
