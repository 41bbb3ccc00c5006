package storage

import (
	"context"
	"testing"

	"github.com/Veraticus/shop-diary/internal/common"
	"github.com/Veraticus/shop-diary/internal/model"
	"github.com/Veraticus/shop-diary/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStorage_Shops(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	for _, shop := range []model.Shop{
		{ID: "shop_2", Name: "siva traders"},
		{ID: "shop_1", Name: "Anand Stores"},
	} {
		_, err := store.CreateShop(ctx, &shop)
		require.NoError(t, err)
	}

	shops, err := store.ListShops(ctx, service.ListOptions{})
	require.NoError(t, err)
	require.Len(t, shops, 2)
	assert.Equal(t, "Anand Stores", shops[0].Name)
	assert.Equal(t, "siva traders", shops[1].Name)

	renamed, err := store.UpdateShop(ctx, "shop_2", model.ShopUpdate{Name: ptr("Siva Traders")})
	require.NoError(t, err)
	assert.Equal(t, "Siva Traders", renamed.Name)

	_, err = store.UpdateShop(ctx, "shop_9", model.ShopUpdate{Name: ptr("Nowhere")})
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = store.UpdateShop(ctx, "shop_2", model.ShopUpdate{Name: ptr(" ")})
	assert.ErrorIs(t, err, ErrInvalidShop)
}

func TestSQLiteStorage_ShopsRejectDateSort(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.ListShops(context.Background(), service.ByDateDesc(5))
	assert.ErrorIs(t, err, ErrInvalidListOptions)
}

func TestSQLiteStorage_CreateShopValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.CreateShop(ctx, nil)
	assert.ErrorIs(t, err, ErrNilParameter)

	_, err = store.CreateShop(ctx, &model.Shop{Name: "No ID"})
	assert.ErrorIs(t, err, ErrInvalidShop)

	_, err = store.CreateShop(ctx, &model.Shop{ID: "shop_1"})
	assert.ErrorIs(t, err, ErrInvalidShop)
}
