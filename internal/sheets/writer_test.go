package sheets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/shop-diary/internal/model"
	"github.com/Veraticus/shop-diary/internal/storage"
	"github.com/Veraticus/shop-diary/internal/testutil"
	"github.com/Veraticus/shop-diary/internal/testutil/pantry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func ptr[T any](v T) *T {
	return &v
}

var (
	day1 = time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	day2 = time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)

	exportItems = []model.Item{
		{ID: "item_1", Name: "Sugar", Unit: "kg", LastPrice: ptr(45.0), LastPurchasedDate: &day2},
		{ID: "item_2", Name: "Salt", Unit: "pkt"},
	}
	exportShops = []model.Shop{{ID: "shop_1", Name: "Siva Traders"}}
	exportTxns  = []model.Transaction{
		{ID: "t1", ItemID: "item_1", ShopID: "shop_1", Date: day1, PricePerUnit: 40, Quantity: 1, TotalCost: 40, Unit: "kg", PriceTrend: model.TrendStable},
		{ID: "t2", ItemID: "item_1", Date: day2, PricePerUnit: 45, Quantity: 2, TotalCost: 90, Unit: "kg", PriceTrend: model.TrendIncrease},
	}
)

func TestBuildTabData(t *testing.T) {
	data := BuildTabData(exportItems, exportShops, exportTxns, day2)

	require.Len(t, data.Purchases, 2)
	assert.True(t, data.Purchases[0].Date.Equal(day2), "newest first")
	assert.Empty(t, data.Purchases[0].Shop)
	assert.Equal(t, "Siva Traders", data.Purchases[1].Shop)
	assert.Equal(t, "130", data.TotalSpent.String())

	require.Len(t, data.Items, 2)
	assert.Equal(t, "Sugar", data.Items[0].Name)
	assert.True(t, data.Items[0].LastPrice.Valid)
	assert.Equal(t, model.TrendIncrease, data.Items[0].Trend)
	assert.Equal(t, 2, data.Items[0].Purchases)
	assert.False(t, data.Items[1].LastPrice.Valid)
	assert.Equal(t, model.TrendStable, data.Items[1].Trend)
}

func TestPurchaseValues(t *testing.T) {
	values := purchaseValues(BuildTabData(exportItems, exportShops, exportTxns, day2))

	require.Len(t, values, 5, "header, two rows, blank, total")
	assert.Equal(t, []any{"Date", "Item", "Shop", "Price", "Quantity", "Unit", "Total", "Trend"}, values[0])
	assert.Equal(t, []any{"2024-04-02", "Sugar", "", 45.0, 2.0, "kg", 90.0, "increase"}, values[1])
	assert.Equal(t, "Total spent", values[4][0])
	assert.Equal(t, 130.0, values[4][6])
}

func TestItemValues(t *testing.T) {
	values := itemValues(BuildTabData(exportItems, exportShops, exportTxns, day2))

	require.Len(t, values, 3)
	assert.Equal(t, []any{"Sugar", "kg", 45.0, "2024-04-02", 2, "increase"}, values[1])
	assert.Equal(t, []any{"Salt", "pkt", "", "", 0, "stable"}, values[2])
}

func TestMissingTabs(t *testing.T) {
	assert.Equal(t, []string{PurchasesTab, ItemsTab}, missingTabs(map[string]int64{"Sheet1": 0}))
	assert.Equal(t, []string{ItemsTab}, missingTabs(map[string]int64{PurchasesTab: 3}))
	assert.Empty(t, missingTabs(map[string]int64{PurchasesTab: 0, ItemsTab: 1}))
}

func TestFormatTab(t *testing.T) {
	requests := formatTab(7, 8, []int64{3, 6})
	require.Len(t, requests, 5)
	for _, r := range requests[3:] {
		require.NotNil(t, r.RepeatCell)
		assert.Equal(t, int64(7), r.RepeatCell.Range.SheetId)
		assert.Equal(t, currencyFormat, r.RepeatCell.Cell.UserEnteredFormat.NumberFormat.Pattern)
	}
}

func TestExport(t *testing.T) {
	store := storage.NewMockStorage()
	store.Seed(exportItems, exportShops, exportTxns)
	writer := NewMockWriter()

	data, err := Export(context.Background(), store, writer, day2)
	require.NoError(t, err)
	assert.Len(t, data.Purchases, 2)

	written, ok := writer.LastWrite()
	require.True(t, ok)
	assert.Len(t, written.Items, 2)

	boom := errors.New("quota exceeded")
	writer.SetWriteError(boom)
	_, err = Export(context.Background(), store, writer, day2)
	assert.ErrorIs(t, err, boom)
}

func TestCallbackHandler(t *testing.T) {
	codes := make(chan string, 1)
	errs := make(chan error, 1)
	handler := callbackHandler("state-1", codes, errs)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/callback?code=abc&state=state-1", nil))
	assert.Contains(t, rec.Body.String(), "Authentication Successful")
	assert.Equal(t, "abc", <-codes)

	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/callback?code=abc&state=forged", nil))
	assert.Contains(t, rec.Body.String(), "Authentication Failed")
	assert.Error(t, <-errs)
}

func TestTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	token := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}

	require.NoError(t, SaveToken(path, token))
	loaded, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "refresh", loaded.RefreshToken)

	_, err = LoadToken(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestExport_SQLite(t *testing.T) {
	db := testutil.SetupTestDB(t, func(b pantry.Builder) pantry.Builder {
		return b.WithBasicPantry()
	})
	ctx := context.Background()
	rice := db.MustItem(pantry.ItemRice)
	_, err := db.Storage.CreateTransaction(ctx, &model.Transaction{
		ID: "txn_1", ItemID: rice.ID, ShopID: db.MustShop(pantry.ShopSiva).ID, Date: day1,
		PricePerUnit: 62, Quantity: 2, TotalCost: 124, Unit: "kg", PriceTrend: model.TrendStable,
	})
	require.NoError(t, err)

	writer := NewMockWriter()
	data, err := Export(ctx, db.Storage, writer, day2)
	require.NoError(t, err)

	require.Len(t, data.Purchases, 1)
	assert.Equal(t, "Rice", data.Purchases[0].Item)
	assert.Equal(t, "Siva Traders", data.Purchases[0].Shop)
	assert.Len(t, data.Items, 3)
	assert.Len(t, writer.Writes, 1)
}
