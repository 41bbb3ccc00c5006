package purchase

import (
	"testing"
	"time"

	"github.com/Veraticus/shop-diary/internal/common"
	"github.com/Veraticus/shop-diary/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForm_Defaults(t *testing.T) {
	f := NewForm()
	assert.Equal(t, "1", f.QuantityText())
	assert.Equal(t, "kg", f.Unit())
	assert.Nil(t, f.SelectedItem())
	assert.Equal(t, "0.00", FormatAmount(f.TotalCost()))
}

func TestForm_SelectionBinding(t *testing.T) {
	f := NewForm()
	f.SetItemText("mil")
	suggestions := f.ItemSuggestions(testItems)
	require.Len(t, suggestions, 1)

	f.SelectItem(suggestions[0])
	require.NotNil(t, f.SelectedItem())
	assert.Equal(t, "Milk", f.ItemText())
	assert.Equal(t, "l", f.Unit(), "unit copied from item")
	assert.Empty(t, f.ItemSuggestions(testItems), "suggestions hidden once bound")

	f.SetItemText("Milk powder")
	assert.Nil(t, f.SelectedItem(), "editing clears the binding")

	f.SelectItem(model.Item{ID: "item_9", Name: "Loose Tea"})
	assert.Equal(t, "kg", f.Unit(), "blank unit falls back to kg")

	f.SetShopText("siva")
	shops := f.ShopSuggestions(testShops)
	require.Len(t, shops, 1)
	f.SelectShop(shops[0])
	assert.Equal(t, "Siva Traders", f.ShopText())
	f.SetShopText("Siva")
	assert.Nil(t, f.SelectedShop())
}

func TestForm_LiveValues(t *testing.T) {
	f := NewForm()
	f.SelectItem(testItems[0])
	f.SetPriceText("42.5")
	f.SetQuantityText("2")
	assert.Equal(t, "85.00", FormatAmount(f.TotalCost()))

	diff, ok := f.PriceDiff()
	assert.True(t, ok)
	assert.InDelta(t, 2.5, diff, 1e-9)
	assert.Equal(t, model.TrendIncrease, f.Trend())

	f.SetPriceText("abc")
	_, ok = f.PriceDiff()
	assert.False(t, ok)
	assert.Equal(t, model.TrendStable, f.Trend())
	assert.Equal(t, "0.00", FormatAmount(f.TotalCost()))

	f.SelectItem(testItems[1])
	f.SetPriceText("55")
	_, ok = f.PriceDiff()
	assert.False(t, ok, "item without price history")
}

func TestForm_Candidate(t *testing.T) {
	now := time.Date(2024, 2, 2, 10, 0, 0, 0, time.UTC)

	t.Run("bound item carries last price", func(t *testing.T) {
		f := NewForm()
		f.SelectItem(testItems[0])
		f.SetPriceText("45")
		c, err := f.Candidate(testItems, testShops, now)
		require.NoError(t, err)
		assert.True(t, c.Item.IsKnown())
		assert.Equal(t, "item_1", c.Item.ID)
		require.NotNil(t, c.LastPrice)
		assert.InDelta(t, 40.0, *c.LastPrice, 1e-9)
		assert.True(t, c.Shop.IsAbsent())
		assert.InDelta(t, 1.0, *c.Quantity, 1e-9)
		assert.Equal(t, now, c.Date)
	})

	t.Run("typed name resolves", func(t *testing.T) {
		f := NewForm()
		f.SetItemText("MILK")
		f.SetShopText("Corner Shop")
		f.SetPriceText("30")
		c, err := f.Candidate(testItems, testShops, now)
		require.NoError(t, err)
		assert.Equal(t, "item_3", c.Item.ID)
		assert.InDelta(t, 30.0, *c.LastPrice, 1e-9)
		assert.True(t, c.Shop.IsNew())
		assert.Equal(t, "Corner Shop", c.Shop.Name)
	})

	t.Run("blank price left for recorder", func(t *testing.T) {
		f := NewForm()
		f.SetItemText("Rice")
		c, err := f.Candidate(testItems, testShops, now)
		require.NoError(t, err)
		assert.Nil(t, c.PricePerUnit)
		assert.ErrorIs(t, Validate(c), common.ErrValidation)
	})

	t.Run("non-numeric price rejected", func(t *testing.T) {
		f := NewForm()
		f.SetItemText("Rice")
		f.SetPriceText("sixty")
		_, err := f.Candidate(testItems, testShops, now)
		var verr *common.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "price", verr.Field)
	})

	t.Run("non-numeric quantity rejected", func(t *testing.T) {
		f := NewForm()
		f.SetItemText("Rice")
		f.SetPriceText("60")
		f.SetQuantityText("a few")
		_, err := f.Candidate(testItems, testShops, now)
		assert.ErrorIs(t, err, common.ErrValidation)
	})
}

func TestForm_Reset(t *testing.T) {
	f := NewForm()
	f.SelectItem(testItems[0])
	f.SetPriceText("45")
	f.SetUnit("g")
	f.Reset()

	assert.Empty(t, f.ItemText())
	assert.Empty(t, f.PriceText())
	assert.Nil(t, f.SelectedItem())
	assert.Equal(t, "kg", f.Unit())
	assert.Equal(t, "1", f.QuantityText())
}
