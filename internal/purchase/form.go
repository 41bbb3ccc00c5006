package purchase

import (
	"time"

	"github.com/Veraticus/shop-diary/internal/common"
	"github.com/Veraticus/shop-diary/internal/model"
)

// DefaultQuantity is the quantity an empty form starts with.
const DefaultQuantity = "1"

// Form holds the state of the purchase entry form. Selecting a suggestion
// binds the form to that record; editing the text afterwards unbinds it.
type Form struct {
	item         *model.Item
	shop         *model.Shop
	itemText     string
	priceText    string
	quantityText string
	unit         string
	shopText     string
}

// NewForm returns an empty form.
func NewForm() *Form {
	f := &Form{}
	f.Reset()
	return f
}

// Reset clears the form back to its defaults.
func (f *Form) Reset() {
	*f = Form{
		quantityText: DefaultQuantity,
		unit:         model.DefaultUnit,
	}
}

func (f *Form) ItemText() string     { return f.itemText }
func (f *Form) ShopText() string     { return f.shopText }
func (f *Form) PriceText() string    { return f.priceText }
func (f *Form) QuantityText() string { return f.quantityText }
func (f *Form) Unit() string         { return f.unit }

// SelectedItem returns the bound item, or nil.
func (f *Form) SelectedItem() *model.Item { return f.item }

// SelectedShop returns the bound shop, or nil.
func (f *Form) SelectedShop() *model.Shop { return f.shop }

// SetItemText replaces the item text and drops any bound item.
func (f *Form) SetItemText(text string) {
	f.itemText = text
	f.item = nil
}

// SetShopText replaces the shop text and drops any bound shop.
func (f *Form) SetShopText(text string) {
	f.shopText = text
	f.shop = nil
}

func (f *Form) SetPriceText(text string)    { f.priceText = text }
func (f *Form) SetQuantityText(text string) { f.quantityText = text }
func (f *Form) SetUnit(unit string)         { f.unit = unit }

// SelectItem binds the form to item and takes over its name and unit.
func (f *Form) SelectItem(item model.Item) {
	f.item = &item
	f.itemText = item.Name
	f.unit = model.UnitOrDefault(item.Unit)
}

// SelectShop binds the form to shop.
func (f *Form) SelectShop(shop model.Shop) {
	f.shop = &shop
	f.shopText = shop.Name
}

// ItemSuggestions lists items matching the item text. Nothing is suggested
// once an item is bound.
func (f *Form) ItemSuggestions(items []model.Item) []model.Item {
	if f.item != nil {
		return nil
	}
	return MatchItems(f.itemText, items)
}

// ShopSuggestions lists shops matching the shop text.
func (f *Form) ShopSuggestions(shops []model.Shop) []model.Shop {
	if f.shop != nil {
		return nil
	}
	return MatchShops(f.shopText, shops)
}

// TotalCost is the live total. Unparseable input counts as zero.
func (f *Form) TotalCost() float64 {
	return TotalCost(ParseAmount(f.priceText), ParseAmount(f.quantityText))
}

// PriceDiff compares the entered price with the bound item's last price.
// ok is false when no item is bound, the price is not a number, or the
// item has no price history.
func (f *Form) PriceDiff() (diff float64, ok bool) {
	if f.item == nil {
		return 0, false
	}
	price, err := ParseNumber(f.priceText)
	if err != nil || price == nil {
		return 0, false
	}
	return PriceDiff(*price, f.item.LastPrice)
}

// Trend is the live trend shown next to the price.
func (f *Form) Trend() model.PriceTrend {
	return ClassifyTrend(f.PriceDiff())
}

// Candidate builds the commit candidate from the form. Unbound text is
// resolved against items and shops by exact name. Blank price or quantity
// is left nil for the recorder to reject; non-numeric text is rejected here.
func (f *Form) Candidate(items []model.Item, shops []model.Shop, now time.Time) (Candidate, error) {
	price, err := ParseNumber(f.priceText)
	if err != nil {
		return Candidate{}, common.NewValidationError("price", "must be a number")
	}
	quantity, err := ParseNumber(f.quantityText)
	if err != nil {
		return Candidate{}, common.NewValidationError("quantity", "must be a number")
	}

	c := Candidate{
		Date:         now,
		PricePerUnit: price,
		Quantity:     quantity,
		Unit:         f.unit,
	}

	if f.item != nil {
		c.Item = model.Known(f.item.ID, f.item.Name)
		c.LastPrice = f.item.LastPrice
	} else {
		ref, match := ResolveItem(f.itemText, items)
		c.Item = ref
		if match != nil {
			c.LastPrice = match.LastPrice
		}
	}

	if f.shop != nil {
		c.Shop = model.Known(f.shop.ID, f.shop.Name)
	} else {
		c.Shop = ResolveShop(f.shopText, shops)
	}

	return c, nil
}
