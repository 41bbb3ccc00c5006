package sheets

import (
	"sort"
	"time"

	"github.com/Veraticus/shop-diary/internal/model"
	"github.com/Veraticus/shop-diary/internal/purchase"
	"github.com/shopspring/decimal"
)

// Tab names.
const (
	PurchasesTab = "Purchases"
	ItemsTab     = "Items"
)

// PurchaseRow represents a single row in the Purchases tab.
type PurchaseRow struct {
	Date     time.Time
	Price    decimal.Decimal
	Quantity decimal.Decimal
	Total    decimal.Decimal
	Item     string
	Shop     string
	Unit     string
	Trend    model.PriceTrend
}

// ItemRow represents a single row in the Items tab.
type ItemRow struct {
	LastPurchased *time.Time
	LastPrice     decimal.NullDecimal
	Name          string
	Unit          string
	Trend         model.PriceTrend
	Purchases     int
}

// TabData holds all the data for the complete spreadsheet export.
type TabData struct {
	GeneratedAt time.Time
	TotalSpent  decimal.Decimal
	Purchases   []PurchaseRow
	Items       []ItemRow
}

// BuildTabData turns diary records into export rows. Purchases are sorted
// newest first.
func BuildTabData(items []model.Item, shops []model.Shop, txns []model.Transaction, now time.Time) TabData {
	itemNames := purchase.ItemNames(items)
	shopNames := purchase.ShopNames(shops)

	sorted := make([]model.Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	data := TabData{
		GeneratedAt: now,
		Purchases:   make([]PurchaseRow, 0, len(sorted)),
	}
	for _, txn := range sorted {
		total := decimal.NewFromFloat(txn.TotalCost)
		data.TotalSpent = data.TotalSpent.Add(total)
		data.Purchases = append(data.Purchases, PurchaseRow{
			Date:     txn.Date,
			Item:     itemNames[txn.ItemID],
			Shop:     shopNames[txn.ShopID],
			Price:    decimal.NewFromFloat(txn.PricePerUnit),
			Quantity: decimal.NewFromFloat(txn.Quantity),
			Total:    total,
			Unit:     txn.Unit,
			Trend:    txn.PriceTrend,
		})
	}

	for _, summary := range purchase.Summarize(items, sorted, "") {
		row := ItemRow{
			Name:          summary.Item.Name,
			Unit:          summary.Item.Unit,
			LastPurchased: summary.Item.LastPurchasedDate,
			Trend:         summary.Trend,
			Purchases:     summary.Purchases,
		}
		if summary.Item.HasPriceHistory() {
			row.LastPrice = decimal.NewNullDecimal(decimal.NewFromFloat(*summary.Item.LastPrice))
		}
		data.Items = append(data.Items, row)
	}

	return data
}
