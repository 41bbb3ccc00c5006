package model

import "time"

// PriceTrend classifies a purchase price against the item's previous price.
type PriceTrend string

const (
	// TrendIncrease means the price went up since the last purchase.
	TrendIncrease PriceTrend = "increase"
	// TrendDecrease means the price went down since the last purchase.
	TrendDecrease PriceTrend = "decrease"
	// TrendStable covers both an unchanged price and a first purchase.
	TrendStable PriceTrend = "stable"
)

// Valid reports whether t is one of the known trend values.
func (t PriceTrend) Valid() bool {
	switch t {
	case TrendIncrease, TrendDecrease, TrendStable:
		return true
	}
	return false
}

// Transaction is a single recorded purchase. It is immutable once stored.
type Transaction struct {
	Date         time.Time  `json:"date"`
	ID           string     `json:"id"`
	ItemID       string     `json:"itemId"`
	ShopID       string     `json:"shopId,omitempty"` // Empty when no shop was named
	Unit         string     `json:"unit"`
	PriceTrend   PriceTrend `json:"priceTrend"`
	PricePerUnit float64    `json:"pricePerUnit"`
	Quantity     float64    `json:"quantity"`
	TotalCost    float64    `json:"totalCost"`
}

// HasShop reports whether the purchase references a shop.
func (t *Transaction) HasShop() bool {
	return t.ShopID != ""
}
