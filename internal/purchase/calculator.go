package purchase

import (
	"strings"

	"github.com/Veraticus/shop-diary/internal/model"
	"github.com/shopspring/decimal"
)

// TotalCost returns price × quantity rounded to two decimal places.
func TotalCost(price, quantity float64) float64 {
	total := decimal.NewFromFloat(price).Mul(decimal.NewFromFloat(quantity))
	return total.Round(2).InexactFloat64()
}

// FormatAmount renders an amount with two decimal places.
func FormatAmount(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}

// ParseNumber parses a user-entered decimal. Blank text yields nil.
func ParseNumber(text string) (*float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return nil, err
	}
	v := d.InexactFloat64()
	return &v, nil
}

// ParseAmount parses text for live display. Blank or non-numeric text
// counts as zero.
func ParseAmount(text string) float64 {
	v, err := ParseNumber(text)
	if err != nil || v == nil {
		return 0
	}
	return *v
}

// PriceDiff returns price minus lastPrice. ok is false when there is no
// previous price; a zero last price counts as none.
func PriceDiff(price float64, lastPrice *float64) (diff float64, ok bool) {
	if lastPrice == nil || *lastPrice == 0 {
		return 0, false
	}
	d := decimal.NewFromFloat(price).Sub(decimal.NewFromFloat(*lastPrice))
	return d.InexactFloat64(), true
}

// ClassifyTrend maps a price difference to a trend. A missing difference
// and a zero difference are both stable.
func ClassifyTrend(diff float64, ok bool) model.PriceTrend {
	switch {
	case !ok || diff == 0:
		return model.TrendStable
	case diff > 0:
		return model.TrendIncrease
	default:
		return model.TrendDecrease
	}
}

// Trend classifies price against the previous price.
func Trend(price float64, lastPrice *float64) model.PriceTrend {
	return ClassifyTrend(PriceDiff(price, lastPrice))
}
