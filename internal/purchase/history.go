package purchase

import (
	"context"
	"strings"

	"github.com/Veraticus/shop-diary/internal/model"
)

// HistoryWindow is how many recent transactions feed the history view.
const HistoryWindow = 100

// ItemSummary is one row of the item history view.
type ItemSummary struct {
	Item      model.Item       `json:"item"`
	Trend     model.PriceTrend `json:"trend"`
	Purchases int              `json:"purchases"`
}

// Summarize builds the history rows for items whose name contains search,
// ignoring case. An empty search keeps every item. transactions must be
// newest first; an item's trend is its latest stored trend once it has
// been bought more than once within them, otherwise stable.
func Summarize(items []model.Item, transactions []model.Transaction, search string) []ItemSummary {
	type seen struct {
		latest model.PriceTrend
		count  int
	}
	byItem := make(map[string]*seen)
	for _, txn := range transactions {
		s, ok := byItem[txn.ItemID]
		if !ok {
			s = &seen{latest: txn.PriceTrend}
			byItem[txn.ItemID] = s
		}
		s.count++
	}

	needle := strings.ToLower(search)
	summaries := make([]ItemSummary, 0, len(items))
	for _, item := range items {
		if needle != "" && !strings.Contains(strings.ToLower(item.Name), needle) {
			continue
		}

		summary := ItemSummary{Item: item, Trend: model.TrendStable}
		if s, ok := byItem[item.ID]; ok {
			summary.Purchases = s.count
			if s.count > 1 {
				summary.Trend = s.latest
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// History summarizes item prices over the last HistoryWindow transactions.
func (c *Catalog) History(ctx context.Context, search string) ([]ItemSummary, error) {
	items, err := c.Items(ctx)
	if err != nil {
		return nil, err
	}
	txns, err := c.RecentTransactions(ctx, HistoryWindow)
	if err != nil {
		return nil, err
	}
	return Summarize(items, txns, search), nil
}
