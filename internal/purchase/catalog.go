package purchase

import (
	"context"
	"fmt"
	"slices"

	"github.com/Veraticus/shop-diary/internal/cache"
	"github.com/Veraticus/shop-diary/internal/model"
	"github.com/Veraticus/shop-diary/internal/service"
)

// DefaultRecentLimit is how many transactions a recent list shows.
const DefaultRecentLimit = 10

// Catalog serves the item, shop and transaction lists through the read
// cache. It is also the invalidator handed to the Recorder.
type Catalog struct {
	store service.DataStore
	cache *cache.Cache
}

// NewCatalog creates a catalog. A nil cache gets a fresh one without TTL.
func NewCatalog(store service.DataStore, c *cache.Cache) *Catalog {
	if c == nil {
		c = cache.New()
	}
	return &Catalog{store: store, cache: c}
}

// Items returns every item.
func (c *Catalog) Items(ctx context.Context) ([]model.Item, error) {
	items, err := cache.Fetch(ctx, c.cache, model.KindItems, "", func(ctx context.Context) ([]model.Item, error) {
		return c.store.ListItems(ctx, service.ListOptions{})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return slices.Clone(items), nil
}

// Shops returns every shop.
func (c *Catalog) Shops(ctx context.Context) ([]model.Shop, error) {
	shops, err := cache.Fetch(ctx, c.cache, model.KindShops, "", func(ctx context.Context) ([]model.Shop, error) {
		return c.store.ListShops(ctx, service.ListOptions{})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}
	return slices.Clone(shops), nil
}

// RecentTransactions returns up to limit transactions, newest first.
// A limit of zero or less uses DefaultRecentLimit.
func (c *Catalog) RecentTransactions(ctx context.Context, limit int) ([]model.Transaction, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	params := fmt.Sprintf("limit=%d", limit)
	txns, err := cache.Fetch(ctx, c.cache, model.KindTransactions, params, func(ctx context.Context) ([]model.Transaction, error) {
		return c.store.ListTransactions(ctx, service.ByDateDesc(limit))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return slices.Clone(txns), nil
}

// Invalidate drops the cached lists of kind.
func (c *Catalog) Invalidate(kind model.Kind) {
	c.cache.Invalidate(kind)
}

// ItemNames maps item ids to names for display.
func ItemNames(items []model.Item) map[string]string {
	names := make(map[string]string, len(items))
	for _, item := range items {
		names[item.ID] = item.Name
	}
	return names
}

// ShopNames maps shop ids to names for display.
func ShopNames(shops []model.Shop) map[string]string {
	names := make(map[string]string, len(shops))
	for _, shop := range shops {
		names[shop.ID] = shop.Name
	}
	return names
}
