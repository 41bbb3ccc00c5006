// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/shop-diary/internal/model"
)

// SortOrder is the direction of a date sort.
type SortOrder string

const (
	// SortAsc lists the oldest records first.
	SortAsc SortOrder = "asc"
	// SortDesc lists the newest records first.
	SortDesc SortOrder = "desc"
)

// SortField is the only field lists can be sorted by.
const SortField = "date"

// Sort describes how a list call orders its records.
type Sort struct {
	Field string
	Order SortOrder
}

// ListOptions controls list queries. A zero Limit means no limit and a nil
// Sort keeps the store's natural order.
type ListOptions struct {
	Sort  *Sort
	Limit int
}

// ByDateDesc returns options listing the newest records first.
func ByDateDesc(limit int) ListOptions {
	return ListOptions{Limit: limit, Sort: &Sort{Field: SortField, Order: SortDesc}}
}

// ItemStore persists items.
type ItemStore interface {
	ListItems(ctx context.Context, opts ListOptions) ([]model.Item, error)
	GetItem(ctx context.Context, id string) (*model.Item, error)
	CreateItem(ctx context.Context, item *model.Item) (*model.Item, error)
	UpdateItem(ctx context.Context, id string, update model.ItemUpdate) (*model.Item, error)
}

// ShopStore persists shops.
type ShopStore interface {
	ListShops(ctx context.Context, opts ListOptions) ([]model.Shop, error)
	CreateShop(ctx context.Context, shop *model.Shop) (*model.Shop, error)
	UpdateShop(ctx context.Context, id string, update model.ShopUpdate) (*model.Shop, error)
}

// TransactionStore persists purchase transactions. Stored purchases are
// never changed.
type TransactionStore interface {
	ListTransactions(ctx context.Context, opts ListOptions) ([]model.Transaction, error)
	CreateTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)
}

// DataStore is the full record store the recorder writes to.
type DataStore interface {
	ItemStore
	ShopStore
	TransactionStore
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	DataStore

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// Invalidator is told which cached collections are stale after a write.
type Invalidator interface {
	Invalidate(kind model.Kind)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
