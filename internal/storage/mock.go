package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Veraticus/shop-diary/internal/common"
	"github.com/Veraticus/shop-diary/internal/model"
	"github.com/Veraticus/shop-diary/internal/service"
)

// MockStorage is an in-memory Storage for tests. It records every call
// and can be told to fail a named operation.
type MockStorage struct {
	errors       map[string]error
	items        []model.Item
	shops        []model.Shop
	transactions []model.Transaction
	Calls        []string
	mu           sync.Mutex
}

// NewMockStorage creates an empty mock store.
func NewMockStorage() *MockStorage {
	return &MockStorage{
		errors: make(map[string]error),
	}
}

// SetError makes the named operation (e.g. "CreateShop") fail with err.
// A nil err clears the failure.
func (m *MockStorage) SetError(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err == nil {
		delete(m.errors, op)
		return
	}
	m.errors[op] = err
}

// Seed adds records directly, bypassing call recording.
func (m *MockStorage) Seed(items []model.Item, shops []model.Shop, transactions []model.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = append(m.items, items...)
	m.shops = append(m.shops, shops...)
	m.transactions = append(m.transactions, transactions...)
}

// GetCalls returns a copy of the recorded calls.
func (m *MockStorage) GetCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]string, len(m.Calls))
	copy(calls, m.Calls)
	return calls
}

// WriteCalls returns the recorded create and update calls.
func (m *MockStorage) WriteCalls() []string {
	var writes []string
	for _, c := range m.GetCalls() {
		if strings.HasPrefix(c, "Create") || strings.HasPrefix(c, "Update") {
			writes = append(writes, c)
		}
	}
	return writes
}

// Reset clears recorded calls and injected errors but keeps the data.
func (m *MockStorage) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = nil
	m.errors = make(map[string]error)
}

func (m *MockStorage) record(op string) error {
	m.Calls = append(m.Calls, op)
	return m.errors[op]
}

// ListItems implements service.ItemStore.
func (m *MockStorage) ListItems(_ context.Context, opts service.ListOptions) ([]model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("ListItems"); err != nil {
		return nil, err
	}

	items := make([]model.Item, len(m.items))
	copy(items, m.items)
	if opts.Sort != nil {
		sort.SliceStable(items, func(i, j int) bool {
			a, b := items[i].LastPurchasedDate, items[j].LastPurchasedDate
			if a == nil || b == nil {
				return false
			}
			if opts.Sort.Order == service.SortAsc {
				return a.Before(*b)
			}
			return a.After(*b)
		})
	}
	return limit(items, opts.Limit), nil
}

// GetItem implements service.ItemStore.
func (m *MockStorage) GetItem(_ context.Context, id string) (*model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("GetItem"); err != nil {
		return nil, err
	}
	for _, item := range m.items {
		if item.ID == id {
			stored := item
			return &stored, nil
		}
	}
	return nil, fmt.Errorf("item %s: %w", id, common.ErrNotFound)
}

// CreateItem implements service.ItemStore.
func (m *MockStorage) CreateItem(_ context.Context, item *model.Item) (*model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("CreateItem"); err != nil {
		return nil, err
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}
	for _, existing := range m.items {
		if existing.ID == item.ID {
			return nil, fmt.Errorf("%w: item %s", common.ErrDuplicateEntry, item.ID)
		}
	}

	stored := *item
	stored.Unit = model.UnitOrDefault(stored.Unit)
	m.items = append(m.items, stored)
	return &stored, nil
}

// UpdateItem implements service.ItemStore.
func (m *MockStorage) UpdateItem(_ context.Context, id string, update model.ItemUpdate) (*model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("UpdateItem"); err != nil {
		return nil, err
	}

	for i := range m.items {
		if m.items[i].ID != id {
			continue
		}
		if update.LastPrice != nil {
			price := *update.LastPrice
			m.items[i].LastPrice = &price
		}
		if update.LastPurchasedDate != nil {
			date := *update.LastPurchasedDate
			m.items[i].LastPurchasedDate = &date
		}
		if update.Unit != nil {
			m.items[i].Unit = model.UnitOrDefault(*update.Unit)
		}
		stored := m.items[i]
		return &stored, nil
	}
	return nil, fmt.Errorf("item %s: %w", id, common.ErrNotFound)
}

// ListShops implements service.ShopStore.
func (m *MockStorage) ListShops(_ context.Context, opts service.ListOptions) ([]model.Shop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("ListShops"); err != nil {
		return nil, err
	}
	if opts.Sort != nil {
		return nil, fmt.Errorf("%w: records have no date", ErrInvalidListOptions)
	}

	shops := make([]model.Shop, len(m.shops))
	copy(shops, m.shops)
	return limit(shops, opts.Limit), nil
}

// CreateShop implements service.ShopStore.
func (m *MockStorage) CreateShop(_ context.Context, shop *model.Shop) (*model.Shop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("CreateShop"); err != nil {
		return nil, err
	}
	if err := validateShop(shop); err != nil {
		return nil, err
	}

	stored := *shop
	m.shops = append(m.shops, stored)
	return &stored, nil
}

// UpdateShop implements service.ShopStore.
func (m *MockStorage) UpdateShop(_ context.Context, id string, update model.ShopUpdate) (*model.Shop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("UpdateShop"); err != nil {
		return nil, err
	}

	for i := range m.shops {
		if m.shops[i].ID == id {
			if update.Name != nil {
				m.shops[i].Name = *update.Name
			}
			stored := m.shops[i]
			return &stored, nil
		}
	}
	return nil, fmt.Errorf("shop %s: %w", id, common.ErrNotFound)
}

// ListTransactions implements service.TransactionStore.
func (m *MockStorage) ListTransactions(_ context.Context, opts service.ListOptions) ([]model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("ListTransactions"); err != nil {
		return nil, err
	}

	txns := make([]model.Transaction, len(m.transactions))
	copy(txns, m.transactions)
	if opts.Sort != nil && opts.Sort.Order != service.SortAsc {
		// Newest first; ties keep reverse insertion order.
		for i, j := 0, len(txns)-1; i < j; i, j = i+1, j-1 {
			txns[i], txns[j] = txns[j], txns[i]
		}
		sort.SliceStable(txns, func(i, j int) bool {
			return txns[i].Date.After(txns[j].Date)
		})
	} else {
		sort.SliceStable(txns, func(i, j int) bool {
			return txns[i].Date.Before(txns[j].Date)
		})
	}
	return limit(txns, opts.Limit), nil
}

// CreateTransaction implements service.TransactionStore.
func (m *MockStorage) CreateTransaction(_ context.Context, txn *model.Transaction) (*model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.record("CreateTransaction"); err != nil {
		return nil, err
	}
	if err := validateTransaction(txn); err != nil {
		return nil, err
	}

	stored := *txn
	m.transactions = append(m.transactions, stored)
	return &stored, nil
}

// Migrate implements service.Storage.
func (m *MockStorage) Migrate(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record("Migrate")
}

// Close implements service.Storage.
func (m *MockStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record("Close")
}

func limit[T any](records []T, n int) []T {
	if n > 0 && len(records) > n {
		return records[:n]
	}
	return records
}
