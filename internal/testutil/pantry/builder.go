// Package pantry seeds test databases with items and shops through a
// fluent builder.
package pantry

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/shop-diary/internal/model"
	"github.com/Veraticus/shop-diary/internal/service"
	"github.com/google/uuid"
)

// ItemName is the name of a seeded item.
type ItemName string

// ShopName is the name of a seeded shop.
type ShopName string

// Common names used across tests.
const (
	ItemRice  ItemName = "Rice"
	ItemSugar ItemName = "Sugar"
	ItemMilk  ItemName = "Milk"
	ItemSalt  ItemName = "Salt"

	ShopSiva   ShopName = "Siva Traders"
	ShopKumar  ShopName = "Kumar Stores"
	ShopMarket ShopName = "Sunday Market"
)

// ItemSpec describes an item to seed. A nil LastPrice seeds an item that
// was never bought.
type ItemSpec struct {
	LastPrice *float64
	Name      ItemName
	Unit      string
}

// Builder provides a fluent interface for constructing test data.
type Builder interface {
	// WithItem adds an item without price history and the default unit.
	WithItem(name ItemName) Builder

	// WithPricedItem adds an item that was last bought at price.
	WithPricedItem(name ItemName, unit string, price float64) Builder

	// WithShop adds a shop.
	WithShop(name ShopName) Builder

	// WithBasicPantry adds the items and shops of FixtureBasic.
	WithBasicPantry() Builder

	// WithFixture adds everything from fixture.
	WithFixture(fixture Fixture) Builder

	// Build creates the records in store and returns them.
	Build(ctx context.Context, store service.DataStore) (Pantry, error)
}

type builder struct {
	boughtAt time.Time
	t        *testing.T
	seen     map[string]bool
	items    []ItemSpec
	shops    []ShopName
}

// NewBuilder creates an empty builder.
func NewBuilder(t *testing.T) Builder {
	t.Helper()
	return &builder{
		t:        t,
		seen:     make(map[string]bool),
		boughtAt: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (b *builder) addItem(spec ItemSpec) Builder {
	key := "item:" + string(spec.Name)
	if b.seen[key] {
		b.t.Fatalf("item %q added twice", spec.Name)
	}
	b.seen[key] = true
	b.items = append(b.items, spec)
	return b
}

func (b *builder) WithItem(name ItemName) Builder {
	return b.addItem(ItemSpec{Name: name, Unit: model.DefaultUnit})
}

func (b *builder) WithPricedItem(name ItemName, unit string, price float64) Builder {
	return b.addItem(ItemSpec{Name: name, Unit: unit, LastPrice: &price})
}

func (b *builder) WithShop(name ShopName) Builder {
	key := "shop:" + string(name)
	if b.seen[key] {
		b.t.Fatalf("shop %q added twice", name)
	}
	b.seen[key] = true
	b.shops = append(b.shops, name)
	return b
}

func (b *builder) WithBasicPantry() Builder {
	return b.WithFixture(FixtureBasic)
}

func (b *builder) WithFixture(fixture Fixture) Builder {
	for _, spec := range fixture.Items {
		b.addItem(spec)
	}
	for _, name := range fixture.Shops {
		b.WithShop(name)
	}
	return b
}

func (b *builder) Build(ctx context.Context, store service.DataStore) (Pantry, error) {
	var p Pantry
	for _, spec := range b.items {
		item := &model.Item{
			ID:   "item_" + uuid.NewString(),
			Name: string(spec.Name),
			Unit: spec.Unit,
		}
		if spec.LastPrice != nil {
			price := *spec.LastPrice
			boughtAt := b.boughtAt
			item.LastPrice = &price
			item.LastPurchasedDate = &boughtAt
		}
		created, err := store.CreateItem(ctx, item)
		if err != nil {
			return Pantry{}, fmt.Errorf("failed to create item %q: %w", spec.Name, err)
		}
		p.Items = append(p.Items, *created)
	}

	for _, name := range b.shops {
		created, err := store.CreateShop(ctx, &model.Shop{ID: "shop_" + uuid.NewString(), Name: string(name)})
		if err != nil {
			return Pantry{}, fmt.Errorf("failed to create shop %q: %w", name, err)
		}
		p.Shops = append(p.Shops, *created)
	}

	return p, nil
}

// Pantry holds the records a builder created.
type Pantry struct {
	Items []model.Item
	Shops []model.Shop
}

// FindItem returns the item with the given name, or nil if not found.
func (p Pantry) FindItem(name ItemName) *model.Item {
	for i := range p.Items {
		if p.Items[i].Name == string(name) {
			return &p.Items[i]
		}
	}
	return nil
}

// FindShop returns the shop with the given name, or nil if not found.
func (p Pantry) FindShop(name ShopName) *model.Shop {
	for i := range p.Shops {
		if p.Shops[i].Name == string(name) {
			return &p.Shops[i]
		}
	}
	return nil
}

// MustFindItem returns the named item or fails the test.
func (p Pantry) MustFindItem(t *testing.T, name ItemName) model.Item {
	t.Helper()
	item := p.FindItem(name)
	if item == nil {
		t.Fatalf("item %q not found in test data", name)
	}
	return *item
}

// MustFindShop returns the named shop or fails the test.
func (p Pantry) MustFindShop(t *testing.T, name ShopName) model.Shop {
	t.Helper()
	shop := p.FindShop(name)
	if shop == nil {
		t.Fatalf("shop %q not found in test data", name)
	}
	return *shop
}
