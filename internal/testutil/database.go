// Package testutil provides test utilities for the diary: throwaway SQLite
// databases seeded with a known pantry of items and shops.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/shop-diary/internal/model"
	"github.com/Veraticus/shop-diary/internal/service"
	"github.com/Veraticus/shop-diary/internal/storage"
	"github.com/Veraticus/shop-diary/internal/testutil/pantry"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
	Pantry  pantry.Pantry
}

// SetupTestDB creates a migrated SQLite database in a temp directory and
// seeds it with whatever configure adds to the builder. A nil configure
// leaves the database empty.
//
// Example:
//
//	db := testutil.SetupTestDB(t, func(b pantry.Builder) pantry.Builder {
//		return b.WithBasicPantry().WithShop("Corner Shop")
//	})
func SetupTestDB(t *testing.T, configure func(pantry.Builder) pantry.Builder) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "diary.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	builder := pantry.NewBuilder(t)
	if configure != nil {
		builder = configure(builder)
	}
	p, err := builder.Build(ctx, store)
	if err != nil {
		t.Fatalf("failed to seed pantry: %v", err)
	}

	return &TestDB{
		Storage: store,
		Pantry:  p,
		t:       t,
	}
}

// MustItem returns the seeded item with the given name or fails the test.
func (db *TestDB) MustItem(name pantry.ItemName) model.Item {
	db.t.Helper()
	return db.Pantry.MustFindItem(db.t, name)
}

// MustShop returns the seeded shop with the given name or fails the test.
func (db *TestDB) MustShop(name pantry.ShopName) model.Shop {
	db.t.Helper()
	return db.Pantry.MustFindShop(db.t, name)
}
