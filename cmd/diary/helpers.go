package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/shop-diary/internal/cache"
	"github.com/Veraticus/shop-diary/internal/config"
	"github.com/Veraticus/shop-diary/internal/purchase"
	"github.com/Veraticus/shop-diary/internal/service"
	"github.com/Veraticus/shop-diary/internal/storage"
	"github.com/spf13/viper"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context, settings config.Settings) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(settings.DatabasePath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// diary bundles the store with the cached read side and the recorder.
type diary struct {
	store    service.Storage
	cache    *cache.Cache
	catalog  *purchase.Catalog
	recorder *purchase.Recorder
	settings config.Settings
}

func openDiary(ctx context.Context) (*diary, error) {
	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	store, err := initStorage(ctx, settings)
	if err != nil {
		return nil, err
	}

	c := cache.New(cache.WithTTL(settings.CacheTTL))
	catalog := purchase.NewCatalog(store, c)
	return &diary{
		store:    store,
		cache:    c,
		catalog:  catalog,
		recorder: purchase.NewRecorder(store, catalog, purchase.WithLogger(slog.Default())),
		settings: settings,
	}, nil
}

func (d *diary) Close() error {
	d.cache.Close()
	return d.store.Close()
}

// closeDiary closes d and joins any close failure into err.
func closeDiary(d *diary, err *error) {
	if closeErr := d.Close(); closeErr != nil {
		*err = errors.Join(*err, fmt.Errorf("failed to close database: %w", closeErr))
	}
}
