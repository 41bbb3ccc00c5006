package sheets

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/shop-diary/internal/service"
)

// Export reads the whole diary from store and hands it to exporter.
func Export(ctx context.Context, store service.DataStore, exporter Exporter, now time.Time) (TabData, error) {
	items, err := store.ListItems(ctx, service.ListOptions{})
	if err != nil {
		return TabData{}, fmt.Errorf("failed to list items: %w", err)
	}
	shops, err := store.ListShops(ctx, service.ListOptions{})
	if err != nil {
		return TabData{}, fmt.Errorf("failed to list shops: %w", err)
	}
	txns, err := store.ListTransactions(ctx, service.ByDateDesc(0))
	if err != nil {
		return TabData{}, fmt.Errorf("failed to list transactions: %w", err)
	}

	data := BuildTabData(items, shops, txns, now)
	if err := exporter.Write(ctx, data); err != nil {
		return data, err
	}
	return data, nil
}
