package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/shop-diary/internal/common"
	"github.com/Veraticus/shop-diary/internal/model"
	"github.com/Veraticus/shop-diary/internal/service"
)

// ListShops returns stored shops ordered by name. Shops have no date, so a
// date sort is rejected.
func (s *SQLiteStorage) ListShops(ctx context.Context, opts service.ListOptions) ([]model.Shop, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	suffix, args, err := orderClause(opts, "", "name COLLATE NOCASE, rowid")
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM shops `+suffix, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shops: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var shops []model.Shop
	for rows.Next() {
		var shop model.Shop
		if err := rows.Scan(&shop.ID, &shop.Name); err != nil {
			return nil, fmt.Errorf("failed to scan shop: %w", err)
		}
		shops = append(shops, shop)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shops: %w", err)
	}

	return shops, nil
}

// CreateShop inserts a new shop. The caller supplies the id.
func (s *SQLiteStorage) CreateShop(ctx context.Context, shop *model.Shop) (*model.Shop, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateShop(shop); err != nil {
		return nil, err
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO shops (id, name) VALUES (?, ?)`, shop.ID, shop.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: shop %s", common.ErrDuplicateEntry, shop.ID)
		}
		return nil, fmt.Errorf("failed to create shop: %w", err)
	}

	stored := *shop
	return &stored, nil
}

// UpdateShop renames a shop.
func (s *SQLiteStorage) UpdateShop(ctx context.Context, id string, update model.ShopUpdate) (*model.Shop, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidShop)
	}

	var shop model.Shop
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if update.Name != nil {
			result, err := tx.ExecContext(ctx, `UPDATE shops SET name = ? WHERE id = ?`, *update.Name, id)
			if err != nil {
				return fmt.Errorf("failed to update shop: %w", err)
			}
			if affected, _ := result.RowsAffected(); affected == 0 {
				return fmt.Errorf("shop %s: %w", id, common.ErrNotFound)
			}
		}

		err := tx.QueryRowContext(ctx, `SELECT id, name FROM shops WHERE id = ?`, id).Scan(&shop.ID, &shop.Name)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("shop %s: %w", id, common.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to get shop: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &shop, nil
}
