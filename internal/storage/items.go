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

const itemColumns = `id, name, unit, last_price, last_purchased_date`

// ListItems returns stored items. A date sort orders by last purchase.
func (s *SQLiteStorage) ListItems(ctx context.Context, opts service.ListOptions) ([]model.Item, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	suffix, args, err := orderClause(opts, "last_purchased_date", "name COLLATE NOCASE, rowid")
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM items `+suffix, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

// GetItem returns the stored item with id.
func (s *SQLiteStorage) GetItem(ctx context.Context, id string) (*model.Item, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return getItemTx(ctx, s.db, id)
}

// CreateItem inserts a new item. The caller supplies the id.
func (s *SQLiteStorage) CreateItem(ctx context.Context, item *model.Item) (*model.Item, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}

	stored := *item
	stored.Unit = model.UnitOrDefault(stored.Unit)

	var lastDate any
	if stored.LastPurchasedDate != nil {
		lastDate = stored.LastPurchasedDate.UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO items (id, name, unit, last_price, last_purchased_date)
		VALUES (?, ?, ?, ?, ?)
	`, stored.ID, stored.Name, stored.Unit, stored.LastPrice, lastDate)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: item %s", common.ErrDuplicateEntry, stored.ID)
		}
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	return &stored, nil
}

// UpdateItem applies the non-nil fields of update and returns the stored item.
func (s *SQLiteStorage) UpdateItem(ctx context.Context, id string, update model.ItemUpdate) (*model.Item, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var sets []string
	var args []any
	if update.LastPrice != nil {
		if *update.LastPrice < 0 {
			return nil, fmt.Errorf("%w: negative last price", ErrInvalidItem)
		}
		sets = append(sets, "last_price = ?")
		args = append(args, *update.LastPrice)
	}
	if update.LastPurchasedDate != nil {
		sets = append(sets, "last_purchased_date = ?")
		args = append(args, update.LastPurchasedDate.UTC())
	}
	if update.Unit != nil {
		sets = append(sets, "unit = ?")
		args = append(args, model.UnitOrDefault(*update.Unit))
	}

	var item *model.Item
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if len(sets) > 0 {
			result, err := tx.ExecContext(ctx,
				`UPDATE items SET `+strings.Join(sets, ", ")+` WHERE id = ?`,
				append(args, id)...)
			if err != nil {
				return fmt.Errorf("failed to update item: %w", err)
			}
			if affected, _ := result.RowsAffected(); affected == 0 {
				return fmt.Errorf("item %s: %w", id, common.ErrNotFound)
			}
		}

		var err error
		item, err = getItemTx(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

func getItemTx(ctx context.Context, q queryable, id string) (*model.Item, error) {
	row := q.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %s: %w", id, common.ErrNotFound)
	}
	return item, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*model.Item, error) {
	var item model.Item
	var lastPrice sql.NullFloat64
	var lastDate sql.NullTime

	if err := row.Scan(&item.ID, &item.Name, &item.Unit, &lastPrice, &lastDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan item: %w", err)
	}

	if lastPrice.Valid {
		price := lastPrice.Float64
		item.LastPrice = &price
	}
	if lastDate.Valid {
		date := lastDate.Time
		item.LastPurchasedDate = &date
	}

	return &item, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
