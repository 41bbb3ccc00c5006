package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/shop-diary/internal/common"
	"github.com/Veraticus/shop-diary/internal/model"
	"github.com/Veraticus/shop-diary/internal/service"
)

const transactionColumns = `id, date, item_id, shop_id, price_per_unit, quantity, total_cost, unit, price_trend`

// ListTransactions returns stored purchases, oldest first unless a date
// sort says otherwise.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, opts service.ListOptions) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	suffix, args, err := orderClause(opts, "date", "date ASC, rowid ASC")
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+transactionColumns+` FROM transactions `+suffix, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// CreateTransaction inserts a purchase. The caller supplies the id and all
// derived fields.
func (s *SQLiteStorage) CreateTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateTransaction(txn); err != nil {
		return nil, err
	}

	stored := *txn
	stored.Date = stored.Date.UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		stored.ID,
		stored.Date,
		stored.ItemID,
		nullString(stored.ShopID),
		stored.PricePerUnit,
		stored.Quantity,
		stored.TotalCost,
		stored.Unit,
		string(stored.PriceTrend),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: transaction %s", common.ErrDuplicateEntry, stored.ID)
		}
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return &stored, nil
}

func scanTransaction(row scanner) (*model.Transaction, error) {
	var txn model.Transaction
	var shopID sql.NullString
	var trend string

	err := row.Scan(
		&txn.ID,
		&txn.Date,
		&txn.ItemID,
		&shopID,
		&txn.PricePerUnit,
		&txn.Quantity,
		&txn.TotalCost,
		&txn.Unit,
		&trend,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}

	txn.ShopID = shopID.String
	txn.PriceTrend = model.PriceTrend(trend)

	return &txn, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
