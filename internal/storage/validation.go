// Package storage provides the data persistence layer for the diary.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/shop-diary/internal/model"
	"github.com/Veraticus/shop-diary/internal/service"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidItem        = errors.New("invalid item")
	ErrInvalidShop        = errors.New("invalid shop")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidListOptions = errors.New("invalid list options")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateItem validates an item before it is inserted.
func validateItem(item *model.Item) error {
	if item == nil {
		return fmt.Errorf("%w: item", ErrNilParameter)
	}
	if item.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidItem)
	}
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidItem)
	}
	if item.LastPrice != nil && *item.LastPrice < 0 {
		return fmt.Errorf("%w: negative last price", ErrInvalidItem)
	}
	return nil
}

// validateShop validates a shop before it is inserted.
func validateShop(shop *model.Shop) error {
	if shop == nil {
		return fmt.Errorf("%w: shop", ErrNilParameter)
	}
	if shop.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidShop)
	}
	if strings.TrimSpace(shop.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidShop)
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if txn.ItemID == "" {
		return fmt.Errorf("%w: missing item ID", ErrInvalidTransaction)
	}
	if txn.PricePerUnit <= 0 || txn.Quantity <= 0 {
		return fmt.Errorf("%w: price and quantity must be positive", ErrInvalidTransaction)
	}
	if !txn.PriceTrend.Valid() {
		return fmt.Errorf("%w: unknown price trend %q", ErrInvalidTransaction, txn.PriceTrend)
	}
	return nil
}

// orderClause turns list options into an ORDER BY/LIMIT suffix. dateColumn
// is the column a date sort maps to; empty means the kind has no date.
func orderClause(opts service.ListOptions, dateColumn, fallback string) (string, []any, error) {
	if opts.Limit < 0 {
		return "", nil, fmt.Errorf("%w: negative limit", ErrInvalidListOptions)
	}

	order := "ORDER BY " + fallback
	if opts.Sort != nil {
		if opts.Sort.Field != service.SortField {
			return "", nil, fmt.Errorf("%w: cannot sort by %q", ErrInvalidListOptions, opts.Sort.Field)
		}
		if dateColumn == "" {
			return "", nil, fmt.Errorf("%w: records have no date", ErrInvalidListOptions)
		}
		switch opts.Sort.Order {
		case service.SortAsc:
			order = fmt.Sprintf("ORDER BY %s ASC, rowid ASC", dateColumn)
		case service.SortDesc, "":
			order = fmt.Sprintf("ORDER BY %s DESC, rowid DESC", dateColumn)
		default:
			return "", nil, fmt.Errorf("%w: sort order %q", ErrInvalidListOptions, opts.Sort.Order)
		}
	}

	if opts.Limit > 0 {
		return order + " LIMIT ?", []any{opts.Limit}, nil
	}
	return order, nil, nil
}
