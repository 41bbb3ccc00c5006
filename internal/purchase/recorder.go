package purchase

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Veraticus/shop-diary/internal/common"
	"github.com/Veraticus/shop-diary/internal/model"
	"github.com/Veraticus/shop-diary/internal/service"
	"github.com/google/uuid"
)

// ID prefixes for generated record ids.
const (
	ItemIDPrefix        = "item"
	ShopIDPrefix        = "shop"
	TransactionIDPrefix = "txn"
)

// NewID returns a fresh id such as "item_0f8c...".
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// Candidate is a purchase ready to be committed. Item and Shop are already
// resolved; LastPrice is the item's previous price as seen by the caller.
type Candidate struct {
	Date         time.Time
	LastPrice    *float64
	PricePerUnit *float64
	Quantity     *float64
	Item         model.EntityRef
	Shop         model.EntityRef
	Unit         string
}

// Result describes what a successful commit wrote.
type Result struct {
	Transaction *model.Transaction
	Item        *model.Item
	Shop        *model.Shop
	ItemCreated bool
	ShopCreated bool
}

// Recorder commits purchases to the data store.
type Recorder struct {
	store       service.DataStore
	invalidator service.Invalidator
	logger      *slog.Logger
	newID       func(prefix string) string
	now         func() time.Time
	inFlight    atomic.Bool
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithIDGenerator overrides how record ids are made.
func WithIDGenerator(newID func(prefix string) string) RecorderOption {
	return func(r *Recorder) {
		r.newID = newID
	}
}

// WithClock overrides the time source used for purchase dates.
func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) {
		r.now = now
	}
}

// WithLogger sets the logger. The default logger is used otherwise.
func WithLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// NewRecorder creates a recorder writing to store. invalidator may be nil.
func NewRecorder(store service.DataStore, invalidator service.Invalidator, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		store:       store,
		invalidator: invalidator,
		logger:      slog.Default(),
		newID:       NewID,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Busy reports whether a commit is currently running.
func (r *Recorder) Busy() bool {
	return r.inFlight.Load()
}

// Validate checks a candidate without touching the store.
func Validate(c Candidate) error {
	if c.Item.IsAbsent() {
		return common.NewValidationError("item", "required")
	}
	if c.PricePerUnit == nil {
		return common.NewValidationError("price", "required")
	}
	if c.Quantity == nil {
		return common.NewValidationError("quantity", "required")
	}
	if *c.PricePerUnit <= 0 {
		return common.NewValidationError("price", "must be positive")
	}
	if *c.Quantity <= 0 {
		return common.NewValidationError("quantity", "must be positive")
	}
	return nil
}

// Commit writes the purchase: the item, then the shop, then the
// transaction. A write failure stops the sequence and returns a
// *common.CommitError; earlier writes stay in place. Caches are only
// invalidated after the transaction is stored.
//
// A known item keeps the price and date of its latest purchase, so a
// purchase dated before that one only adds the transaction.
func (r *Recorder) Commit(ctx context.Context, c Candidate) (*Result, error) {
	if !r.inFlight.CompareAndSwap(false, true) {
		return nil, common.ErrCommitInProgress
	}
	defer r.inFlight.Store(false)

	if err := Validate(c); err != nil {
		return nil, err
	}

	price := *c.PricePerUnit
	quantity := *c.Quantity
	unit := model.UnitOrDefault(c.Unit)
	date := c.Date
	if date.IsZero() {
		date = r.now()
	}

	result := &Result{}
	var completed []common.CommitStep
	fail := func(step common.CommitStep, err error) error {
		commitErr := &common.CommitError{
			Err:       err,
			Step:      step,
			Completed: completed,
		}
		if result.Item != nil {
			commitErr.ItemID = result.Item.ID
		}
		if result.Shop != nil {
			commitErr.ShopID = result.Shop.ID
		}
		r.logger.Error("Purchase commit failed",
			"step", step,
			"completed", len(completed),
			"item_id", commitErr.ItemID,
			"shop_id", commitErr.ShopID,
			"error", err)
		return commitErr
	}

	// Item
	lastPrice := c.LastPrice
	if c.Item.IsKnown() {
		stored, err := r.store.GetItem(ctx, c.Item.ID)
		if err != nil {
			return nil, fail(common.StepItem, err)
		}

		if stored.LastPurchasedDate != nil && date.Before(*stored.LastPurchasedDate) {
			// A back-dated purchase leaves the item at its newest price and
			// is compared with the price in effect on its own date.
			lastPrice, err = r.priceAsOf(ctx, stored.ID, date)
			if err != nil {
				return nil, fail(common.StepItem, err)
			}
			result.Item = stored
			r.logger.Debug("Back-dated purchase leaves item unchanged",
				"item_id", stored.ID,
				"date", date,
				"last_purchased", *stored.LastPurchasedDate)
		} else {
			item, err := r.store.UpdateItem(ctx, stored.ID, model.ItemUpdate{
				LastPrice:         &price,
				LastPurchasedDate: &date,
			})
			if err != nil {
				return nil, fail(common.StepItem, err)
			}
			result.Item = item
			completed = append(completed, common.StepItem)
		}
	} else {
		item, err := r.store.CreateItem(ctx, &model.Item{
			ID:                r.newID(ItemIDPrefix),
			Name:              c.Item.Name,
			Unit:              unit,
			LastPrice:         &price,
			LastPurchasedDate: &date,
		})
		if err != nil {
			return nil, fail(common.StepItem, err)
		}
		result.Item = item
		result.ItemCreated = true
		completed = append(completed, common.StepItem)
	}

	// Shop
	switch {
	case c.Shop.IsKnown():
		result.Shop = &model.Shop{ID: c.Shop.ID, Name: c.Shop.Name}
	case c.Shop.IsNew():
		shop, err := r.store.CreateShop(ctx, &model.Shop{
			ID:   r.newID(ShopIDPrefix),
			Name: c.Shop.Name,
		})
		if err != nil {
			return nil, fail(common.StepShop, err)
		}
		result.Shop = shop
		result.ShopCreated = true
		completed = append(completed, common.StepShop)
	}

	// Transaction
	txn := &model.Transaction{
		ID:           r.newID(TransactionIDPrefix),
		Date:         date,
		ItemID:       result.Item.ID,
		PricePerUnit: price,
		Quantity:     quantity,
		TotalCost:    TotalCost(price, quantity),
		Unit:         unit,
		PriceTrend:   Trend(price, lastPrice),
	}
	if result.Shop != nil {
		txn.ShopID = result.Shop.ID
	}
	stored, err := r.store.CreateTransaction(ctx, txn)
	if err != nil {
		return nil, fail(common.StepTransaction, err)
	}
	result.Transaction = stored

	if r.invalidator != nil {
		for _, kind := range model.AllKinds() {
			r.invalidator.Invalidate(kind)
		}
	}

	r.logger.Info("Committed purchase",
		"transaction_id", stored.ID,
		"item", result.Item.Name,
		"item_created", result.ItemCreated,
		"shop_created", result.ShopCreated,
		"total", stored.TotalCost,
		"trend", stored.PriceTrend)

	return result, nil
}

// priceAsOf returns the price of the item's latest purchase on or before
// date, or nil when it had none by then.
func (r *Recorder) priceAsOf(ctx context.Context, itemID string, date time.Time) (*float64, error) {
	txns, err := r.store.ListTransactions(ctx, service.ByDateDesc(0))
	if err != nil {
		return nil, fmt.Errorf("failed to load price history: %w", err)
	}
	for _, txn := range txns {
		if txn.ItemID == itemID && !txn.Date.After(date) {
			price := txn.PricePerUnit
			return &price, nil
		}
	}
	return nil, nil
}
