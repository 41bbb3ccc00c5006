package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/Veraticus/shop-diary/internal/cli"
	"github.com/Veraticus/shop-diary/internal/model"
	"github.com/Veraticus/shop-diary/internal/purchase"
)

// Committer saves a purchase.
type Committer interface {
	Commit(ctx context.Context, c purchase.Candidate) (*purchase.Result, error)
}

// Lister provides the records rows are resolved against.
type Lister interface {
	Items(ctx context.Context) ([]model.Item, error)
	Shops(ctx context.Context) ([]model.Shop, error)
}

// Report summarizes an import.
type Report struct {
	Errors       []RowError
	Imported     int
	ItemsCreated int
	ShopsCreated int
}

// Importer commits CSV rows one by one through the recorder.
type Importer struct {
	committer Committer
	lister    Lister
	progress  io.Writer
	logger    *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer)

// WithProgress draws a progress bar on w.
func WithProgress(w io.Writer) Option {
	return func(i *Importer) {
		i.progress = w
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Importer) {
		i.logger = logger
	}
}

// New creates an importer.
func New(committer Committer, lister Lister, opts ...Option) *Importer {
	i := &Importer{
		committer: committer,
		lister:    lister,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Import reads r and commits every valid row. Rows are resolved against the
// lists as they stand after the previous row, so repeated names update the
// same item. Row failures are collected in the report and do not stop the
// import; a canceled context does.
func (i *Importer) Import(ctx context.Context, r io.Reader) (*Report, error) {
	rows, rowErrs, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}

	report := &Report{Errors: rowErrs}

	var bar interface{ Add(int) error }
	if i.progress != nil && len(rows) > 0 {
		bar = cli.NewProgressBar(i.progress, len(rows), "Importing purchases...")
	}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result, err := i.importRow(ctx, row)
		if err != nil {
			i.logger.Warn("Skipping CSV row", "line", row.Line, "error", err)
			report.Errors = append(report.Errors, RowError{Line: row.Line, Err: err})
		} else {
			report.Imported++
			if result.ItemCreated {
				report.ItemsCreated++
			}
			if result.ShopCreated {
				report.ShopsCreated++
			}
		}

		if bar != nil {
			if err := bar.Add(1); err != nil {
				i.logger.Warn("Failed to update progress bar", "error", err)
			}
		}
	}

	sort.Slice(report.Errors, func(a, b int) bool {
		return report.Errors[a].Line < report.Errors[b].Line
	})

	i.logger.Info("CSV import finished",
		"imported", report.Imported,
		"failed", len(report.Errors),
		"items_created", report.ItemsCreated,
		"shops_created", report.ShopsCreated)

	return report, nil
}

func (i *Importer) importRow(ctx context.Context, row Row) (*purchase.Result, error) {
	items, err := i.lister.Items(ctx)
	if err != nil {
		return nil, err
	}
	shops, err := i.lister.Shops(ctx)
	if err != nil {
		return nil, err
	}

	itemRef, match := purchase.ResolveItem(row.Item, items)
	candidate := purchase.Candidate{
		Date:         row.Date,
		Item:         itemRef,
		Shop:         purchase.ResolveShop(row.Shop, shops),
		PricePerUnit: row.Price,
		Quantity:     row.Quantity,
		Unit:         row.Unit,
	}
	if match != nil {
		candidate.LastPrice = match.LastPrice
		if candidate.Unit == "" {
			candidate.Unit = match.Unit
		}
	}

	result, err := i.committer.Commit(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("failed to commit %q: %w", row.Item, err)
	}
	return result, nil
}
