// Package importer bulk-loads purchases from CSV files.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Veraticus/shop-diary/internal/purchase"
)

// Column names recognised in the header row.
const (
	ColumnItem     = "item"
	ColumnPrice    = "price"
	ColumnQuantity = "quantity"
	ColumnUnit     = "unit"
	ColumnShop     = "shop"
	ColumnDate     = "date"
)

var requiredColumns = []string{ColumnItem, ColumnPrice, ColumnQuantity}

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// Row is one parsed purchase line.
type Row struct {
	Date     time.Time
	Price    *float64
	Quantity *float64
	Item     string
	Unit     string
	Shop     string
	Line     int
}

// RowError reports a line that could not be imported.
type RowError struct {
	Err  error
	Line int
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// ParseCSV reads purchase rows. Malformed lines are returned as row errors;
// only an unreadable file or a bad header fails the whole parse.
func ParseCSV(r io.Reader) ([]Row, []RowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("empty file: %w", ErrMissingColumn)
		}
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	cell := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []Row
	var rowErrs []RowError
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Err: err})
			continue
		}

		row := Row{
			Line: line,
			Item: cell(record, ColumnItem),
			Unit: cell(record, ColumnUnit),
			Shop: cell(record, ColumnShop),
		}
		if row.Price, err = purchase.ParseNumber(cell(record, ColumnPrice)); err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Err: fmt.Errorf("invalid price: %w", err)})
			continue
		}
		if row.Quantity, err = purchase.ParseNumber(cell(record, ColumnQuantity)); err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Err: fmt.Errorf("invalid quantity: %w", err)})
			continue
		}
		if raw := cell(record, ColumnDate); raw != "" {
			if row.Date, err = parseDate(raw); err != nil {
				rowErrs = append(rowErrs, RowError{Line: line, Err: fmt.Errorf("invalid date: %w", err)})
				continue
			}
		}
		rows = append(rows, row)
	}

	return rows, rowErrs, nil
}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates, the
// latter in local time.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.ParseInLocation(time.DateOnly, raw, time.Local)
}
