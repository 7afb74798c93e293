// Package ingest loads the two raw input tables: the order ledger and the
// item catalog. Column presence is validated here, once, so that schema
// failures never surface in the middle of aggregation.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "kpicli/internal/errors"
	"kpicli/pkg/contracts/domain"
)

// Catalog column names are fixed; ledger column names are configurable.
const (
	catalogItemColumn  = "Item"
	catalogPriceColumn = "Price"
	catalogCostColumn  = "Cost"
)

// dateLayouts are tried in order when parsing ledger timestamps. Input
// timestamps are timezone-naive; the declared date is authoritative.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006 15:04",
	"1/2/2006",
	time.RFC3339,
}

// LedgerSchema names the required order ledger columns.
type LedgerSchema struct {
	DateColumn  string
	EmailColumn string
}

// ReadCatalogFile loads the item catalog from a CSV file.
func ReadCatalogFile(path string) ([]domain.ItemCatalogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()
	return ReadCatalog(f)
}

// ReadCatalog parses item catalog rows from CSV with columns Item, Price
// and Cost.
func ReadCatalog(r io.Reader) ([]domain.ItemCatalogEntry, error) {
	records, err := readTable(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("catalog CSV has no header row")
	}

	header := records[0]
	itemCol := findColumn(header, catalogItemColumn)
	priceCol := findColumn(header, catalogPriceColumn)
	costCol := findColumn(header, catalogCostColumn)
	switch {
	case itemCol == -1:
		return nil, &apperrors.MissingColumnError{Table: "item catalog", Column: catalogItemColumn}
	case priceCol == -1:
		return nil, &apperrors.MissingColumnError{Table: "item catalog", Column: catalogPriceColumn}
	case costCol == -1:
		return nil, &apperrors.MissingColumnError{Table: "item catalog", Column: catalogCostColumn}
	}

	entries := make([]domain.ItemCatalogEntry, 0, len(records)-1)
	for i, record := range records[1:] {
		if itemCol >= len(record) || priceCol >= len(record) || costCol >= len(record) {
			return nil, fmt.Errorf("catalog row %d: too few columns", i+1)
		}

		name := strings.TrimSpace(record[itemCol])
		if name == "" {
			continue
		}

		price, err := parseMoney(record[priceCol])
		if err != nil {
			return nil, fmt.Errorf("catalog row %d: bad price for %q: %w", i+1, name, err)
		}
		cost, err := parseMoney(record[costCol])
		if err != nil {
			return nil, fmt.Errorf("catalog row %d: bad cost for %q: %w", i+1, name, err)
		}

		entries = append(entries, domain.ItemCatalogEntry{Name: name, Price: price, Cost: cost})
	}

	return entries, nil
}

// ReadOrdersFile loads the order ledger from a CSV file.
func ReadOrdersFile(path string, schema LedgerSchema, items []string) ([]domain.OrderRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open order ledger file: %w", err)
	}
	defer f.Close()
	return ReadOrders(f, schema, items)
}

// ReadOrders parses order ledger rows from CSV. Only quantity columns whose
// names match a catalog item name are counted; other columns are ignored.
// Blank quantity cells mean zero, non-numeric cells are a
// MalformedQuantityError.
func ReadOrders(r io.Reader, schema LedgerSchema, items []string) ([]domain.OrderRecord, error) {
	records, err := readTable(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read order ledger CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("order ledger CSV has no header row")
	}

	header := records[0]
	dateCol := findColumn(header, schema.DateColumn)
	if dateCol == -1 {
		return nil, &apperrors.MissingColumnError{Table: "order ledger", Column: schema.DateColumn}
	}
	emailCol := findColumn(header, schema.EmailColumn)
	if emailCol == -1 {
		return nil, &apperrors.MissingColumnError{Table: "order ledger", Column: schema.EmailColumn}
	}

	itemCols := make(map[string]int, len(items))
	for _, item := range items {
		if col := findColumn(header, item); col != -1 {
			itemCols[item] = col
		}
	}

	orders := make([]domain.OrderRecord, 0, len(records)-1)
	for i, record := range records[1:] {
		if dateCol >= len(record) || emailCol >= len(record) {
			return nil, fmt.Errorf("order row %d: too few columns", i+1)
		}

		customer := strings.TrimSpace(record[emailCol])
		if customer == "" {
			return nil, fmt.Errorf("order row %d: empty customer identifier", i+1)
		}

		orderedAt, err := parseDate(record[dateCol])
		if err != nil {
			return nil, fmt.Errorf("order row %d: %w", i+1, err)
		}

		quantities := make(map[string]decimal.Decimal, len(itemCols))
		for item, col := range itemCols {
			if col >= len(record) {
				continue
			}
			cell := strings.TrimSpace(record[col])
			if cell == "" {
				continue
			}
			qty, err := decimal.NewFromString(cell)
			if err != nil {
				return nil, &apperrors.MalformedQuantityError{Row: i + 1, Item: item, Value: cell}
			}
			quantities[item] = qty
		}

		orders = append(orders, domain.OrderRecord{
			RowIndex:   i,
			CustomerID: customer,
			OrderedAt:  orderedAt,
			Quantities: quantities,
		})
	}

	return orders, nil
}

// readTable reads all CSV records, stripping a UTF-8 BOM if present.
func readTable(r io.Reader) ([][]string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		content = content[3:]
	}

	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// findColumn returns the index of the named column, or -1 when absent.
// Header cells are compared after trimming whitespace and any leftover BOM.
func findColumn(header []string, name string) int {
	want := strings.TrimSpace(name)
	for i, col := range header {
		clean := strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		if clean == want {
			return i
		}
	}
	return -1
}

// parseDate parses a ledger timestamp using the known layouts.
func parseDate(cell string) (time.Time, error) {
	value := strings.TrimSpace(cell)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty order timestamp")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable order timestamp %q", value)
}

// parseMoney parses a non-negative decimal amount.
func parseMoney(cell string) (decimal.Decimal, error) {
	value := strings.TrimSpace(strings.TrimPrefix(cell, "$"))
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative amount %s", d)
	}
	return d, nil
}
