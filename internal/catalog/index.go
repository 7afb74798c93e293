// Package catalog builds the read-only item lookup tables used by every
// downstream pipeline stage.
package catalog

import (
	"github.com/shopspring/decimal"

	apperrors "kpicli/internal/errors"
	"kpicli/pkg/contracts/domain"
)

// Index maps item names to their price and cost. It is built once from the
// item catalog and never mutated afterwards, so it is safe for any number
// of concurrent readers.
type Index struct {
	prices map[string]decimal.Decimal
	costs  map[string]decimal.Decimal
	items  []domain.ItemCatalogEntry
}

// NewIndex builds the lookup tables from catalog entries. A repeated item
// name with identical price and cost is tolerated as a restatement; a
// repeated name with a conflicting price or cost returns a
// DuplicateItemError rather than letting either row win silently.
func NewIndex(entries []domain.ItemCatalogEntry) (*Index, error) {
	idx := &Index{
		prices: make(map[string]decimal.Decimal, len(entries)),
		costs:  make(map[string]decimal.Decimal, len(entries)),
		items:  make([]domain.ItemCatalogEntry, 0, len(entries)),
	}

	for _, entry := range entries {
		if price, seen := idx.prices[entry.Name]; seen {
			if !price.Equal(entry.Price) || !idx.costs[entry.Name].Equal(entry.Cost) {
				return nil, &apperrors.DuplicateItemError{Item: entry.Name}
			}
			continue
		}
		idx.prices[entry.Name] = entry.Price
		idx.costs[entry.Name] = entry.Cost
		idx.items = append(idx.items, entry)
	}

	return idx, nil
}

// PriceFor returns the selling price for item, or zero for an unknown name.
// The zero fallback keeps malformed order columns from crashing the run.
func (idx *Index) PriceFor(item string) decimal.Decimal {
	if price, ok := idx.prices[item]; ok {
		return price
	}
	return decimal.Zero
}

// CostFor returns the unit cost for item, or zero for an unknown name.
func (idx *Index) CostFor(item string) decimal.Decimal {
	if cost, ok := idx.costs[item]; ok {
		return cost
	}
	return decimal.Zero
}

// Contains reports whether item exists in the catalog.
func (idx *Index) Contains(item string) bool {
	_, ok := idx.prices[item]
	return ok
}

// Items returns the catalog entries in input order.
func (idx *Index) Items() []domain.ItemCatalogEntry {
	return idx.items
}

// Len returns the number of distinct catalog items.
func (idx *Index) Len() int {
	return len(idx.items)
}
