package kpi

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"kpicli/internal/catalog"
	"kpicli/pkg/contracts/domain"
)

// Shared fixture: three items, three customers, orders spanning two years.
// Alice orders three times, Bob and Carol once each, Tart is never ordered.

func testCatalog() []domain.ItemCatalogEntry {
	return []domain.ItemCatalogEntry{
		{Name: "Cake", Price: decimal.NewFromInt(20), Cost: decimal.NewFromInt(8)},
		{Name: "Pie", Price: decimal.NewFromInt(15), Cost: decimal.NewFromInt(6)},
		{Name: "Tart", Price: decimal.NewFromInt(10), Cost: decimal.NewFromInt(4)},
	}
}

func testOrders() []domain.OrderRecord {
	return []domain.OrderRecord{
		order(0, "alice@example.com", "2024-01-05", map[string]int64{"Cake": 2}),
		order(1, "bob@example.com", "2024-01-20", map[string]int64{"Cake": 1, "Pie": 1}),
		order(2, "alice@example.com", "2024-03-09", map[string]int64{"Pie": 2}),
		order(3, "carol@example.com", "2024-03-15", map[string]int64{"Cake": 1}),
		order(4, "alice@example.com", "2025-01-02", map[string]int64{"Cake": 1}),
	}
}

func order(row int, customer, date string, items map[string]int64) domain.OrderRecord {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	quantities := make(map[string]decimal.Decimal, len(items))
	for item, qty := range items {
		quantities[item] = decimal.NewFromInt(qty)
	}
	return domain.OrderRecord{
		RowIndex:   row,
		CustomerID: customer,
		OrderedAt:  t,
		Quantities: quantities,
	}
}

// classify runs the full enrich-then-classify path over the fixture.
func classify(t *testing.T, orders []domain.OrderRecord) []domain.ClassifiedOrder {
	t.Helper()
	idx, err := catalog.NewIndex(testCatalog())
	require.NoError(t, err)
	enriched, err := EnrichOrders(orders, idx)
	require.NoError(t, err)
	return ClassifyOrders(enriched)
}
