// Package kpi derives the business KPI series from the raw order ledger:
// per-order enrichment, customer classification and the aggregate queries.
package kpi

import (
	"github.com/shopspring/decimal"

	"kpicli/internal/catalog"
	apperrors "kpicli/internal/errors"
	"kpicli/pkg/contracts/domain"
)

// EnrichOrders joins each order against the catalog index to compute its
// monetary value, cost and profit, and assigns its time buckets. The input
// is never mutated; a new collection is returned. A negative quantity
// aborts enrichment with a MalformedQuantityError before any total is
// produced.
func EnrichOrders(orders []domain.OrderRecord, idx *catalog.Index) ([]domain.EnrichedOrder, error) {
	enriched := make([]domain.EnrichedOrder, 0, len(orders))

	for _, order := range orders {
		value := decimal.Zero
		cost := decimal.Zero

		for item, qty := range order.Quantities {
			if qty.IsNegative() {
				return nil, &apperrors.MalformedQuantityError{
					Row:   order.RowIndex + 1,
					Item:  item,
					Value: qty.String(),
				}
			}
			value = value.Add(qty.Mul(idx.PriceFor(item)))
			cost = cost.Add(qty.Mul(idx.CostFor(item)))
		}

		enriched = append(enriched, domain.EnrichedOrder{
			OrderRecord: order,
			TotalValue:  value,
			TotalCost:   cost,
			TotalProfit: value.Sub(cost),
			Month:       order.MonthBucket(),
			Year:        order.YearBucket(),
		})
	}

	return enriched, nil
}
