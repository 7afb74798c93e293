package kpi

import (
	"sort"

	"github.com/shopspring/decimal"

	"kpicli/pkg/contracts/domain"
)

// BucketTotal is one (time bucket, decimal total) point of a series.
type BucketTotal struct {
	Bucket string          `json:"bucket"`
	Total  decimal.Decimal `json:"total"`
}

// BucketRate is one (time bucket, percentage) point of a series.
type BucketRate struct {
	Bucket string  `json:"bucket"`
	Rate   float64 `json:"rate"`
}

// BucketCount is one (time bucket, count) point of a series.
type BucketCount struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

// ItemTotal is one (item, total units) point of the item popularity ranking.
type ItemTotal struct {
	Item  string          `json:"item"`
	Units decimal.Decimal `json:"units"`
}

// ItemMonthTotal is one (month bucket, item, units) point of the long-format
// per-item sales series.
type ItemMonthTotal struct {
	Bucket string          `json:"bucket"`
	Item   string          `json:"item"`
	Units  decimal.Decimal `json:"units"`
}

// OrderAverages holds the arithmetic means across all orders.
type OrderAverages struct {
	Value  decimal.Decimal `json:"value"`
	Cost   decimal.Decimal `json:"cost"`
	Profit decimal.Decimal `json:"profit"`
}

// Aggregator exposes one pure query per named KPI over a classified order
// set. Queries share no mutable state and may run concurrently. Every query
// over an empty order set returns an empty series rather than failing.
type Aggregator struct {
	orders []domain.ClassifiedOrder
	items  []domain.ItemCatalogEntry
}

// NewAggregator creates an aggregator over the classified orders. items is
// the catalog in input order; it fixes both the item universe for unit
// totals and the tie-break order of the popularity ranking.
func NewAggregator(orders []domain.ClassifiedOrder, items []domain.ItemCatalogEntry) *Aggregator {
	return &Aggregator{orders: orders, items: items}
}

// MonthlyRevenue sums total order value per calendar month, chronologically.
func (a *Aggregator) MonthlyRevenue() []BucketTotal {
	return a.sumByBucket(monthOf, func(o domain.ClassifiedOrder) decimal.Decimal { return o.TotalValue })
}

// MonthlyCost sums total order cost per calendar month, chronologically.
func (a *Aggregator) MonthlyCost() []BucketTotal {
	return a.sumByBucket(monthOf, func(o domain.ClassifiedOrder) decimal.Decimal { return o.TotalCost })
}

// MonthlyProfit sums total order profit per calendar month, chronologically.
func (a *Aggregator) MonthlyProfit() []BucketTotal {
	return a.sumByBucket(monthOf, func(o domain.ClassifiedOrder) decimal.Decimal { return o.TotalProfit })
}

// YearlyProfit sums total order profit per calendar year, chronologically.
func (a *Aggregator) YearlyProfit() []BucketTotal {
	return a.sumByBucket(yearOf, func(o domain.ClassifiedOrder) decimal.Decimal { return o.TotalProfit })
}

// YearlyCost sums total order cost per calendar year, chronologically.
func (a *Aggregator) YearlyCost() []BucketTotal {
	return a.sumByBucket(yearOf, func(o domain.ClassifiedOrder) decimal.Decimal { return o.TotalCost })
}

// MonthlyRepeatRate computes, per month, the percentage of that month's
// orders placed by repeat customers. Months with zero orders simply do not
// appear, so the rate is never a division by zero and always in [0, 100].
func (a *Aggregator) MonthlyRepeatRate() []BucketRate {
	total := make(map[string]int)
	repeat := make(map[string]int)
	for _, order := range a.orders {
		total[order.Month]++
		if order.IsRepeatCustomer {
			repeat[order.Month]++
		}
	}

	series := make([]BucketRate, 0, len(total))
	for _, bucket := range sortedKeys(total) {
		series = append(series, BucketRate{
			Bucket: bucket,
			Rate:   float64(repeat[bucket]) / float64(total[bucket]) * 100,
		})
	}
	return series
}

// NewCustomersPerMonth counts first orders per calendar month. The series
// is sparse: months in which no customer placed a first order are omitted.
func (a *Aggregator) NewCustomersPerMonth() []BucketCount {
	counts := make(map[string]int)
	for _, order := range a.orders {
		if order.IsFirstOrder {
			counts[order.Month]++
		}
	}

	series := make([]BucketCount, 0, len(counts))
	for _, bucket := range sortedKeys(counts) {
		series = append(series, BucketCount{Bucket: bucket, Count: counts[bucket]})
	}
	return series
}

// UnitsSoldPerItem sums each catalog item's quantity across all orders.
// Every catalog item appears, zero-quantity included, ordered by descending
// total with catalog input order breaking ties.
func (a *Aggregator) UnitsSoldPerItem() []ItemTotal {
	series := make([]ItemTotal, 0, len(a.items))
	for _, item := range a.items {
		units := decimal.Zero
		for _, order := range a.orders {
			units = units.Add(order.Quantity(item.Name))
		}
		series = append(series, ItemTotal{Item: item.Name, Units: units})
	}

	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Units.GreaterThan(series[j].Units)
	})
	return series
}

// MonthlySalesPerItem sums quantities per (month, item) pair. The output is
// sparse: pairs with zero or missing quantity are excluded, never
// zero-filled. Ordered chronologically, catalog order within a month.
func (a *Aggregator) MonthlySalesPerItem() []ItemMonthTotal {
	type key struct{ bucket, item string }
	sums := make(map[key]decimal.Decimal)
	months := make(map[string]struct{})
	for _, order := range a.orders {
		months[order.Month] = struct{}{}
		for _, item := range a.items {
			if qty := order.Quantity(item.Name); qty.IsPositive() {
				k := key{order.Month, item.Name}
				sums[k] = sums[k].Add(qty)
			}
		}
	}

	series := make([]ItemMonthTotal, 0, len(sums))
	for _, bucket := range sortedKeys(months) {
		for _, item := range a.items {
			if units, ok := sums[key{bucket, item.Name}]; ok {
				series = append(series, ItemMonthTotal{Bucket: bucket, Item: item.Name, Units: units})
			}
		}
	}
	return series
}

// TotalSalesPerMonth sums units across all items per month, usable as an
// overlay on the per-item series.
func (a *Aggregator) TotalSalesPerMonth() []BucketTotal {
	sums := make(map[string]decimal.Decimal)
	for _, point := range a.MonthlySalesPerItem() {
		sums[point.Bucket] = sums[point.Bucket].Add(point.Units)
	}

	series := make([]BucketTotal, 0, len(sums))
	for _, bucket := range sortedKeys(sums) {
		series = append(series, BucketTotal{Bucket: bucket, Total: sums[bucket]})
	}
	return series
}

// Averages computes the arithmetic mean of order value, cost and profit.
// The second return is false for an empty order set: the averages are
// undefined then, not zero.
func (a *Aggregator) Averages() (OrderAverages, bool) {
	if len(a.orders) == 0 {
		return OrderAverages{}, false
	}

	value := decimal.Zero
	cost := decimal.Zero
	profit := decimal.Zero
	for _, order := range a.orders {
		value = value.Add(order.TotalValue)
		cost = cost.Add(order.TotalCost)
		profit = profit.Add(order.TotalProfit)
	}

	n := decimal.NewFromInt(int64(len(a.orders)))
	return OrderAverages{
		Value:  value.Div(n),
		Cost:   cost.Div(n),
		Profit: profit.Div(n),
	}, true
}

// sumByBucket groups orders by bucket key and sums the selected amount,
// returning points in chronological bucket order. Bucket keys are
// zero-padded ISO prefixes, so lexicographic order is chronological.
func (a *Aggregator) sumByBucket(bucketOf func(domain.ClassifiedOrder) string, amountOf func(domain.ClassifiedOrder) decimal.Decimal) []BucketTotal {
	sums := make(map[string]decimal.Decimal)
	for _, order := range a.orders {
		bucket := bucketOf(order)
		sums[bucket] = sums[bucket].Add(amountOf(order))
	}

	series := make([]BucketTotal, 0, len(sums))
	for _, bucket := range sortedKeys(sums) {
		series = append(series, BucketTotal{Bucket: bucket, Total: sums[bucket]})
	}
	return series
}

func monthOf(o domain.ClassifiedOrder) string { return o.Month }
func yearOf(o domain.ClassifiedOrder) string  { return o.Year }

// sortedKeys returns the map keys in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
