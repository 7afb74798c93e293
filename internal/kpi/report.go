package kpi

import (
	"context"

	"golang.org/x/sync/errgroup"

	"kpicli/pkg/contracts/domain"
)

// Report is the full set of aggregate series for one pipeline run.
// Averages is nil when the dataset has no orders.
type Report struct {
	MonthlyRevenue       []BucketTotal
	MonthlyCost          []BucketTotal
	MonthlyProfit        []BucketTotal
	YearlyProfit         []BucketTotal
	YearlyCost           []BucketTotal
	MonthlyRepeatRate    []BucketRate
	NewCustomersPerMonth []BucketCount
	UnitsSoldPerItem     []ItemTotal
	MonthlySalesPerItem  []ItemMonthTotal
	TotalSalesPerMonth   []BucketTotal
	Averages             *OrderAverages
}

// BuildReport evaluates every aggregate query over the classified order
// set. The queries are pure and share no mutable state, so each one runs
// on its own goroutine; each writes a distinct Report field.
func BuildReport(ctx context.Context, orders []domain.ClassifiedOrder, items []domain.ItemCatalogEntry) (*Report, error) {
	agg := NewAggregator(orders, items)
	report := &Report{}

	g, ctx := errgroup.WithContext(ctx)
	queries := []func(){
		func() { report.MonthlyRevenue = agg.MonthlyRevenue() },
		func() { report.MonthlyCost = agg.MonthlyCost() },
		func() { report.MonthlyProfit = agg.MonthlyProfit() },
		func() { report.YearlyProfit = agg.YearlyProfit() },
		func() { report.YearlyCost = agg.YearlyCost() },
		func() { report.MonthlyRepeatRate = agg.MonthlyRepeatRate() },
		func() { report.NewCustomersPerMonth = agg.NewCustomersPerMonth() },
		func() { report.UnitsSoldPerItem = agg.UnitsSoldPerItem() },
		func() { report.MonthlySalesPerItem = agg.MonthlySalesPerItem() },
		func() { report.TotalSalesPerMonth = agg.TotalSalesPerMonth() },
		func() {
			if avg, ok := agg.Averages(); ok {
				report.Averages = &avg
			}
		},
	}
	for _, query := range queries {
		query := query
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			query()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}
