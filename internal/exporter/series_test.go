package exporter

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kpicli/internal/kpi"
	"kpicli/pkg/contracts/domain"
)

func testReport() *kpi.Report {
	return &kpi.Report{
		MonthlyRevenue: []kpi.BucketTotal{
			{Bucket: "2024-01", Total: decimal.NewFromInt(75)},
			{Bucket: "2024-03", Total: decimal.NewFromInt(50)},
		},
		MonthlyCost: []kpi.BucketTotal{
			{Bucket: "2024-01", Total: decimal.NewFromInt(30)},
			{Bucket: "2024-03", Total: decimal.NewFromInt(20)},
		},
		MonthlyProfit: []kpi.BucketTotal{
			{Bucket: "2024-01", Total: decimal.NewFromInt(45)},
			{Bucket: "2024-03", Total: decimal.NewFromInt(30)},
		},
		YearlyProfit: []kpi.BucketTotal{{Bucket: "2024", Total: decimal.NewFromInt(75)}},
		YearlyCost:   []kpi.BucketTotal{{Bucket: "2024", Total: decimal.NewFromInt(50)}},
		MonthlyRepeatRate: []kpi.BucketRate{
			{Bucket: "2024-01", Rate: 50},
			{Bucket: "2024-03", Rate: 50},
		},
		NewCustomersPerMonth: []kpi.BucketCount{{Bucket: "2024-01", Count: 2}},
		UnitsSoldPerItem: []kpi.ItemTotal{
			{Item: "Cake", Units: decimal.NewFromInt(4)},
			{Item: "Pie", Units: decimal.NewFromInt(3)},
		},
		MonthlySalesPerItem: []kpi.ItemMonthTotal{
			{Bucket: "2024-01", Item: "Cake", Units: decimal.NewFromInt(3)},
			{Bucket: "2024-01", Item: "Pie", Units: decimal.NewFromInt(1)},
			{Bucket: "2024-03", Item: "Pie", Units: decimal.NewFromInt(2)},
		},
		TotalSalesPerMonth: []kpi.BucketTotal{
			{Bucket: "2024-01", Total: decimal.NewFromInt(4)},
			{Bucket: "2024-03", Total: decimal.NewFromInt(2)},
		},
		Averages: &kpi.OrderAverages{
			Value:  decimal.NewFromInt(29),
			Cost:   decimal.RequireFromString("11.6"),
			Profit: decimal.RequireFromString("17.4"),
		},
	}
}

func testItems() []domain.ItemCatalogEntry {
	return []domain.ItemCatalogEntry{
		{Name: "Cake", Price: decimal.NewFromInt(20), Cost: decimal.NewFromInt(8)},
		{Name: "Pie", Price: decimal.NewFromInt(15), Cost: decimal.NewFromInt(6)},
	}
}

func TestBuildBundleSeriesOrder(t *testing.T) {
	bundle := BuildBundle(testReport(), testItems())

	assert.Equal(t, []string{
		SeriesItemPriceCost,
		SeriesMonthlyRevenue,
		SeriesMonthlyCost,
		SeriesMonthlyProfit,
		SeriesYearlyProfit,
		SeriesYearlyCost,
		SeriesMonthlyRevenueVsCOGS,
		SeriesMonthlyRepeatRate,
		SeriesNewCustomersPerMonth,
		SeriesUnitsSoldPerItem,
		SeriesMonthlySalesPerItem,
		SeriesTotalSalesPerMonth,
		SeriesAverageOrderMetrics,
	}, bundle.Names())
	assert.False(t, bundle.GeneratedAt.IsZero())
}

func TestBundleGet(t *testing.T) {
	bundle := BuildBundle(testReport(), testItems())

	series, ok := bundle.Get(SeriesMonthlyRevenue)
	require.True(t, ok)
	assert.Equal(t, "Monthly Revenue Generation", series.Title)
	assert.Equal(t, UnitCurrency, series.Unit)
	require.Len(t, series.Points, 2)
	assert.Equal(t, "2024-01", series.Points[0].Label)
	assert.Equal(t, 75.0, series.Points[0].Value)

	_, ok = bundle.Get("no_such_series")
	assert.False(t, ok)
}

func TestPriceCostSeries(t *testing.T) {
	bundle := BuildBundle(testReport(), testItems())

	series, ok := bundle.Get(SeriesItemPriceCost)
	require.True(t, ok)
	require.Len(t, series.Points, 4)

	assert.Equal(t, Point{Label: "Cake", SubLabel: "Price", Value: 20}, series.Points[0])
	assert.Equal(t, Point{Label: "Cake", SubLabel: "Cost", Value: 8}, series.Points[1])
	assert.Equal(t, Point{Label: "Pie", SubLabel: "Price", Value: 15}, series.Points[2])
	assert.Equal(t, Point{Label: "Pie", SubLabel: "Cost", Value: 6}, series.Points[3])
}

func TestRevenueVsCOGSSeries(t *testing.T) {
	bundle := BuildBundle(testReport(), testItems())

	series, ok := bundle.Get(SeriesMonthlyRevenueVsCOGS)
	require.True(t, ok)
	require.Len(t, series.Points, 4)

	assert.Equal(t, "Revenue", series.Points[0].SubLabel)
	assert.Equal(t, "Revenue", series.Points[1].SubLabel)
	assert.Equal(t, "COGS", series.Points[2].SubLabel)
	assert.Equal(t, "COGS", series.Points[3].SubLabel)
	assert.Equal(t, 75.0, series.Points[0].Value)
	assert.Equal(t, 30.0, series.Points[2].Value)
}

func TestMonthlySalesPerItemSeries(t *testing.T) {
	bundle := BuildBundle(testReport(), testItems())

	series, ok := bundle.Get(SeriesMonthlySalesPerItem)
	require.True(t, ok)
	require.Len(t, series.Points, 3)
	assert.Equal(t, Point{Label: "2024-01", SubLabel: "Cake", Value: 3}, series.Points[0])
	assert.Equal(t, UnitCount, series.Unit)
}

func TestRepeatRateSeriesUnit(t *testing.T) {
	bundle := BuildBundle(testReport(), testItems())

	series, ok := bundle.Get(SeriesMonthlyRepeatRate)
	require.True(t, ok)
	assert.Equal(t, UnitPercent, series.Unit)
	assert.Equal(t, 50.0, series.Points[0].Value)
}

func TestAveragesSeries(t *testing.T) {
	bundle := BuildBundle(testReport(), testItems())

	series, ok := bundle.Get(SeriesAverageOrderMetrics)
	require.True(t, ok)
	require.Len(t, series.Points, 3)
	assert.Equal(t, "Average Order Value", series.Points[0].Label)
	assert.Equal(t, 29.0, series.Points[0].Value)
	assert.InDelta(t, 11.6, series.Points[1].Value, 1e-9)
	assert.InDelta(t, 17.4, series.Points[2].Value, 1e-9)
}

func TestAveragesSeriesEmptyWhenUndefined(t *testing.T) {
	report := testReport()
	report.Averages = nil

	bundle := BuildBundle(report, testItems())
	series, ok := bundle.Get(SeriesAverageOrderMetrics)
	require.True(t, ok)
	assert.Empty(t, series.Points)
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		unit  Unit
		want  string
	}{
		{"currency two decimals", 13.4, UnitCurrency, "13.40"},
		{"currency whole", 75, UnitCurrency, "75.00"},
		{"percent", 50, UnitPercent, "50.00"},
		{"whole count", 4, UnitCount, "4"},
		{"fractional count", 2.5, UnitCount, "2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatValue(tt.value, tt.unit))
		})
	}
}
