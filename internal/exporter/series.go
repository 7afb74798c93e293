// Package exporter formats aggregate results into ordered, annotated chart
// series. It performs no numeric computation beyond representation
// conversion and preserves every ordering guarantee the aggregator
// established.
package exporter

import (
	"time"

	"kpicli/internal/kpi"
	"kpicli/pkg/contracts/domain"
)

// Unit annotates a series axis so the presentation layer never has to
// infer semantics.
type Unit string

const (
	UnitCurrency Unit = "currency"
	UnitPercent  Unit = "percent"
	UnitCount    Unit = "count"
)

// Series names are the stable keys of the handoff contract.
const (
	SeriesItemPriceCost        = "item_price_cost"
	SeriesMonthlyRevenue       = "monthly_revenue"
	SeriesMonthlyCost          = "monthly_cost"
	SeriesMonthlyProfit        = "monthly_profit"
	SeriesYearlyProfit         = "yearly_profit"
	SeriesYearlyCost           = "yearly_cost"
	SeriesMonthlyRevenueVsCOGS = "monthly_revenue_vs_cogs"
	SeriesMonthlyRepeatRate    = "monthly_repeat_rate"
	SeriesNewCustomersPerMonth = "new_customers_per_month"
	SeriesUnitsSoldPerItem     = "units_sold_per_item"
	SeriesMonthlySalesPerItem  = "monthly_sales_per_item"
	SeriesTotalSalesPerMonth   = "total_sales_per_month"
	SeriesAverageOrderMetrics  = "average_order_metrics"
)

// Point is one (label, value) pair of a series. SubLabel carries the second
// grouping dimension of long-format series (the item of a month/item pair,
// or the component name of a multi-series overlay).
type Point struct {
	Label    string  `json:"label"`
	SubLabel string  `json:"sub_label,omitempty"`
	Value    float64 `json:"value"`
}

// ChartSeries is one finished, ready-to-plot series with explicit axis
// titles and a unit annotation.
type ChartSeries struct {
	Name   string  `json:"name"`
	Title  string  `json:"title"`
	XAxis  string  `json:"x_axis"`
	YAxis  string  `json:"y_axis"`
	Unit   Unit    `json:"unit"`
	Points []Point `json:"points"`
}

// Bundle is the sole handoff contract to the out-of-scope presentation
// layer: every KPI series of one pipeline run, in a fixed display order.
type Bundle struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Series      []ChartSeries `json:"series"`
}

// Get returns the named series.
func (b *Bundle) Get(name string) (ChartSeries, bool) {
	for _, s := range b.Series {
		if s.Name == name {
			return s, true
		}
	}
	return ChartSeries{}, false
}

// Names returns the series names in display order.
func (b *Bundle) Names() []string {
	names := make([]string, len(b.Series))
	for i, s := range b.Series {
		names[i] = s.Name
	}
	return names
}

// BuildBundle converts a KPI report plus the catalog into the exported
// series bundle. An undefined averages aggregate (zero orders) exports as
// an empty points list, never as zeros.
func BuildBundle(report *kpi.Report, items []domain.ItemCatalogEntry) *Bundle {
	bundle := &Bundle{GeneratedAt: time.Now().UTC()}

	bundle.Series = append(bundle.Series,
		priceCostSeries(items),
		totalSeries(SeriesMonthlyRevenue, "Monthly Revenue Generation", "Year-Month", "Revenue ($)", UnitCurrency, report.MonthlyRevenue),
		totalSeries(SeriesMonthlyCost, "Monthly Cost of Goods Sold", "Year-Month", "COGS ($)", UnitCurrency, report.MonthlyCost),
		totalSeries(SeriesMonthlyProfit, "Monthly Profit", "Year-Month", "Profit ($)", UnitCurrency, report.MonthlyProfit),
		totalSeries(SeriesYearlyProfit, "Sum of Total Order Profits by Year", "Year", "Total Order Profit ($)", UnitCurrency, report.YearlyProfit),
		totalSeries(SeriesYearlyCost, "Sum of Total Order Costs by Year", "Year", "Total Order Cost ($)", UnitCurrency, report.YearlyCost),
		revenueVsCOGSSeries(report),
		rateSeries(SeriesMonthlyRepeatRate, "Monthly Repeat Customer Rate", "Year-Month", "Repeat Customer Rate (%)", report.MonthlyRepeatRate),
		countSeries(SeriesNewCustomersPerMonth, "New Customers Acquired Each Month", "Year-Month", "Number of New Customers", report.NewCustomersPerMonth),
		unitsSeries(report.UnitsSoldPerItem),
		monthlyItemSeries(report.MonthlySalesPerItem),
		totalSeries(SeriesTotalSalesPerMonth, "Total Sales Per Month", "Year-Month", "Quantity Sold", UnitCount, report.TotalSalesPerMonth),
		averagesSeries(report.Averages),
	)

	return bundle
}

// priceCostSeries compares price against cost for each catalog item, in
// catalog input order.
func priceCostSeries(items []domain.ItemCatalogEntry) ChartSeries {
	points := make([]Point, 0, 2*len(items))
	for _, item := range items {
		points = append(points,
			Point{Label: item.Name, SubLabel: "Price", Value: item.Price.InexactFloat64()},
			Point{Label: item.Name, SubLabel: "Cost", Value: item.Cost.InexactFloat64()},
		)
	}
	return ChartSeries{
		Name:   SeriesItemPriceCost,
		Title:  "Cost and Price for Each Item",
		XAxis:  "Item",
		YAxis:  "Amount ($)",
		Unit:   UnitCurrency,
		Points: points,
	}
}

// revenueVsCOGSSeries interleaves the monthly revenue and cost series into
// one overlay table so the chart layer compares them without computing.
func revenueVsCOGSSeries(report *kpi.Report) ChartSeries {
	points := make([]Point, 0, len(report.MonthlyRevenue)+len(report.MonthlyCost))
	for _, p := range report.MonthlyRevenue {
		points = append(points, Point{Label: p.Bucket, SubLabel: "Revenue", Value: p.Total.InexactFloat64()})
	}
	for _, p := range report.MonthlyCost {
		points = append(points, Point{Label: p.Bucket, SubLabel: "COGS", Value: p.Total.InexactFloat64()})
	}
	return ChartSeries{
		Name:   SeriesMonthlyRevenueVsCOGS,
		Title:  "Monthly Revenue vs. COGS",
		XAxis:  "Year-Month",
		YAxis:  "Amount ($)",
		Unit:   UnitCurrency,
		Points: points,
	}
}

func unitsSeries(totals []kpi.ItemTotal) ChartSeries {
	points := make([]Point, 0, len(totals))
	for _, p := range totals {
		points = append(points, Point{Label: p.Item, Value: p.Units.InexactFloat64()})
	}
	return ChartSeries{
		Name:   SeriesUnitsSoldPerItem,
		Title:  "Units Sold Per Item",
		XAxis:  "Item",
		YAxis:  "Units Sold",
		Unit:   UnitCount,
		Points: points,
	}
}

func monthlyItemSeries(totals []kpi.ItemMonthTotal) ChartSeries {
	points := make([]Point, 0, len(totals))
	for _, p := range totals {
		points = append(points, Point{Label: p.Bucket, SubLabel: p.Item, Value: p.Units.InexactFloat64()})
	}
	return ChartSeries{
		Name:   SeriesMonthlySalesPerItem,
		Title:  "Monthly Sales Per Item",
		XAxis:  "Year-Month",
		YAxis:  "Quantity Sold",
		Unit:   UnitCount,
		Points: points,
	}
}

func averagesSeries(avg *kpi.OrderAverages) ChartSeries {
	series := ChartSeries{
		Name:   SeriesAverageOrderMetrics,
		Title:  "Average Order Metrics",
		XAxis:  "Metric",
		YAxis:  "Amount ($)",
		Unit:   UnitCurrency,
		Points: []Point{},
	}
	if avg == nil {
		return series
	}
	series.Points = []Point{
		{Label: "Average Order Value", Value: avg.Value.InexactFloat64()},
		{Label: "Average Order Cost", Value: avg.Cost.InexactFloat64()},
		{Label: "Average Order Profit", Value: avg.Profit.InexactFloat64()},
	}
	return series
}

func totalSeries(name, title, xAxis, yAxis string, unit Unit, totals []kpi.BucketTotal) ChartSeries {
	points := make([]Point, 0, len(totals))
	for _, p := range totals {
		points = append(points, Point{Label: p.Bucket, Value: p.Total.InexactFloat64()})
	}
	return ChartSeries{Name: name, Title: title, XAxis: xAxis, YAxis: yAxis, Unit: unit, Points: points}
}

func rateSeries(name, title, xAxis, yAxis string, rates []kpi.BucketRate) ChartSeries {
	points := make([]Point, 0, len(rates))
	for _, p := range rates {
		points = append(points, Point{Label: p.Bucket, Value: p.Rate})
	}
	return ChartSeries{Name: name, Title: title, XAxis: xAxis, YAxis: yAxis, Unit: UnitPercent, Points: points}
}

func countSeries(name, title, xAxis, yAxis string, counts []kpi.BucketCount) ChartSeries {
	points := make([]Point, 0, len(counts))
	for _, p := range counts {
		points = append(points, Point{Label: p.Bucket, Value: float64(p.Count)})
	}
	return ChartSeries{Name: name, Title: title, XAxis: xAxis, YAxis: yAxis, Unit: UnitCount, Points: points}
}
