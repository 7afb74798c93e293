package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemCatalogEntry is one row of the item catalog: a sellable item with its
// selling price and unit cost. Entries are immutable once loaded.
type ItemCatalogEntry struct {
	Name  string          `json:"item" validate:"required"`
	Price decimal.Decimal `json:"price"`
	Cost  decimal.Decimal `json:"cost"`
}

// OrderRecord is one row of the order ledger. Quantities map item names to
// ordered quantities; an absent item means zero. RowIndex is the zero-based
// position of the row in the input and is used as a stable tie-break.
type OrderRecord struct {
	RowIndex   int                        `json:"row_index"`
	CustomerID string                     `json:"customer_id" validate:"required"`
	OrderedAt  time.Time                  `json:"ordered_at"`
	Quantities map[string]decimal.Decimal `json:"quantities"`
}

// Quantity returns the ordered quantity for item, zero when absent.
func (o OrderRecord) Quantity(item string) decimal.Decimal {
	if q, ok := o.Quantities[item]; ok {
		return q
	}
	return decimal.Zero
}

// MonthBucket returns the calendar-month grouping key, e.g. "2024-03".
func (o OrderRecord) MonthBucket() string {
	return o.OrderedAt.Format("2006-01")
}

// YearBucket returns the calendar-year grouping key, e.g. "2024".
func (o OrderRecord) YearBucket() string {
	return o.OrderedAt.Format("2006")
}

// EnrichedOrder is an OrderRecord augmented with its monetary totals and
// time buckets. TotalProfit is always exactly TotalValue minus TotalCost.
type EnrichedOrder struct {
	OrderRecord

	TotalValue  decimal.Decimal `json:"total_value"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	TotalProfit decimal.Decimal `json:"total_profit"`
	Month       string          `json:"month_bucket"`
	Year        string          `json:"year_bucket"`
}

// ClassifiedOrder is an EnrichedOrder augmented with customer loyalty flags.
// IsRepeatCustomer is a dataset-wide property: every order of a customer
// with two or more orders carries it, including that customer's first order.
type ClassifiedOrder struct {
	EnrichedOrder

	IsRepeatCustomer bool `json:"is_repeat_customer"`
	IsFirstOrder     bool `json:"is_first_order"`
}

// CustomerSummary holds the dataset-wide customer figures. RepeatRate is the
// ratio (total orders - unique customers) / unique customers, i.e. the
// average number of extra orders per customer. It is intentionally a
// different metric from the monthly repeat-order percentage and the two are
// never unified in output labels.
type CustomerSummary struct {
	UniqueCustomers int     `json:"unique_customers"`
	TotalOrders     int     `json:"total_orders"`
	RepeatRate      float64 `json:"repeat_rate"`
	UniqueRate      float64 `json:"unique_rate"`
}
