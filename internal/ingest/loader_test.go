package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "kpicli/internal/errors"
)

func TestReadCatalog(t *testing.T) {
	csv := "Item,Price,Cost\nCake,20,8\nPie,15.50,6.25\n"

	entries, err := ReadCatalog(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "Cake", entries[0].Name)
	assert.Equal(t, "20", entries[0].Price.String())
	assert.Equal(t, "8", entries[0].Cost.String())
	assert.Equal(t, "15.5", entries[1].Price.String())
}

func TestReadCatalogStripsBOM(t *testing.T) {
	csv := "\xEF\xBB\xBFItem,Price,Cost\nCake,20,8\n"

	entries, err := ReadCatalog(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Cake", entries[0].Name)
}

func TestReadCatalogMissingColumn(t *testing.T) {
	tests := []struct {
		name   string
		csv    string
		column string
	}{
		{"no item column", "Name,Price,Cost\nCake,20,8\n", "Item"},
		{"no price column", "Item,Cost\nCake,8\n", "Price"},
		{"no cost column", "Item,Price\nCake,20\n", "Cost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCatalog(strings.NewReader(tt.csv))
			var missing *apperrors.MissingColumnError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.column, missing.Column)
			assert.Equal(t, "item catalog", missing.Table)
		})
	}
}

func TestReadCatalogRejectsNegativeAmounts(t *testing.T) {
	_, err := ReadCatalog(strings.NewReader("Item,Price,Cost\nCake,-20,8\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad price")
}

func TestReadCatalogDollarPrefix(t *testing.T) {
	entries, err := ReadCatalog(strings.NewReader("Item,Price,Cost\nCake,$20,$8\n"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "20", entries[0].Price.String())
}

var testSchema = LedgerSchema{DateColumn: "Pickup Date", EmailColumn: "Email Address"}

func TestReadOrders(t *testing.T) {
	csv := "Pickup Date,Email Address,Cake,Pie,Notes\n" +
		"2024-01-05,alice@example.com,2,,gift wrap\n" +
		"2024-01-20,bob@example.com,1,3,\n"

	orders, err := ReadOrders(strings.NewReader(csv), testSchema, []string{"Cake", "Pie"})
	require.NoError(t, err)
	require.Len(t, orders, 2)

	first := orders[0]
	assert.Equal(t, 0, first.RowIndex)
	assert.Equal(t, "alice@example.com", first.CustomerID)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), first.OrderedAt)
	assert.Equal(t, "2", first.Quantity("Cake").String())
	// Blank cell means zero, not an error.
	assert.True(t, first.Quantity("Pie").IsZero())

	second := orders[1]
	assert.Equal(t, "3", second.Quantity("Pie").String())
}

func TestReadOrdersIgnoresNonCatalogColumns(t *testing.T) {
	csv := "Pickup Date,Email Address,Cake,Tip\n2024-01-05,alice@example.com,1,not-a-number\n"

	orders, err := ReadOrders(strings.NewReader(csv), testSchema, []string{"Cake"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.True(t, orders[0].Quantity("Tip").IsZero())
}

func TestReadOrdersMissingColumns(t *testing.T) {
	tests := []struct {
		name   string
		csv    string
		column string
	}{
		{"no date column", "Email Address,Cake\nalice@example.com,1\n", "Pickup Date"},
		{"no email column", "Pickup Date,Cake\n2024-01-05,1\n", "Email Address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadOrders(strings.NewReader(tt.csv), testSchema, []string{"Cake"})
			var missing *apperrors.MissingColumnError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.column, missing.Column)
			assert.Equal(t, "order ledger", missing.Table)
		})
	}
}

func TestReadOrdersMalformedQuantity(t *testing.T) {
	csv := "Pickup Date,Email Address,Cake\n2024-01-05,alice@example.com,two\n"

	_, err := ReadOrders(strings.NewReader(csv), testSchema, []string{"Cake"})
	var malformed *apperrors.MalformedQuantityError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 1, malformed.Row)
	assert.Equal(t, "Cake", malformed.Item)
	assert.Equal(t, "two", malformed.Value)
}

func TestReadOrdersEmptyCustomer(t *testing.T) {
	csv := "Pickup Date,Email Address,Cake\n2024-01-05,,1\n"

	_, err := ReadOrders(strings.NewReader(csv), testSchema, []string{"Cake"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty customer identifier")
}

func TestReadOrdersDateLayouts(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want time.Time
	}{
		{"iso date", "2024-03-09", time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)},
		{"iso datetime", "2024-03-09 14:30:00", time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)},
		{"us slash date", "3/9/2024", time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			csv := "Pickup Date,Email Address\n" + tt.cell + ",alice@example.com\n"
			orders, err := ReadOrders(strings.NewReader(csv), testSchema, nil)
			require.NoError(t, err)
			require.Len(t, orders, 1)
			assert.Equal(t, tt.want, orders[0].OrderedAt)
		})
	}
}

func TestReadOrdersUnparseableDate(t *testing.T) {
	csv := "Pickup Date,Email Address\nnot-a-date,alice@example.com\n"

	_, err := ReadOrders(strings.NewReader(csv), testSchema, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unparseable order timestamp")
}
