package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "kpicli/internal/errors"
	"kpicli/pkg/contracts/domain"
)

func entry(name string, price, cost int64) domain.ItemCatalogEntry {
	return domain.ItemCatalogEntry{
		Name:  name,
		Price: decimal.NewFromInt(price),
		Cost:  decimal.NewFromInt(cost),
	}
}

func TestNewIndex(t *testing.T) {
	tests := []struct {
		name    string
		entries []domain.ItemCatalogEntry
		wantLen int
		wantErr bool
	}{
		{
			name:    "empty catalog",
			entries: nil,
			wantLen: 0,
		},
		{
			name:    "distinct items",
			entries: []domain.ItemCatalogEntry{entry("Cake", 20, 8), entry("Pie", 15, 6)},
			wantLen: 2,
		},
		{
			name:    "identical restatement tolerated",
			entries: []domain.ItemCatalogEntry{entry("Cake", 20, 8), entry("Cake", 20, 8)},
			wantLen: 1,
		},
		{
			name:    "conflicting price rejected",
			entries: []domain.ItemCatalogEntry{entry("Cake", 20, 8), entry("Cake", 25, 8)},
			wantErr: true,
		},
		{
			name:    "conflicting cost rejected",
			entries: []domain.ItemCatalogEntry{entry("Cake", 20, 8), entry("Cake", 20, 9)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := NewIndex(tt.entries)
			if tt.wantErr {
				require.Error(t, err)
				var dup *apperrors.DuplicateItemError
				require.ErrorAs(t, err, &dup)
				assert.Equal(t, "Cake", dup.Item)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, idx.Len())
		})
	}
}

func TestIndexLookups(t *testing.T) {
	idx, err := NewIndex([]domain.ItemCatalogEntry{entry("Cake", 20, 8)})
	require.NoError(t, err)

	assert.True(t, idx.PriceFor("Cake").Equal(decimal.NewFromInt(20)))
	assert.True(t, idx.CostFor("Cake").Equal(decimal.NewFromInt(8)))
	assert.True(t, idx.Contains("Cake"))

	// Unknown names resolve to zero so malformed order columns cannot
	// crash the pipeline.
	assert.True(t, idx.PriceFor("Bread").IsZero())
	assert.True(t, idx.CostFor("Bread").IsZero())
	assert.False(t, idx.Contains("Bread"))
}

func TestIndexItemsPreserveInputOrder(t *testing.T) {
	idx, err := NewIndex([]domain.ItemCatalogEntry{
		entry("Pie", 15, 6),
		entry("Cake", 20, 8),
		entry("Pie", 15, 6), // restatement must not reorder or duplicate
		entry("Scone", 4, 1),
	})
	require.NoError(t, err)

	items := idx.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "Pie", items[0].Name)
	assert.Equal(t, "Cake", items[1].Name)
	assert.Equal(t, "Scone", items[2].Name)
}
