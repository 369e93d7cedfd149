package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sangkips/hotelpos-api/internal/domain/billing"
)

func TestDiffStockForCreditInvoice(t *testing.T) {
	tests := []struct {
		name     string
		original []billing.OriginalLine
		current  []billing.LineItem
		expected []billing.StockDelta
	}{
		{
			name:     "increased quantity",
			original: []billing.OriginalLine{{Code: "R1", Quantity: 2}},
			current:  []billing.LineItem{{Code: "R1", Quantity: 5}},
			expected: []billing.StockDelta{{Code: "R1", SignedQuantity: 3}},
		},
		{
			name:     "decreased quantity",
			original: []billing.OriginalLine{{Code: "F1", Quantity: 5}},
			current:  []billing.LineItem{{Code: "F1", Quantity: 2}},
			expected: []billing.StockDelta{{Code: "F1", SignedQuantity: -3}},
		},
		{
			name:     "removed item",
			original: []billing.OriginalLine{{Code: "F1", Quantity: 4}},
			current:  []billing.LineItem{},
			expected: []billing.StockDelta{{Code: "F1", SignedQuantity: -4}},
		},
		{
			name:     "unchanged item emits nothing",
			original: []billing.OriginalLine{{Code: "F1", Quantity: 4}},
			current:  []billing.LineItem{{Code: "F1", Quantity: 4}},
			expected: []billing.StockDelta{},
		},
		{
			name:     "new, changed and removed",
			original: []billing.OriginalLine{{Code: "A", Quantity: 1}, {Code: "B", Quantity: 2}},
			current:  []billing.LineItem{{Code: "C", Quantity: 3}, {Code: "A", Quantity: 2}},
			expected: []billing.StockDelta{
				{Code: "C", SignedQuantity: 3},
				{Code: "A", SignedQuantity: 1},
				{Code: "B", SignedQuantity: -2},
			},
		},
		{
			name:     "duplicate codes aggregate",
			original: []billing.OriginalLine{{Code: "A", Quantity: 2}},
			current:  []billing.LineItem{{Code: "A", Quantity: 1}, {Code: "A", Quantity: 3}},
			expected: []billing.StockDelta{{Code: "A", SignedQuantity: 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, billing.DiffStockForCreditInvoice(tt.original, tt.current))
		})
	}
}

func TestDiffStockForNewInvoice(t *testing.T) {
	got := billing.DiffStockForNewInvoice([]billing.LineItem{{Code: "F2", Quantity: 2}})
	assert.Equal(t, []billing.StockDelta{{Code: "F2", SignedQuantity: 2}}, got)

	assert.Empty(t, billing.DiffStockForNewInvoice(nil))
}

func TestCreditDiffRoundTripsToZero(t *testing.T) {
	items := []billing.LineItem{{Code: "A", Quantity: 2}, {Code: "B", Quantity: 1}}
	snapshot := billing.SnapshotOriginal(items)

	assert.Empty(t, billing.DiffStockForCreditInvoice(snapshot, items))
}
