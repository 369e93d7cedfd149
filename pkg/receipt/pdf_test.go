package receipt

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/hotelpos-api/internal/domain/entity"
)

func TestRenderPDF(t *testing.T) {
	r := &entity.Receipt{
		Header:    entity.ReceiptHeader{StoreName: "Shalimar Guest House", Address: "Mall Road, Lahore", TaxID: "1234567-8"},
		InvoiceNo: "PRA-998877",
		USIN:      "1042",
		PRALinked: true,
		Date:      "2026-03-01 19:20",
		Items: []entity.ReceiptItem{
			{Name: "Deluxe Room 12 with a very long descriptive name", Quantity: 2, UnitPrice: decimal.NewFromInt(5000), Total: decimal.NewFromInt(10000)},
			{Name: "Tea", Quantity: 1, UnitPrice: decimal.NewFromInt(100), Total: decimal.NewFromInt(100)},
		},
		SubTotal: decimal.NewFromInt(10100),
		GST:      decimal.NewFromInt(1616),
		Total:    decimal.NewFromInt(11716),
		ShowPaid: true,
		Paid:     decimal.NewFromInt(11716),
	}

	out, err := RenderPDF(r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "122.84", money(decimal.RequireFromString("122.84")))
	assert.Equal(t, "5.00", money(decimal.NewFromInt(5)))
}
