// Package billing derives invoice totals and stock adjustments from the
// lines of an invoice draft. It performs no I/O and never fails on numeric
// edge cases; callers validate input before calling in.
package billing

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineItem is one selected catalog entry on an invoice.
type LineItem struct {
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	IsRoomType bool            `json:"is_room_type"`
}

// Subtotal returns unit price times quantity, unrounded.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// TaxConfig describes how GST applies to item prices.
type TaxConfig struct {
	GSTPercentage      decimal.Decimal `json:"gst_percentage"`
	GSTIncludedInPrice bool            `json:"gst_included_in_price"`
}

// ServiceChargeMode selects how the service charge is derived.
type ServiceChargeMode int

const (
	ServiceChargeFixed ServiceChargeMode = iota
	ServiceChargePercentOfTaxedCost
)

func (m ServiceChargeMode) String() string {
	if m == ServiceChargePercentOfTaxedCost {
		return "percent"
	}
	return "fixed"
}

// ChargeConfig holds the charges applied on top of the item cost.
type ChargeConfig struct {
	POSChargeFixed     decimal.Decimal   `json:"pos_charge"`
	ServiceChargeMode  ServiceChargeMode `json:"service_charge_mode"`
	ServiceChargeValue decimal.Decimal   `json:"service_charge_value"`
	Discount           decimal.Decimal   `json:"discount"`
}

// InvoiceTotals is the derived money summary of an invoice.
type InvoiceTotals struct {
	ItemCount           int             `json:"item_count"`
	NetItemCost         decimal.Decimal `json:"net_item_cost"`
	GSTAmount           decimal.Decimal `json:"gst_amount"`
	ServiceChargeAmount decimal.Decimal `json:"service_charge_amount"`
	POSCharge           decimal.Decimal `json:"pos_charge"`
	Discount            decimal.Decimal `json:"discount"`
	TotalPayable        decimal.Decimal `json:"total_payable"`
	Paid                decimal.Decimal `json:"paid"`
	Balance             decimal.Decimal `json:"balance"`
}

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Round2 rounds a currency amount to two decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return round2(d)
}

// SplitGST returns the net cost and GST contained in (inclusive) or added to
// (exclusive) a raw amount. Both values are rounded to cents and the GST is
// derived from the rounded net.
func SplitGST(raw decimal.Decimal, tax TaxConfig) (net, gst decimal.Decimal) {
	rate := tax.GSTPercentage.Div(hundred)
	if tax.GSTIncludedInPrice {
		net = round2(raw.Div(decimal.NewFromInt(1).Add(rate)))
		gst = round2(raw.Sub(net))
		return net, gst
	}
	net = round2(raw)
	gst = round2(raw.Mul(rate))
	return net, gst
}

// ServiceCharge returns the service charge for the given taxed cost.
func ServiceCharge(net, gst decimal.Decimal, charges ChargeConfig) decimal.Decimal {
	if charges.ServiceChargeMode == ServiceChargePercentOfTaxedCost {
		return round2(net.Add(gst).Mul(charges.ServiceChargeValue).Div(hundred))
	}
	return round2(charges.ServiceChargeValue)
}

// ComputeTotals derives all invoice totals. Every intermediate amount is
// rounded to cents before it feeds the next step.
func ComputeTotals(items []LineItem, tax TaxConfig, charges ChargeConfig, settlement Settlement, layout Layout) InvoiceTotals {
	raw := decimal.Zero
	for _, item := range items {
		raw = raw.Add(item.Subtotal())
	}

	net, gst := SplitGST(raw, tax)
	service := ServiceCharge(net, gst, charges)
	return assemble(items, net, gst, service, charges, settlement, layout)
}

// computeWithServiceCharge is ComputeTotals with the service charge supplied
// by the caller instead of derived.
func computeWithServiceCharge(items []LineItem, tax TaxConfig, charges ChargeConfig, service decimal.Decimal, settlement Settlement, layout Layout) InvoiceTotals {
	raw := decimal.Zero
	for _, item := range items {
		raw = raw.Add(item.Subtotal())
	}
	net, gst := SplitGST(raw, tax)
	return assemble(items, net, gst, round2(service), charges, settlement, layout)
}

func assemble(items []LineItem, net, gst, service decimal.Decimal, charges ChargeConfig, settlement Settlement, layout Layout) InvoiceTotals {
	pos := round2(charges.POSChargeFixed)
	discount := round2(charges.Discount)
	total := round2(net.Add(gst).Add(pos).Add(service).Sub(discount))
	paid, balance := settlement.Resolve(total)

	return InvoiceTotals{
		ItemCount:           ItemCount(items, layout),
		NetItemCost:         net,
		GSTAmount:           gst,
		ServiceChargeAmount: service,
		POSCharge:           pos,
		Discount:            discount,
		TotalPayable:        total,
		Paid:                paid,
		Balance:             balance,
	}
}
