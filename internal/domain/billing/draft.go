package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Draft is an invoice being composed or credit-edited. All edits go through
// its methods so that totals are always derived from typed state.
//
// When an invoice is loaded for a credit edit its stored service charge is
// kept as-is, even in percent mode, until an item or stay edit happens.
// Discount and settlement edits leave it frozen.
type Draft struct {
	Tax        TaxConfig
	Charges    ChargeConfig
	Layout     Layout
	Settlement Settlement

	items    []LineItem
	checkIn  *time.Time
	checkOut *time.Time

	original      []OriginalLine
	frozenService *decimal.Decimal
}

// NewDraft starts an empty invoice.
func NewDraft(tax TaxConfig, charges ChargeConfig, layout Layout) *Draft {
	return &Draft{Tax: tax, Charges: charges, Layout: layout}
}

// LoadForCredit replaces the draft content with a stored invoice, snapshots
// its quantities as the stock baseline and freezes its service charge.
func (d *Draft) LoadForCredit(items []LineItem, storedServiceCharge decimal.Decimal, settlement Settlement) {
	d.items = append([]LineItem(nil), items...)
	d.original = SnapshotOriginal(items)
	frozen := round2(storedServiceCharge)
	d.frozenService = &frozen
	d.Settlement = settlement
}

// IsCredit reports whether the draft edits a previously saved invoice.
func (d *Draft) IsCredit() bool {
	return d.original != nil
}

// ServiceChargeFrozen reports whether the loaded service charge is still in use.
func (d *Draft) ServiceChargeFrozen() bool {
	return d.frozenService != nil
}

// Original returns the quantities captured at load time.
func (d *Draft) Original() []OriginalLine {
	return d.original
}

// Items returns a copy of the current lines.
func (d *Draft) Items() []LineItem {
	return append([]LineItem(nil), d.items...)
}

func (d *Draft) thaw() {
	d.frozenService = nil
}

// SetItems replaces all lines. Room lines are repriced to the stay.
func (d *Draft) SetItems(items []LineItem) {
	d.items = append([]LineItem(nil), items...)
	d.applyStay()
	d.thaw()
}

// AddItem adds a line, or increases the quantity of an existing line with
// the same code. A new room line is priced for the current stay; quantities
// already on other room lines are left as the cashier set them.
func (d *Draft) AddItem(item LineItem) {
	for i := range d.items {
		if d.items[i].Code == item.Code {
			d.items[i].Quantity += item.Quantity
			d.thaw()
			return
		}
	}
	if item.IsRoomType && d.checkIn != nil && d.checkOut != nil {
		item.Quantity = Nights(*d.checkIn, *d.checkOut)
	}
	d.items = append(d.items, item)
	d.thaw()
}

// SetQuantity changes the quantity of the line with the given code. A
// quantity below one removes the line.
func (d *Draft) SetQuantity(code string, qty int) {
	if qty < 1 {
		d.RemoveItem(code)
		return
	}
	for i := range d.items {
		if d.items[i].Code == code {
			d.items[i].Quantity = qty
		}
	}
	d.thaw()
}

// RemoveItem drops every line with the given code.
func (d *Draft) RemoveItem(code string) {
	kept := d.items[:0]
	for _, item := range d.items {
		if item.Code != code {
			kept = append(kept, item)
		}
	}
	d.items = kept
	d.thaw()
}

// SetStay sets the check-in and check-out dates and reprices every room line
// to the night count.
func (d *Draft) SetStay(checkIn, checkOut time.Time) {
	d.checkIn, d.checkOut = &checkIn, &checkOut
	d.applyStay()
	d.thaw()
}

func (d *Draft) applyStay() {
	if d.checkIn == nil || d.checkOut == nil {
		return
	}
	d.items = ApplyStay(d.items, *d.checkIn, *d.checkOut)
}

// SetDiscount changes the discount.
func (d *Draft) SetDiscount(v decimal.Decimal) {
	d.Charges.Discount = v
}

// SetPaid records the amount paid; the balance is derived.
func (d *Draft) SetPaid(v decimal.Decimal) {
	d.Settlement = PaidSettlement(v)
}

// SetBalance records the outstanding balance; the paid amount is derived.
func (d *Draft) SetBalance(v decimal.Decimal) {
	d.Settlement = BalanceSettlement(v)
}

// Totals computes the current totals.
func (d *Draft) Totals() InvoiceTotals {
	if d.frozenService != nil {
		return computeWithServiceCharge(d.items, d.Tax, d.Charges, *d.frozenService, d.Settlement, d.Layout)
	}
	return ComputeTotals(d.items, d.Tax, d.Charges, d.Settlement, d.Layout)
}

// StockDeltas returns the stock adjustments for saving the draft.
func (d *Draft) StockDeltas() []StockDelta {
	if d.IsCredit() {
		return DiffStockForCreditInvoice(d.original, d.items)
	}
	return DiffStockForNewInvoice(d.items)
}

// Reset clears the draft, discarding any credit baseline.
func (d *Draft) Reset() {
	d.items = nil
	d.checkIn, d.checkOut = nil, nil
	d.original = nil
	d.frozenService = nil
	d.Settlement = Settlement{}
	d.Charges.Discount = decimal.Zero
}
