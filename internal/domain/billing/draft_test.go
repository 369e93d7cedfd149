package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/hotelpos-api/internal/domain/billing"
)

func percentDraft() *billing.Draft {
	tax := billing.TaxConfig{GSTPercentage: d("10")}
	charges := billing.ChargeConfig{
		ServiceChargeMode:  billing.ServiceChargePercentOfTaxedCost,
		ServiceChargeValue: d("10"),
	}
	return billing.NewDraft(tax, charges, billing.LayoutRestaurant)
}

func TestDraft_ServiceChargeFrozenOnLoad(t *testing.T) {
	draft := percentDraft()
	items := []billing.LineItem{{Code: "F1", UnitPrice: d("100"), Quantity: 2}}

	// Stored amount differs from what the current settings would derive (22.00).
	draft.LoadForCredit(items, d("15"), billing.PaidSettlement(d("100")))
	require.True(t, draft.ServiceChargeFrozen())

	got := draft.Totals()
	money(t, "15.00", got.ServiceChargeAmount, "frozen service")
	money(t, "235.00", got.TotalPayable, "total")
	money(t, "135.00", got.Balance, "balance")

	// Non-triggering edits keep it frozen.
	draft.SetDiscount(d("5"))
	draft.SetBalance(d("0"))
	assert.True(t, draft.ServiceChargeFrozen())
	money(t, "15.00", draft.Totals().ServiceChargeAmount, "still frozen")

	// An item edit recomputes it.
	draft.SetQuantity("F1", 3)
	assert.False(t, draft.ServiceChargeFrozen())
	money(t, "33.00", draft.Totals().ServiceChargeAmount, "recomputed")
}

func TestDraft_StayEditThaws(t *testing.T) {
	draft := percentDraft()
	items := []billing.LineItem{{Code: "R1", Name: "Room 1", UnitPrice: d("1000"), Quantity: 1, IsRoomType: true}}
	draft.LoadForCredit(items, d("0"), billing.Settlement{})

	draft.SetStay(date("2024-01-01"), date("2024-01-04"))

	assert.False(t, draft.ServiceChargeFrozen())
	assert.Equal(t, 3, draft.Items()[0].Quantity)
	money(t, "330.00", draft.Totals().ServiceChargeAmount, "service")
}

func TestDraft_StayAppliesToRoomsAddedLater(t *testing.T) {
	draft := percentDraft()
	draft.SetStay(date("2024-01-01"), date("2024-01-03"))

	draft.AddItem(billing.LineItem{Code: "R9", Name: "Room 9", UnitPrice: d("10"), Quantity: 1, IsRoomType: true})
	draft.AddItem(billing.LineItem{Code: "F1", Name: "Tea", UnitPrice: d("1"), Quantity: 1})

	items := draft.Items()
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
}

func TestDraft_AddItemKeepsAdjustedRoomQuantity(t *testing.T) {
	draft := percentDraft()
	draft.SetStay(date("2024-01-01"), date("2024-01-04"))
	draft.AddItem(billing.LineItem{Code: "R1", Name: "Room 1", UnitPrice: d("10"), Quantity: 1, IsRoomType: true})
	draft.SetQuantity("R1", 1)

	draft.AddItem(billing.LineItem{Code: "R2", Name: "Room 2", UnitPrice: d("10"), Quantity: 1, IsRoomType: true})
	draft.AddItem(billing.LineItem{Code: "F1", Name: "Tea", UnitPrice: d("1"), Quantity: 1})

	items := draft.Items()
	require.Len(t, items, 3)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, 3, items[1].Quantity)

	// Changing the dates reprices every room line.
	draft.SetStay(date("2024-01-01"), date("2024-01-03"))
	items = draft.Items()
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 2, items[1].Quantity)
	assert.Equal(t, 1, items[2].Quantity)
}

func TestDraft_StockDeltas(t *testing.T) {
	draft := percentDraft()
	draft.AddItem(billing.LineItem{Code: "F2", Quantity: 2})
	assert.Equal(t, []billing.StockDelta{{Code: "F2", SignedQuantity: 2}}, draft.StockDeltas())

	draft.Reset()
	draft.LoadForCredit([]billing.LineItem{{Code: "F1", Quantity: 4}}, d("0"), billing.Settlement{})
	draft.RemoveItem("F1")
	assert.Equal(t, []billing.StockDelta{{Code: "F1", SignedQuantity: -4}}, draft.StockDeltas())

	draft.Reset()
	assert.False(t, draft.IsCredit())
	assert.Empty(t, draft.Items())
}

func TestDraft_AddItemMergesSameCode(t *testing.T) {
	draft := percentDraft()
	draft.AddItem(billing.LineItem{Code: "F1", Quantity: 1})
	draft.AddItem(billing.LineItem{Code: "F1", Quantity: 2})

	items := draft.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}
