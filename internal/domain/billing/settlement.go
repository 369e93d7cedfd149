package billing

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// SettlementKind tells which side of the paid/balance pair was entered.
type SettlementKind string

const (
	SettlementNone    SettlementKind = ""
	SettlementPaid    SettlementKind = "paid"
	SettlementBalance SettlementKind = "balance"
)

// Settlement is the last paid or balance amount entered by the cashier.
// The other side is always derived from the total payable.
type Settlement struct {
	Kind  SettlementKind  `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// PaidSettlement records an amount the customer paid.
func PaidSettlement(v decimal.Decimal) Settlement {
	return Settlement{Kind: SettlementPaid, Value: v}
}

// BalanceSettlement records an amount left outstanding.
func BalanceSettlement(v decimal.Decimal) Settlement {
	return Settlement{Kind: SettlementBalance, Value: v}
}

// Resolve returns paid and balance for the given total.
func (s Settlement) Resolve(total decimal.Decimal) (paid, balance decimal.Decimal) {
	switch s.Kind {
	case SettlementPaid:
		paid = round2(s.Value)
		return paid, round2(total.Sub(paid))
	case SettlementBalance:
		balance = round2(s.Value)
		return round2(total.Sub(balance)), balance
	default:
		return decimal.Zero, total
	}
}

func (s *Settlement) UnmarshalJSON(data []byte) error {
	type alias Settlement
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	switch a.Kind {
	case SettlementNone, SettlementPaid, SettlementBalance:
	default:
		return fmt.Errorf("unknown settlement kind %q", a.Kind)
	}
	*s = Settlement(a)
	return nil
}
