package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentMode is how an invoice was settled. The numeric values are the
// codes the tax authority expects.
type PaymentMode int

const (
	PaymentModeCash   PaymentMode = 1
	PaymentModeCard   PaymentMode = 2
	PaymentModeMixed  PaymentMode = 5
	PaymentModeOnline PaymentMode = 6
)

func (p PaymentMode) String() string {
	switch p {
	case PaymentModeCard:
		return "card"
	case PaymentModeMixed:
		return "mixed"
	case PaymentModeOnline:
		return "online"
	default:
		return "cash"
	}
}

// PRACode is the code submitted to PRA. Online payments are reported as
// cash there while the local record keeps the online code.
func (p PaymentMode) PRACode() int {
	if p == PaymentModeOnline {
		return int(PaymentModeCash)
	}
	if !p.Valid() {
		return int(PaymentModeCash)
	}
	return int(p)
}

func (p PaymentMode) Valid() bool {
	switch p {
	case PaymentModeCash, PaymentModeCard, PaymentModeMixed, PaymentModeOnline:
		return true
	}
	return false
}

// ParsePaymentMode accepts the lower-case names used by the POS screens.
// Unknown names fall back to cash.
func ParsePaymentMode(s string) PaymentMode {
	switch s {
	case "card":
		return PaymentModeCard
	case "mixed":
		return PaymentModeMixed
	case "online":
		return PaymentModeOnline
	default:
		return PaymentModeCash
	}
}

func (p PaymentMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *PaymentMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		if !PaymentMode(i).Valid() {
			return fmt.Errorf("invalid payment mode %d", i)
		}
		*p = PaymentMode(i)
		return nil
	}
	*p = ParsePaymentMode(str)
	return nil
}

func (p PaymentMode) Value() (driver.Value, error) {
	return int64(p), nil
}

func (p *PaymentMode) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentModeCash
		return nil
	}
	switch v := value.(type) {
	case int64:
		*p = PaymentMode(v)
	case int32:
		*p = PaymentMode(v)
	case int:
		*p = PaymentMode(v)
	}
	return nil
}
