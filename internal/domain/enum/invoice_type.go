package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// InvoiceType distinguishes a new sale from a credit edit of an earlier one.
type InvoiceType int

const (
	InvoiceTypeNew    InvoiceType = 1
	InvoiceTypeCredit InvoiceType = 3
)

func (t InvoiceType) String() string {
	if t == InvoiceTypeCredit {
		return "credit"
	}
	return "new"
}

func (t InvoiceType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *InvoiceType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = InvoiceType(i)
		return nil
	}
	switch str {
	case "credit":
		*t = InvoiceTypeCredit
	default:
		*t = InvoiceTypeNew
	}
	return nil
}

func (t InvoiceType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *InvoiceType) Scan(value interface{}) error {
	if value == nil {
		*t = InvoiceTypeNew
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = InvoiceType(v)
	case int32:
		*t = InvoiceType(v)
	case int:
		*t = InvoiceType(v)
	}
	return nil
}
