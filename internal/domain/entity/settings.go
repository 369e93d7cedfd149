package entity

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sangkips/hotelpos-api/internal/domain/billing"
)

// BusinessSettings stores a business's POS settings as one JSON document.
type BusinessSettings struct {
	ID         uuid.UUID                    `gorm:"type:varchar(36);primaryKey" json:"id"`
	BusinessID uuid.UUID                    `gorm:"type:varchar(36);not null;uniqueIndex" json:"business_id"`
	Data       datatypes.JSONType[Settings] `json:"data"`
	CreatedAt  time.Time                    `json:"created_at"`
	UpdatedAt  time.Time                    `json:"updated_at"`

	Business Business `gorm:"foreignKey:BusinessID" json:"-"`
}

// BeforeCreate generates a UUID before creating new settings
func (s *BusinessSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BusinessSettings model
func (BusinessSettings) TableName() string {
	return "settings"
}

// Flag is an on/off setting. It reads true, false, 1, 0, "1" and "0" so
// that documents written by older clients keep loading.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		*f = true
	default:
		*f = false
	}
	return nil
}

// Settings is the per-business configuration document.
// Missing values are zero, which the billing code treats as "no charge".
type Settings struct {
	// Tax and charges
	GSTPercentage      decimal.Decimal `json:"gst_percentage"`
	GSTIncluded        Flag            `json:"gst_included"`
	ServiceCharges     decimal.Decimal `json:"service_charges"`
	ServiceChargesType Flag            `json:"service_charges_type"` // set = percent of taxed cost
	POSCharges         decimal.Decimal `json:"pos_charges"`

	// POS behaviour
	ShowMenuStockQty    Flag   `json:"show_menu_stock_qty"`
	RoomFoodBoth        Flag   `json:"room_food_both"`
	LockBookedRoom      Flag   `json:"lock_booked_room"`
	PosLayout           string `json:"pos_layout"`
	ShowPaid            Flag   `json:"show_paid"`
	ShowBalance         Flag   `json:"show_balance"`
	MakeInvoiceEditable Flag   `json:"make_invoice_editable"`

	// PRA e-invoicing
	PRALinked  Flag   `json:"pra_linked"`
	PRAPosID   string `json:"pra_posid"`
	PRAToken   string `json:"pra_token"`
	PRAAPIType string `json:"pra_api_type"` // sandbox | production

	// Receipt header
	RestaurantName    string `json:"restaurant_name"`
	RestaurantAddress string `json:"restaurant_address"`
	LogoPath          string `json:"logo_path"`
	PhoneNo           string `json:"phone_no"`
	NTNNumber         string `json:"ntn_number"`
}

// TaxConfig returns the GST configuration.
func (s Settings) TaxConfig() billing.TaxConfig {
	return billing.TaxConfig{
		GSTPercentage:      s.GSTPercentage,
		GSTIncludedInPrice: bool(s.GSTIncluded),
	}
}

// ChargeConfig returns the configured charges with the given discount.
func (s Settings) ChargeConfig(discount decimal.Decimal) billing.ChargeConfig {
	mode := billing.ServiceChargeFixed
	if s.ServiceChargesType {
		mode = billing.ServiceChargePercentOfTaxedCost
	}
	return billing.ChargeConfig{
		POSChargeFixed:     s.POSCharges,
		ServiceChargeMode:  mode,
		ServiceChargeValue: s.ServiceCharges,
		Discount:           discount,
	}
}

// Layout returns the POS layout.
func (s Settings) Layout() billing.Layout {
	return billing.ParseLayout(s.PosLayout, bool(s.RoomFoodBoth))
}

// Redacted returns a copy safe to show to non-admin employees.
func (s Settings) Redacted() Settings {
	if s.PRAToken != "" {
		s.PRAToken = "********"
	}
	return s
}

// MarshalJSON keeps flags as the "1"/"0" strings existing clients expect.
func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return json.Marshal("1")
	}
	return json.Marshal("0")
}

// DefaultSettings is used for a business that has not saved settings yet.
func DefaultSettings() Settings {
	return Settings{
		GSTPercentage:       decimal.Zero,
		ServiceCharges:      decimal.Zero,
		POSCharges:          decimal.Zero,
		ShowMenuStockQty:    true,
		RoomFoodBoth:        true,
		ShowPaid:            true,
		ShowBalance:         true,
		MakeInvoiceEditable: true,
		PRAAPIType:          "sandbox",
	}
}

// UnmarshalJSON treats blank amounts, which older clients save for unset
// charges, as zero.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, key := range []string{"gst_percentage", "service_charges", "pos_charges"} {
		if v, ok := raw[key]; ok {
			if t := strings.TrimSpace(string(v)); t == `""` || t == "null" {
				delete(raw, key)
			}
		}
	}
	cleaned, err := json.Marshal(raw)
	if err != nil {
		return err
	}

	type plain Settings
	var p plain
	if err := json.Unmarshal(cleaned, &p); err != nil {
		return err
	}
	*s = Settings(p)
	return nil
}
