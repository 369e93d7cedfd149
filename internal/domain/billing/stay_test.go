package billing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sangkips/hotelpos-api/internal/domain/billing"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		t, err = time.Parse("2006-01-02", s)
		if err != nil {
			panic(err)
		}
	}
	return t
}

func TestNights(t *testing.T) {
	tests := []struct {
		name     string
		in, out  string
		expected int
	}{
		{name: "three nights", in: "2024-01-01", out: "2024-01-04", expected: 3},
		{name: "same day", in: "2024-01-01", out: "2024-01-01", expected: 1},
		{name: "partial day rounds up", in: "2024-01-01 14:00", out: "2024-01-03 12:00", expected: 2},
		{name: "reversed dates", in: "2024-01-04", out: "2024-01-01", expected: 3},
		{name: "few hours", in: "2024-01-01 10:00", out: "2024-01-01 18:00", expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, billing.Nights(date(tt.in), date(tt.out)))
		})
	}
}

func TestNights_AcrossDaylightSavingChange(t *testing.T) {
	// Fixed offsets stand in for a zone that falls back one hour overnight.
	summer := time.FixedZone("EDT", -4*3600)
	winter := time.FixedZone("EST", -5*3600)

	in := time.Date(2024, 11, 2, 0, 0, 0, 0, summer)
	out := time.Date(2024, 11, 5, 0, 0, 0, 0, winter)
	assert.Equal(t, 3, billing.Nights(in, out))

	in = time.Date(2024, 3, 9, 0, 0, 0, 0, winter)
	out = time.Date(2024, 3, 11, 0, 0, 0, 0, summer)
	assert.Equal(t, 2, billing.Nights(in, out))

	if ny, err := time.LoadLocation("America/New_York"); err == nil {
		assert.Equal(t, 3, billing.Nights(
			time.Date(2024, 11, 2, 0, 0, 0, 0, ny),
			time.Date(2024, 11, 5, 0, 0, 0, 0, ny),
		))
	}
}

func TestApplyStay_OnlyRoomLines(t *testing.T) {
	items := []billing.LineItem{
		{Code: "R1", Name: "Room 1", Quantity: 1, IsRoomType: true},
		{Code: "F1", Name: "Breakfast", Quantity: 2},
		{Code: "R2", Name: "Room 2", Quantity: 7, IsRoomType: true},
	}

	got := billing.ApplyStay(items, date("2024-01-01"), date("2024-01-04"))

	assert.Equal(t, 3, got[0].Quantity)
	assert.Equal(t, 2, got[1].Quantity)
	assert.Equal(t, 3, got[2].Quantity)
	// input untouched
	assert.Equal(t, 1, items[0].Quantity)
}
