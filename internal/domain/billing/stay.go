package billing

import (
	"math"
	"time"
)

// Nights returns the number of nights billed between check-in and check-out:
// the absolute difference in days rounded up, never less than one. Days are
// counted on the wall clock, so a daylight saving change inside the stay
// does not add or drop a night.
func Nights(checkIn, checkOut time.Time) int {
	d := wallClock(checkOut).Sub(wallClock(checkIn))
	if d < 0 {
		d = -d
	}
	n := int(math.Ceil(d.Hours() / 24))
	if n < 1 {
		return 1
	}
	return n
}

func wallClock(t time.Time) time.Time {
	y, m, day := t.Date()
	h, mi, sec := t.Clock()
	return time.Date(y, m, day, h, mi, sec, t.Nanosecond(), time.UTC)
}

// ApplyStay returns a copy of items with every room line's quantity set to
// the night count of the stay. Other lines are returned unchanged.
func ApplyStay(items []LineItem, checkIn, checkOut time.Time) []LineItem {
	nights := Nights(checkIn, checkOut)
	out := make([]LineItem, len(items))
	for i, item := range items {
		if item.IsRoomType {
			item.Quantity = nights
		}
		out[i] = item
	}
	return out
}
