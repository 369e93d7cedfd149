package billing

import "strings"

// Layout is the POS screen a business runs, which decides how items are counted.
type Layout int

const (
	LayoutRestaurant Layout = iota
	LayoutHotel
	LayoutHotelWithFood
)

// ParseLayout maps the stored pos_layout / room_food_both settings to a Layout.
func ParseLayout(posLayout string, roomFoodBoth bool) Layout {
	if strings.EqualFold(strings.TrimSpace(posLayout), "hotel") {
		if roomFoodBoth {
			return LayoutHotelWithFood
		}
		return LayoutHotel
	}
	return LayoutRestaurant
}

func (l Layout) String() string {
	switch l {
	case LayoutHotel:
		return "hotel"
	case LayoutHotelWithFood:
		return "hotel_with_food"
	default:
		return "restaurant"
	}
}

// IsRoomName reports whether a catalog entry name denotes a room.
func IsRoomName(name string) bool {
	return strings.Contains(strings.ToLower(name), "room")
}

// ItemCount counts items the way the layout's invoice header shows them.
// Restaurants count units. Hotels count room lines, each carrying a night
// count as its quantity, and optionally add the food units on top.
func ItemCount(items []LineItem, layout Layout) int {
	rooms, food, units := 0, 0, 0
	for _, item := range items {
		units += item.Quantity
		if item.IsRoomType {
			rooms++
		} else {
			food += item.Quantity
		}
	}

	switch layout {
	case LayoutHotel:
		return rooms
	case LayoutHotelWithFood:
		return rooms + food
	default:
		return units
	}
}
