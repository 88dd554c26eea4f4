package booking

import "time"

const (
	// OpeningHour is the first bookable hour of the day.
	OpeningHour = 8
	// ClosingHour is the hour at which the last slot ends.
	ClosingHour = 22
	// SlotsPerDay is the number of one hour slots between opening and closing.
	SlotsPerDay = ClosingHour - OpeningHour
)

// Slots projects the bookable grid for a room on the calendar day containing
// date. It returns exactly SlotsPerDay one hour slots in ascending start
// order. A slot is unavailable when a non-cancelled booking for the same
// room on the same day overlaps it at hour granularity. The projection has
// no side effects and must be recomputed after every booking mutation.
func Slots(date time.Time, roomID string, bookings []Booking) []TimeSlot {
	day := StartOfDay(date)

	slots := make([]TimeSlot, 0, SlotsPerDay)
	for hour := OpeningHour; hour < ClosingHour; hour++ {
		start := day.Add(time.Duration(hour) * time.Hour)
		end := start.Add(time.Hour)

		booked := false
		for _, b := range bookings {
			if b.Cancelled {
				continue
			}
			if b.RoomID != roomID {
				continue
			}
			if !SameDay(start, b.Start) {
				continue
			}
			if OverlapsHour(b.Start, b.End, start, end) {
				booked = true
				break
			}
		}

		slots = append(slots, NewTimeSlot(start, end, !booked))
	}

	return slots
}
