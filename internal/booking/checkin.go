package booking

import "time"

// CheckInWindow is how long before a booking's start the check-in window
// opens, and how long past the start a check-in is still accepted before the
// booking counts as missed.
const CheckInWindow = 10 * time.Minute

// CheckInEligible reports whether the booking may be checked in at now. The
// window runs from CheckInWindow before the start, boundary included,
// through the end of the booking, boundary excluded. Terminal bookings are
// never eligible.
func CheckInEligible(b Booking, now time.Time) bool {
	if b.Cancelled || b.MissedCheckIn || b.CheckedIn {
		return false
	}

	windowOpen := b.Start.Add(-CheckInWindow)
	return !now.Before(windowOpen) && now.Before(b.End)
}

// MissedCheckIn reports whether the booking counts as a missed check-in at
// now. For terminal bookings the stored flag is returned unchanged, which
// makes repeated evaluation idempotent. Otherwise the booking is missed once
// now is more than CheckInWindow past the start without a check-in.
func MissedCheckIn(b Booking, now time.Time) bool {
	if b.CheckedIn || b.MissedCheckIn || b.Cancelled {
		return b.MissedCheckIn
	}

	return now.After(b.Start.Add(CheckInWindow))
}
