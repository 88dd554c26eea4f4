package booking

import "time"

// FreeCancelWindow is the boundary before a booking's start separating
// penalty-free cancellation from penalized cancellation.
const FreeCancelWindow = 3 * time.Hour

// Cancellable reports whether the booking may still be cancelled at now. A
// booking that has started, been checked in, been missed, or already been
// cancelled cannot be cancelled.
func Cancellable(b Booking, now time.Time) bool {
	if b.Cancelled || b.CheckedIn || b.MissedCheckIn {
		return false
	}
	return now.Before(b.Start)
}

// CancelFree reports whether cancelling at now incurs no penalty: the
// booking is cancellable and now is at least FreeCancelWindow before the
// start, boundary included.
func CancelFree(b Booking, now time.Time) bool {
	if !Cancellable(b, now) {
		return false
	}
	return !now.After(b.Start.Add(-FreeCancelWindow))
}

// CancelPenalized reports whether cancelling at now incurs a strike: the
// booking is cancellable and now falls strictly inside the window between
// FreeCancelWindow before the start and the start itself. Together with
// CancelFree this partitions the cancellable region; exactly one of the two
// holds whenever Cancellable holds.
func CancelPenalized(b Booking, now time.Time) bool {
	if !Cancellable(b, now) {
		return false
	}
	return now.After(b.Start.Add(-FreeCancelWindow)) && now.Before(b.Start)
}
