package booking

import "time"

// Status is the externally visible state of a booking at a given instant.
// It is always derived from the persisted flags plus the clock, never
// stored, so the time-relative states cannot drift from the terminal flags.
type Status string

const (
	// StatusCancelled marks a cancelled booking. Terminal.
	StatusCancelled Status = "cancelled"
	// StatusCheckedIn marks a booking the user confirmed occupancy for. Terminal.
	StatusCheckedIn Status = "checked_in"
	// StatusMissed marks a booking whose check-in window elapsed unused. Terminal.
	StatusMissed Status = "missed"
	// StatusCheckInEligible marks a booking currently inside its check-in window.
	StatusCheckInEligible Status = "check_in_eligible"
	// StatusExpired marks a booking whose end has passed without any flag set.
	StatusExpired Status = "expired"
	// StatusUpcoming marks a booking whose check-in window has not opened yet.
	StatusUpcoming Status = "upcoming"
)

// DeriveStatus computes the booking's status at now. Persisted terminal
// flags take precedence over the time-relative states.
func DeriveStatus(b Booking, now time.Time) Status {
	switch {
	case b.Cancelled:
		return StatusCancelled
	case b.CheckedIn:
		return StatusCheckedIn
	case b.MissedCheckIn:
		return StatusMissed
	case CheckInEligible(b, now):
		return StatusCheckInEligible
	case now.After(b.End):
		return StatusExpired
	default:
		return StatusUpcoming
	}
}
