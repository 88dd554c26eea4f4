package booking

import "time"

// OverlapsHour reports whether two intervals conflict when compared at hour
// granularity. All four instants are truncated to the top of their hour
// before comparison, so a 9:00-10:00 interval conflicts with the 9:00-10:00
// slot but not with 10:00-11:00.
func OverlapsHour(aStart, aEnd, bStart, bEnd time.Time) bool {
	aStartHour := truncateToHour(aStart)
	aEndHour := truncateToHour(aEnd)
	bStartHour := truncateToHour(bStart)
	bEndHour := truncateToHour(bEnd)

	return aStartHour.Before(bEndHour) && aEndHour.After(bStartHour)
}

// SameDay reports whether the two instants fall on the same calendar day,
// evaluated in the location of the first argument.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func truncateToHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// StartOfDay returns midnight of the calendar day containing t, in t's
// location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
