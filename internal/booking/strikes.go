package booking

import "time"

const (
	// MaxStrikes is the ceiling of the strike ledger.
	MaxStrikes = 5
	// BookingBlockThreshold is the strike count at which new bookings are
	// refused.
	BookingBlockThreshold = 3
)

// StrikeDecayMode selects how ReduceStrikes gates repeated invocations.
type StrikeDecayMode string

const (
	// DecayAlways applies a reduction on every invocation. The last
	// reduction timestamp is recorded but never consulted.
	DecayAlways StrikeDecayMode = "always"
	// DecayDaily applies at most one reduction per calendar day, judged
	// against the recorded last reduction timestamp.
	DecayDaily StrikeDecayMode = "daily"
)

// Valid reports whether the mode is one of the recognised values.
func (m StrikeDecayMode) Valid() bool {
	return m == DecayAlways || m == DecayDaily
}

// AddStrike increments the user's strike count, clamped at MaxStrikes.
func AddStrike(u *User) {
	if u == nil {
		return
	}
	if u.Strikes < MaxStrikes {
		u.Strikes++
	}
}

// ReduceStrikes decrements the user's strike count and stamps the reduction
// time. It reports whether a reduction was applied: a zero ledger is never
// reduced, and in DecayDaily mode a second reduction on the same calendar
// day as the recorded last reduction is refused.
func ReduceStrikes(u *User, now time.Time, mode StrikeDecayMode) bool {
	if u == nil || u.Strikes == 0 {
		return false
	}
	if mode == DecayDaily && u.LastStrikeReduction != nil && SameDay(*u.LastStrikeReduction, now) {
		return false
	}

	u.Strikes--
	reduced := now
	u.LastStrikeReduction = &reduced
	return true
}

// CanBook reports whether the user is permitted to make new bookings.
func CanBook(u User) bool {
	return u.Strikes < BookingBlockThreshold
}
