package booking

import (
	"time"

	"github.com/google/uuid"
)

// slotIDNamespace seeds the deterministic slot identifier derivation. The
// value itself is arbitrary but must never change: callers rely on the same
// start time always producing the same slot ID across recomputations.
var slotIDNamespace = uuid.MustParse("5ba3f7e4-1b02-48a9-9a5e-0f62a49c2d17")

// slotIDLayout renders a start time at minute precision for identity
// derivation.
const slotIDLayout = "2006-01-02-15-04"

// TimeSlot is a one hour bookable interval within operating hours. Slots are
// computed on demand and never persisted; their identity is derived from the
// start time so it stays stable across recomputation.
type TimeSlot struct {
	ID        uuid.UUID
	Start     time.Time
	End       time.Time
	Available bool
}

// SlotID derives the deterministic identifier for the slot beginning at
// start. The start time is truncated to the minute, so two instants within
// the same minute yield the same identifier and instants in different
// minutes yield different ones (up to the hash collision probability of the
// name-based UUID scheme, which is accepted).
func SlotID(start time.Time) uuid.UUID {
	return uuid.NewSHA1(slotIDNamespace, []byte(start.Format(slotIDLayout)))
}

// NewTimeSlot builds a slot with its derived identifier.
func NewTimeSlot(start, end time.Time, available bool) TimeSlot {
	return TimeSlot{
		ID:        SlotID(start),
		Start:     start,
		End:       end,
		Available: available,
	}
}
