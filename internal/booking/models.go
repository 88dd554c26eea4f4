package booking

import (
	"fmt"
	"time"
)

// Amenity identifies a fixture available in a room.
type Amenity string

const (
	// AmenityWhiteboard indicates the room has a whiteboard.
	AmenityWhiteboard Amenity = "whiteboard"
	// AmenityProjector indicates the room has a projector.
	AmenityProjector Amenity = "projector"
	// AmenityCharger indicates the room has power outlets.
	AmenityCharger Amenity = "charger"
)

// Room is a bookable room catalog entry. Rooms are static reference data and
// never change after seeding.
type Room struct {
	ID        string
	Name      string
	Building  string
	Floor     int
	Capacity  int
	Amenities []Amenity
	ImageRef  string
	QRToken   string
}

// Location renders the human readable placement of the room.
func (r Room) Location() string {
	return fmt.Sprintf("%s, Floor %d", r.Building, r.Floor)
}

// Booking is a reservation of a room for a one hour slot. The three terminal
// flags are mutually exclusive: at most one may ever become true, and once
// any is set the booking never transitions again.
type Booking struct {
	ID            string
	RoomID        string
	RoomName      string
	Date          time.Time
	Start         time.Time
	End           time.Time
	CheckedIn     bool
	CheckedInAt   *time.Time
	MissedCheckIn bool
	Cancelled     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Terminal reports whether the booking has reached one of its final states.
func (b Booking) Terminal() bool {
	return b.Cancelled || b.CheckedIn || b.MissedCheckIn
}

// User is the single account whose strike ledger gates booking permission.
type User struct {
	ID                  string
	Name                string
	Email               string
	Strikes             int
	LastStrikeReduction *time.Time
}
