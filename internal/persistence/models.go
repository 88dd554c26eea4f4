package persistence

import "time"

// Room represents a bookable room catalog entry as stored.
type Room struct {
	ID        string
	Name      string
	Building  string
	Floor     int
	Capacity  int
	Amenities []string
	ImageRef  string
	QRToken   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Booking represents a reservation row. The three flag columns are terminal:
// the storage layer never clears one once set.
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

// User represents the single account row carrying the strike ledger.
type User struct {
	ID                  string
	Name                string
	Email               string
	Strikes             int
	LastStrikeReduction *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
