package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/room-booking/internal/booking"
	"github.com/example/room-booking/internal/persistence"
)

var (
	roomCounter    uint64
	bookingCounter uint64
)

var referenceTime = time.Date(2025, time.March, 19, 8, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures. It
// falls on the opening hour of the booking day so slot arithmetic reads
// naturally in tests.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- Room fixtures -----------------------------

// RoomFixture represents a deterministic room catalog entry that can be
// materialised for domain or persistence tests.
type RoomFixture struct {
	ID        string
	Name      string
	Building  string
	Floor     int
	Capacity  int
	Amenities []booking.Amenity
	ImageRef  string
	QRToken   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoomOption mutates a RoomFixture during construction.
type RoomOption func(*RoomFixture)

// NewRoomFixture builds a room fixture with sequential identifiers and
// plausible defaults.
func NewRoomFixture(opts ...RoomOption) RoomFixture {
	n := atomic.AddUint64(&roomCounter, 1)
	fixture := RoomFixture{
		ID:        fmt.Sprintf("%d", n),
		Name:      fmt.Sprintf("Study Room %d", 100+n),
		Building:  "Main Library",
		Floor:     1,
		Capacity:  4,
		Amenities: []booking.Amenity{booking.AmenityWhiteboard},
		QRToken:   fmt.Sprintf("UBC-ROOM-%d-MCLD-10%02d", n, n),
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithRoomID overrides the generated room identifier.
func WithRoomID(id string) RoomOption {
	return func(f *RoomFixture) { f.ID = id }
}

// WithRoomCapacity overrides the room capacity.
func WithRoomCapacity(capacity int) RoomOption {
	return func(f *RoomFixture) { f.Capacity = capacity }
}

// WithQRToken overrides the scannable room token.
func WithQRToken(token string) RoomOption {
	return func(f *RoomFixture) { f.QRToken = token }
}

// Domain converts the fixture to a domain room.
func (f RoomFixture) Domain() booking.Room {
	return booking.Room{
		ID:        f.ID,
		Name:      f.Name,
		Building:  f.Building,
		Floor:     f.Floor,
		Capacity:  f.Capacity,
		Amenities: f.Amenities,
		ImageRef:  f.ImageRef,
		QRToken:   f.QRToken,
	}
}

// Record converts the fixture to a persistence row.
func (f RoomFixture) Record() persistence.Room {
	amenities := make([]string, 0, len(f.Amenities))
	for _, a := range f.Amenities {
		amenities = append(amenities, string(a))
	}
	return persistence.Room{
		ID:        f.ID,
		Name:      f.Name,
		Building:  f.Building,
		Floor:     f.Floor,
		Capacity:  f.Capacity,
		Amenities: amenities,
		ImageRef:  f.ImageRef,
		QRToken:   f.QRToken,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// --------------------------- Booking fixtures ----------------------------

// BookingFixture represents a deterministic reservation that can be
// materialised for domain or persistence tests.
type BookingFixture struct {
	ID            string
	RoomID        string
	RoomName      string
	Start         time.Time
	End           time.Time
	CheckedIn     bool
	CheckedInAt   *time.Time
	MissedCheckIn bool
	Cancelled     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BookingOption mutates a BookingFixture during construction.
type BookingOption func(*BookingFixture)

// NewBookingFixture builds a booking fixture starting one hour after the
// reference time.
func NewBookingFixture(opts ...BookingOption) BookingFixture {
	n := atomic.AddUint64(&bookingCounter, 1)
	start := referenceTime.Add(time.Hour)
	fixture := BookingFixture{
		ID:        fmt.Sprintf("booking-%d", n),
		RoomID:    "1",
		RoomName:  "Study Room 101",
		Start:     start,
		End:       start.Add(time.Hour),
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithBookingID overrides the generated booking identifier.
func WithBookingID(id string) BookingOption {
	return func(f *BookingFixture) { f.ID = id }
}

// WithBookingRoom points the booking at a different room.
func WithBookingRoom(roomID, roomName string) BookingOption {
	return func(f *BookingFixture) {
		f.RoomID = roomID
		f.RoomName = roomName
	}
}

// WithBookingInterval pins the booking to the given hour-aligned interval.
func WithBookingInterval(start, end time.Time) BookingOption {
	return func(f *BookingFixture) {
		f.Start = start
		f.End = end
	}
}

// CheckedInAt marks the booking as checked in at the given instant.
func CheckedInAt(at time.Time) BookingOption {
	return func(f *BookingFixture) {
		f.CheckedIn = true
		f.CheckedInAt = &at
	}
}

// Missed marks the booking as a missed check-in.
func Missed() BookingOption {
	return func(f *BookingFixture) { f.MissedCheckIn = true }
}

// Cancelled marks the booking as cancelled.
func Cancelled() BookingOption {
	return func(f *BookingFixture) { f.Cancelled = true }
}

// Domain converts the fixture to a domain booking.
func (f BookingFixture) Domain() booking.Booking {
	return booking.Booking{
		ID:            f.ID,
		RoomID:        f.RoomID,
		RoomName:      f.RoomName,
		Date:          booking.StartOfDay(f.Start),
		Start:         f.Start,
		End:           f.End,
		CheckedIn:     f.CheckedIn,
		CheckedInAt:   f.CheckedInAt,
		MissedCheckIn: f.MissedCheckIn,
		Cancelled:     f.Cancelled,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

// Record converts the fixture to a persistence row.
func (f BookingFixture) Record() persistence.Booking {
	return persistence.Booking{
		ID:            f.ID,
		RoomID:        f.RoomID,
		RoomName:      f.RoomName,
		Date:          booking.StartOfDay(f.Start),
		Start:         f.Start,
		End:           f.End,
		CheckedIn:     f.CheckedIn,
		CheckedInAt:   f.CheckedInAt,
		MissedCheckIn: f.MissedCheckIn,
		Cancelled:     f.Cancelled,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

// ----------------------------- User fixtures -----------------------------

// UserFixture represents the single account record carrying the strike ledger.
type UserFixture struct {
	ID                  string
	Name                string
	Email               string
	Strikes             int
	LastStrikeReduction *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// UserOption mutates a UserFixture during construction.
type UserOption func(*UserFixture)

// NewUserFixture builds the default student account.
func NewUserFixture(opts ...UserOption) UserFixture {
	fixture := UserFixture{
		ID:        "1",
		Name:      "Student",
		Email:     "student@example.edu",
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithStrikes sets the strike count.
func WithStrikes(strikes int) UserOption {
	return func(f *UserFixture) { f.Strikes = strikes }
}

// WithLastStrikeReduction stamps the last reduction instant.
func WithLastStrikeReduction(at time.Time) UserOption {
	return func(f *UserFixture) { f.LastStrikeReduction = &at }
}

// Domain converts the fixture to a domain user.
func (f UserFixture) Domain() booking.User {
	return booking.User{
		ID:                  f.ID,
		Name:                f.Name,
		Email:               f.Email,
		Strikes:             f.Strikes,
		LastStrikeReduction: f.LastStrikeReduction,
	}
}

// Record converts the fixture to a persistence row.
func (f UserFixture) Record() persistence.User {
	return persistence.User{
		ID:                  f.ID,
		Name:                f.Name,
		Email:               f.Email,
		Strikes:             f.Strikes,
		LastStrikeReduction: f.LastStrikeReduction,
		CreatedAt:           f.CreatedAt,
		UpdatedAt:           f.UpdatedAt,
	}
}
