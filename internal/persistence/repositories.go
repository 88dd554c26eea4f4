package persistence

import (
	"context"
	"time"
)

// RoomRepository exposes read access to the room catalog.
type RoomRepository interface {
	GetRoom(ctx context.Context, id string) (Room, error)
	GetRoomByToken(ctx context.Context, token string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
}

// BookingRepository exposes CRUD operations for bookings. Bookings are never
// deleted; cancellation is a flag update.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking Booking) error
	GetBooking(ctx context.Context, id string) (Booking, error)
	UpdateBooking(ctx context.Context, booking Booking) error
	ListBookings(ctx context.Context) ([]Booking, error)
	ListBookingsForRoom(ctx context.Context, roomID string, day time.Time) ([]Booking, error)
}

// UserRepository exposes access to the single user row.
type UserRepository interface {
	GetUser(ctx context.Context) (User, error)
	UpdateUser(ctx context.Context, user User) error
}
