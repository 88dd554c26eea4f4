package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/example/room-booking/internal/booking"
)

// CreateBookingParams wraps the data required to reserve a slot.
type CreateBookingParams struct {
	RoomID string
	Date   time.Time
	SlotID uuid.UUID
	AsOf   time.Time
}

// CancelResult reports the outcome of a cancellation attempt.
type CancelResult struct {
	Success        bool
	PenaltyApplied bool
}

// UserProfile is the read-only user projection exposed to callers.
type UserProfile struct {
	ID                  string
	Name                string
	Email               string
	Strikes             int
	LastStrikeReduction *time.Time
	CanBook             bool
}

// BookingView annotates a booking with its status derived at the query instant.
type BookingView struct {
	Booking booking.Booking
	Status  booking.Status
}

func toUserProfile(u booking.User) UserProfile {
	return UserProfile{
		ID:                  u.ID,
		Name:                u.Name,
		Email:               u.Email,
		Strikes:             u.Strikes,
		LastStrikeReduction: u.LastStrikeReduction,
		CanBook:             booking.CanBook(u),
	}
}
