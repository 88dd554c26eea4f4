package main

import (
	"context"
	"time"

	"github.com/example/room-booking/internal/booking"
	"github.com/example/room-booking/internal/persistence"
)

type roomRepositoryAdapter struct {
	repo persistence.RoomRepository
}

func newRoomRepositoryAdapter(repo persistence.RoomRepository) *roomRepositoryAdapter {
	return &roomRepositoryAdapter{repo: repo}
}

func (a *roomRepositoryAdapter) GetRoom(ctx context.Context, id string) (booking.Room, error) {
	stored, err := a.repo.GetRoom(ctx, id)
	if err != nil {
		return booking.Room{}, err
	}
	return toDomainRoom(stored), nil
}

func (a *roomRepositoryAdapter) GetRoomByToken(ctx context.Context, token string) (booking.Room, error) {
	stored, err := a.repo.GetRoomByToken(ctx, token)
	if err != nil {
		return booking.Room{}, err
	}
	return toDomainRoom(stored), nil
}

func (a *roomRepositoryAdapter) ListRooms(ctx context.Context) ([]booking.Room, error) {
	models, err := a.repo.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	rooms := make([]booking.Room, 0, len(models))
	for _, model := range models {
		rooms = append(rooms, toDomainRoom(model))
	}
	return rooms, nil
}

type bookingRepositoryAdapter struct {
	repo persistence.BookingRepository
}

func newBookingRepositoryAdapter(repo persistence.BookingRepository) *bookingRepositoryAdapter {
	return &bookingRepositoryAdapter{repo: repo}
}

func (a *bookingRepositoryAdapter) CreateBooking(ctx context.Context, b booking.Booking) (booking.Booking, error) {
	if err := a.repo.CreateBooking(ctx, toPersistenceBooking(b)); err != nil {
		return booking.Booking{}, err
	}
	stored, err := a.repo.GetBooking(ctx, b.ID)
	if err != nil {
		return booking.Booking{}, err
	}
	return toDomainBooking(stored), nil
}

func (a *bookingRepositoryAdapter) GetBooking(ctx context.Context, id string) (booking.Booking, error) {
	stored, err := a.repo.GetBooking(ctx, id)
	if err != nil {
		return booking.Booking{}, err
	}
	return toDomainBooking(stored), nil
}

func (a *bookingRepositoryAdapter) UpdateBooking(ctx context.Context, b booking.Booking) (booking.Booking, error) {
	if err := a.repo.UpdateBooking(ctx, toPersistenceBooking(b)); err != nil {
		return booking.Booking{}, err
	}
	stored, err := a.repo.GetBooking(ctx, b.ID)
	if err != nil {
		return booking.Booking{}, err
	}
	return toDomainBooking(stored), nil
}

func (a *bookingRepositoryAdapter) ListBookings(ctx context.Context) ([]booking.Booking, error) {
	models, err := a.repo.ListBookings(ctx)
	if err != nil {
		return nil, err
	}
	return toDomainBookings(models), nil
}

func (a *bookingRepositoryAdapter) ListBookingsForRoom(ctx context.Context, roomID string, day time.Time) ([]booking.Booking, error) {
	models, err := a.repo.ListBookingsForRoom(ctx, roomID, day)
	if err != nil {
		return nil, err
	}
	return toDomainBookings(models), nil
}

type userRepositoryAdapter struct {
	repo persistence.UserRepository
}

func newUserRepositoryAdapter(repo persistence.UserRepository) *userRepositoryAdapter {
	return &userRepositoryAdapter{repo: repo}
}

func (a *userRepositoryAdapter) GetUser(ctx context.Context) (booking.User, error) {
	stored, err := a.repo.GetUser(ctx)
	if err != nil {
		return booking.User{}, err
	}
	return toDomainUser(stored), nil
}

func (a *userRepositoryAdapter) UpdateUser(ctx context.Context, u booking.User) (booking.User, error) {
	if err := a.repo.UpdateUser(ctx, toPersistenceUser(u)); err != nil {
		return booking.User{}, err
	}
	stored, err := a.repo.GetUser(ctx)
	if err != nil {
		return booking.User{}, err
	}
	return toDomainUser(stored), nil
}

func toDomainRoom(model persistence.Room) booking.Room {
	amenities := make([]booking.Amenity, 0, len(model.Amenities))
	for _, a := range model.Amenities {
		amenities = append(amenities, booking.Amenity(a))
	}
	return booking.Room{
		ID:        model.ID,
		Name:      model.Name,
		Building:  model.Building,
		Floor:     model.Floor,
		Capacity:  model.Capacity,
		Amenities: amenities,
		ImageRef:  model.ImageRef,
		QRToken:   model.QRToken,
	}
}

func toDomainBooking(model persistence.Booking) booking.Booking {
	return booking.Booking{
		ID:            model.ID,
		RoomID:        model.RoomID,
		RoomName:      model.RoomName,
		Date:          model.Date,
		Start:         model.Start,
		End:           model.End,
		CheckedIn:     model.CheckedIn,
		CheckedInAt:   cloneTime(model.CheckedInAt),
		MissedCheckIn: model.MissedCheckIn,
		Cancelled:     model.Cancelled,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func toDomainBookings(models []persistence.Booking) []booking.Booking {
	if len(models) == 0 {
		return nil
	}
	bookings := make([]booking.Booking, 0, len(models))
	for _, model := range models {
		bookings = append(bookings, toDomainBooking(model))
	}
	return bookings
}

func toPersistenceBooking(b booking.Booking) persistence.Booking {
	return persistence.Booking{
		ID:            b.ID,
		RoomID:        b.RoomID,
		RoomName:      b.RoomName,
		Date:          b.Date,
		Start:         b.Start,
		End:           b.End,
		CheckedIn:     b.CheckedIn,
		CheckedInAt:   cloneTime(b.CheckedInAt),
		MissedCheckIn: b.MissedCheckIn,
		Cancelled:     b.Cancelled,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func toDomainUser(model persistence.User) booking.User {
	return booking.User{
		ID:                  model.ID,
		Name:                model.Name,
		Email:               model.Email,
		Strikes:             model.Strikes,
		LastStrikeReduction: cloneTime(model.LastStrikeReduction),
	}
}

func toPersistenceUser(u booking.User) persistence.User {
	return persistence.User{
		ID:                  u.ID,
		Name:                u.Name,
		Email:               u.Email,
		Strikes:             u.Strikes,
		LastStrikeReduction: cloneTime(u.LastStrikeReduction),
	}
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
