package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/example/room-booking/internal/booking"
	"github.com/example/room-booking/internal/persistence"
)

// RoomRepository captures the room catalog operations needed by the service.
type RoomRepository interface {
	GetRoom(ctx context.Context, id string) (booking.Room, error)
	GetRoomByToken(ctx context.Context, token string) (booking.Room, error)
	ListRooms(ctx context.Context) ([]booking.Room, error)
}

// BookingRepository captures the persistence interactions needed by the service.
type BookingRepository interface {
	CreateBooking(ctx context.Context, b booking.Booking) (booking.Booking, error)
	GetBooking(ctx context.Context, id string) (booking.Booking, error)
	UpdateBooking(ctx context.Context, b booking.Booking) (booking.Booking, error)
	ListBookings(ctx context.Context) ([]booking.Booking, error)
	ListBookingsForRoom(ctx context.Context, roomID string, day time.Time) ([]booking.Booking, error)
}

// UserRepository exposes the single user record carrying the strike ledger.
type UserRepository interface {
	GetUser(ctx context.Context) (booking.User, error)
	UpdateUser(ctx context.Context, u booking.User) (booking.User, error)
}

// BookingService is the aggregate root over rooms, bookings, and the strike
// ledger. Every operation takes an explicit asOf instant; the service never
// reads the ambient clock inside an operation, so behaviour is fully
// deterministic under test. A single mutex serializes mutating operations:
// they all read then write the same records, and concurrent interleaving
// could double-book a slot or double-apply a strike.
type BookingService struct {
	mu          sync.Mutex
	rooms       RoomRepository
	bookings    BookingRepository
	users       UserRepository
	idGenerator func() string
	now         func() time.Time
	decayMode   booking.StrikeDecayMode
	logger      *slog.Logger
}

// NewBookingService wires dependencies for the booking store.
func NewBookingService(rooms RoomRepository, bookings BookingRepository, users UserRepository, idGenerator func() string, now func() time.Time) *BookingService {
	return NewBookingServiceWithLogger(rooms, bookings, users, idGenerator, now, booking.DecayAlways, nil)
}

// NewBookingServiceWithLogger constructs a booking service with the strike
// decay mode and logger specified.
func NewBookingServiceWithLogger(rooms RoomRepository, bookings BookingRepository, users UserRepository, idGenerator func() string, now func() time.Time, decayMode booking.StrikeDecayMode, logger *slog.Logger) *BookingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if !decayMode.Valid() {
		decayMode = booking.DecayAlways
	}
	return &BookingService{
		rooms:       rooms,
		bookings:    bookings,
		users:       users,
		idGenerator: idGenerator,
		now:         now,
		decayMode:   decayMode,
		logger:      defaultLogger(logger),
	}
}

func (s *BookingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BookingService", operation, attrs...)
}

func (s *BookingService) resolveAsOf(asOf time.Time) time.Time {
	if asOf.IsZero() {
		return s.now()
	}
	return asOf
}

// ListRooms returns the room catalog.
func (s *BookingService) ListRooms(ctx context.Context) ([]booking.Room, error) {
	if s == nil {
		return nil, fmt.Errorf("BookingService is nil")
	}
	if s.rooms == nil {
		return nil, nil
	}

	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return rooms, nil
}

// GetAvailableSlots projects the bookable grid for a room on the calendar day
// containing date. The grid is recomputed from the current booking set on
// every call.
func (s *BookingService) GetAvailableSlots(ctx context.Context, roomID string, date time.Time, asOf time.Time) ([]booking.TimeSlot, error) {
	if s == nil {
		return nil, fmt.Errorf("BookingService is nil")
	}
	if s.rooms == nil || s.bookings == nil {
		return nil, fmt.Errorf("repositories not configured")
	}

	if _, err := s.rooms.GetRoom(ctx, roomID); err != nil {
		return nil, mapRepoError(err)
	}

	existing, err := s.bookings.ListBookingsForRoom(ctx, roomID, date)
	if err != nil {
		return nil, mapRepoError(err)
	}

	return booking.Slots(date, roomID, existing), nil
}

// CreateBooking reserves a slot. The strike ledger gates the operation, and
// availability is re-checked under the mutex right before the write so two
// submissions racing for the same slot cannot both succeed.
func (s *BookingService) CreateBooking(ctx context.Context, params CreateBookingParams) (created booking.Booking, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}
	if s.rooms == nil || s.bookings == nil || s.users == nil {
		err = fmt.Errorf("repositories not configured")
		return
	}

	asOf := s.resolveAsOf(params.AsOf)
	logger := s.loggerWith(ctx, "CreateBooking",
		"room_id", params.RoomID,
		"slot_id", params.SlotID.String(),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("booking_id", created.ID).InfoContext(ctx, "booking created")
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.users.GetUser(ctx)
	if err != nil {
		err = mapRepoError(err)
		return
	}
	if !booking.CanBook(user) {
		err = ErrPolicyViolation
		return
	}

	room, err := s.rooms.GetRoom(ctx, params.RoomID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	existing, err := s.bookings.ListBookingsForRoom(ctx, room.ID, params.Date)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	slots := booking.Slots(params.Date, room.ID, existing)
	var slot *booking.TimeSlot
	for i := range slots {
		if slots[i].ID == params.SlotID {
			slot = &slots[i]
			break
		}
	}
	if slot == nil {
		vErr := &ValidationError{}
		vErr.add("slot_id", "slot is not part of the day's grid")
		err = vErr
		return
	}
	if !slot.Available {
		err = ErrSlotUnavailable
		return
	}

	candidate := booking.Booking{
		ID:        s.idGenerator(),
		RoomID:    room.ID,
		RoomName:  room.Name,
		Date:      booking.StartOfDay(slot.Start),
		Start:     slot.Start,
		End:       slot.End,
		CreatedAt: asOf,
		UpdatedAt: asOf,
	}

	created, err = s.bookings.CreateBooking(ctx, candidate)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	return
}

// CheckIn confirms occupancy for a booking. It reports false without error
// when the booking does not exist or is outside its check-in window at asOf;
// the caller cannot distinguish the two, matching the contract of the scan
// flow it serves.
func (s *BookingService) CheckIn(ctx context.Context, bookingID string, asOf time.Time) (bool, error) {
	if s == nil {
		return false, fmt.Errorf("BookingService is nil")
	}
	if s.bookings == nil {
		return false, fmt.Errorf("booking repository not configured")
	}

	asOf = s.resolveAsOf(asOf)
	logger := s.loggerWith(ctx, "CheckIn", "booking_id", bookingID)

	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			logger.InfoContext(ctx, "check-in refused", "reason", "booking not found")
			return false, nil
		}
		return false, mapRepoError(err)
	}

	if !booking.CheckInEligible(b, asOf) {
		logger.InfoContext(ctx, "check-in refused", "reason", "outside window", "status", string(booking.DeriveStatus(b, asOf)))
		return false, nil
	}

	checkedInAt := asOf
	b.CheckedIn = true
	b.CheckedInAt = &checkedInAt
	b.UpdatedAt = asOf

	if _, err := s.bookings.UpdateBooking(ctx, b); err != nil {
		return false, mapRepoError(err)
	}

	logger.InfoContext(ctx, "booking checked in")
	return true, nil
}

// Cancel cancels a booking. A booking that is missing, terminal, or already
// started yields {false, false}. Otherwise the three hour boundary decides
// between the penalty-free and penalized paths; exactly one executes.
func (s *BookingService) Cancel(ctx context.Context, bookingID string, asOf time.Time) (CancelResult, error) {
	if s == nil {
		return CancelResult{}, fmt.Errorf("BookingService is nil")
	}
	if s.bookings == nil || s.users == nil {
		return CancelResult{}, fmt.Errorf("repositories not configured")
	}

	asOf = s.resolveAsOf(asOf)
	logger := s.loggerWith(ctx, "Cancel", "booking_id", bookingID)

	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			logger.InfoContext(ctx, "cancellation refused", "reason", "booking not found")
			return CancelResult{}, nil
		}
		return CancelResult{}, mapRepoError(err)
	}

	if !booking.Cancellable(b, asOf) {
		logger.InfoContext(ctx, "cancellation refused", "reason", "not cancellable", "status", string(booking.DeriveStatus(b, asOf)))
		return CancelResult{}, nil
	}

	penalty := booking.CancelPenalized(b, asOf)

	if penalty {
		user, err := s.users.GetUser(ctx)
		if err != nil {
			return CancelResult{}, mapRepoError(err)
		}
		booking.AddStrike(&user)
		if _, err := s.users.UpdateUser(ctx, user); err != nil {
			return CancelResult{}, mapRepoError(err)
		}
	}

	b.Cancelled = true
	b.UpdatedAt = asOf
	if _, err := s.bookings.UpdateBooking(ctx, b); err != nil {
		return CancelResult{}, mapRepoError(err)
	}

	logger.InfoContext(ctx, "booking cancelled", "penalty_applied", penalty)
	return CancelResult{Success: true, PenaltyApplied: penalty}, nil
}

// ReconcileMissedCheckIns sweeps all bookings, flags every newly missed
// check-in, and accrues one strike per miss. The stored flag acts as the
// processed marker, so repeated sweeps never double-apply a strike.
func (s *BookingService) ReconcileMissedCheckIns(ctx context.Context, asOf time.Time) (count int, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}
	if s.bookings == nil || s.users == nil {
		err = fmt.Errorf("repositories not configured")
		return
	}

	asOf = s.resolveAsOf(asOf)
	logger := s.loggerWith(ctx, "ReconcileMissedCheckIns")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "reconciliation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		if count > 0 {
			logger.With("missed_count", count).InfoContext(ctx, "missed check-ins reconciled")
		}
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.bookings.ListBookings(ctx)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	var user *booking.User
	for _, b := range all {
		if b.Terminal() {
			continue
		}
		if !booking.MissedCheckIn(b, asOf) {
			continue
		}

		if user == nil {
			loaded, uerr := s.users.GetUser(ctx)
			if uerr != nil {
				err = mapRepoError(uerr)
				return
			}
			user = &loaded
		}

		b.MissedCheckIn = true
		b.UpdatedAt = asOf
		if _, uerr := s.bookings.UpdateBooking(ctx, b); uerr != nil {
			err = mapRepoError(uerr)
			return
		}

		booking.AddStrike(user)
		count++
	}

	if user != nil {
		if _, uerr := s.users.UpdateUser(ctx, *user); uerr != nil {
			err = mapRepoError(uerr)
			return
		}
	}

	return
}

// GetUser returns the read-only user projection including booking permission.
func (s *BookingService) GetUser(ctx context.Context) (UserProfile, error) {
	if s == nil {
		return UserProfile{}, fmt.Errorf("BookingService is nil")
	}
	if s.users == nil {
		return UserProfile{}, fmt.Errorf("user repository not configured")
	}

	user, err := s.users.GetUser(ctx)
	if err != nil {
		return UserProfile{}, mapRepoError(err)
	}

	return toUserProfile(user), nil
}

// ReduceStrikes applies one strike decay step and returns the updated
// profile. Gating depends on the configured decay mode.
func (s *BookingService) ReduceStrikes(ctx context.Context, asOf time.Time) (UserProfile, error) {
	if s == nil {
		return UserProfile{}, fmt.Errorf("BookingService is nil")
	}
	if s.users == nil {
		return UserProfile{}, fmt.Errorf("user repository not configured")
	}

	asOf = s.resolveAsOf(asOf)
	logger := s.loggerWith(ctx, "ReduceStrikes")

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.users.GetUser(ctx)
	if err != nil {
		return UserProfile{}, mapRepoError(err)
	}

	if booking.ReduceStrikes(&user, asOf, s.decayMode) {
		if _, err := s.users.UpdateUser(ctx, user); err != nil {
			return UserProfile{}, mapRepoError(err)
		}
		logger.With("strikes", user.Strikes).InfoContext(ctx, "strike reduced")
	}

	return toUserProfile(user), nil
}

// ListBookings returns every booking annotated with its status derived at
// asOf, newest start first. Bookings sharing a start are ordered by ID.
func (s *BookingService) ListBookings(ctx context.Context, asOf time.Time) ([]BookingView, error) {
	if s == nil {
		return nil, fmt.Errorf("BookingService is nil")
	}
	if s.bookings == nil {
		return nil, fmt.Errorf("booking repository not configured")
	}

	asOf = s.resolveAsOf(asOf)

	all, err := s.bookings.ListBookings(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}

	ordered := make([]booking.Booking, len(all))
	copy(ordered, all)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Start.Equal(ordered[j].Start) {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].Start.After(ordered[j].Start)
	})

	views := make([]BookingView, 0, len(ordered))
	for _, b := range ordered {
		views = append(views, BookingView{
			Booking: b,
			Status:  booking.DeriveStatus(b, asOf),
		})
	}

	return views, nil
}

// ResolveRoomToken finds the user's check-in-eligible booking for the room
// carrying the scanned token. Token-to-room resolution is a thin lookup; the
// eligibility decision reuses the check-in window policy.
func (s *BookingService) ResolveRoomToken(ctx context.Context, token string, asOf time.Time) (booking.Booking, error) {
	if s == nil {
		return booking.Booking{}, fmt.Errorf("BookingService is nil")
	}
	if s.rooms == nil || s.bookings == nil {
		return booking.Booking{}, fmt.Errorf("repositories not configured")
	}

	asOf = s.resolveAsOf(asOf)

	room, err := s.rooms.GetRoomByToken(ctx, token)
	if err != nil {
		return booking.Booking{}, mapRepoError(err)
	}

	candidates, err := s.bookings.ListBookingsForRoom(ctx, room.ID, asOf)
	if err != nil {
		return booking.Booking{}, mapRepoError(err)
	}

	for _, b := range candidates {
		if booking.CheckInEligible(b, asOf) {
			return b, nil
		}
	}

	return booking.Booking{}, ErrNotFound
}

func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrSlotUnavailable
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		return ErrInvalidState
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		return ErrNotFound
	}
	return err
}
