package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/room-booking/internal/application"
	"github.com/example/room-booking/internal/booking"
)

type roomServiceStub struct {
	rooms    []booking.Room
	slots    []booking.TimeSlot
	listErr  error
	slotsErr error
}

func (s *roomServiceStub) ListRooms(ctx context.Context) ([]booking.Room, error) {
	return s.rooms, s.listErr
}

func (s *roomServiceStub) GetAvailableSlots(ctx context.Context, roomID string, date, asOf time.Time) ([]booking.TimeSlot, error) {
	if s.slotsErr != nil {
		return nil, s.slotsErr
	}
	return s.slots, nil
}

type bookingServiceStub struct {
	created      booking.Booking
	createErr    error
	views        []application.BookingView
	checkInOK    bool
	checkInErr   error
	cancelResult application.CancelResult
	cancelErr    error
	reconciled   int
	resolved     booking.Booking
	resolveErr   error

	lastBookingID string
	lastAsOf      time.Time
}

func (s *bookingServiceStub) CreateBooking(ctx context.Context, params application.CreateBookingParams) (booking.Booking, error) {
	s.lastAsOf = params.AsOf
	return s.created, s.createErr
}

func (s *bookingServiceStub) ListBookings(ctx context.Context, asOf time.Time) ([]application.BookingView, error) {
	s.lastAsOf = asOf
	return s.views, nil
}

func (s *bookingServiceStub) CheckIn(ctx context.Context, bookingID string, asOf time.Time) (bool, error) {
	s.lastBookingID = bookingID
	s.lastAsOf = asOf
	return s.checkInOK, s.checkInErr
}

func (s *bookingServiceStub) Cancel(ctx context.Context, bookingID string, asOf time.Time) (application.CancelResult, error) {
	s.lastBookingID = bookingID
	s.lastAsOf = asOf
	return s.cancelResult, s.cancelErr
}

func (s *bookingServiceStub) ReconcileMissedCheckIns(ctx context.Context, asOf time.Time) (int, error) {
	s.lastAsOf = asOf
	return s.reconciled, nil
}

func (s *bookingServiceStub) ResolveRoomToken(ctx context.Context, token string, asOf time.Time) (booking.Booking, error) {
	s.lastAsOf = asOf
	return s.resolved, s.resolveErr
}

type profileServiceStub struct {
	profile application.UserProfile
	err     error
}

func (s *profileServiceStub) GetUser(ctx context.Context) (application.UserProfile, error) {
	return s.profile, s.err
}

func (s *profileServiceStub) ReduceStrikes(ctx context.Context, asOf time.Time) (application.UserProfile, error) {
	return s.profile, s.err
}

func newTestRouter(rooms roomService, bookings bookingService, profile profileService) http.Handler {
	cfg := RouterConfig{}
	if rooms != nil {
		cfg.Rooms = NewRoomHandler(rooms, nil)
	}
	if bookings != nil {
		cfg.Bookings = NewBookingHandler(bookings, nil)
	}
	if profile != nil {
		cfg.Profile = NewProfileHandler(profile, nil)
	}
	return NewRouter(cfg)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}

func TestRoomEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("lists the catalog", func(t *testing.T) {
		t.Parallel()
		stub := &roomServiceStub{rooms: []booking.Room{{
			ID: "1", Name: "Study Room 101", Building: "Main Library", Floor: 1, Capacity: 4,
			Amenities: []booking.Amenity{booking.AmenityWhiteboard},
		}}}
		router := newTestRouter(stub, nil, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp listRoomsResponse
		decodeBody(t, rec, &resp)
		if len(resp.Rooms) != 1 {
			t.Fatalf("expected 1 room, got %d", len(resp.Rooms))
		}
		if resp.Rooms[0].Location != "Main Library, Floor 1" {
			t.Fatalf("unexpected location: %q", resp.Rooms[0].Location)
		}
	})

	t.Run("rejects mutation verbs", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(&roomServiceStub{}, nil, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/rooms", nil))

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("serves the slot grid", func(t *testing.T) {
		t.Parallel()
		start := time.Date(2025, time.March, 19, 9, 0, 0, 0, time.UTC)
		stub := &roomServiceStub{slots: []booking.TimeSlot{
			booking.NewTimeSlot(start, start.Add(time.Hour), false),
		}}
		router := newTestRouter(stub, nil, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms/1/slots?date=2025-03-19", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp listSlotsResponse
		decodeBody(t, rec, &resp)
		if len(resp.Slots) != 1 {
			t.Fatalf("expected 1 slot, got %d", len(resp.Slots))
		}
		if resp.Slots[0].Available {
			t.Fatal("expected slot to be reported unavailable")
		}
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(&roomServiceStub{}, nil, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms/1/slots?date=03-19-2025", nil))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("maps a missing room to 404", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(&roomServiceStub{slotsErr: application.ErrNotFound}, nil, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms/missing/slots?date=2025-03-19", nil))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestBookingEndpoints(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, time.March, 19, 9, 0, 0, 0, time.UTC)
	slotID := booking.SlotID(start)

	t.Run("creates a booking", func(t *testing.T) {
		t.Parallel()
		stub := &bookingServiceStub{created: booking.Booking{
			ID: "booking-1", RoomID: "1", RoomName: "Study Room 101",
			Date: booking.StartOfDay(start), Start: start, End: start.Add(time.Hour),
		}}
		router := newTestRouter(nil, stub, nil)

		body := `{"room_id":"1","date":"2025-03-19","slot_id":"` + slotID.String() + `"}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body)))

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp bookingResponse
		decodeBody(t, rec, &resp)
		if resp.Booking.ID != "booking-1" {
			t.Fatalf("unexpected booking id %q", resp.Booking.ID)
		}
	})

	t.Run("reports field errors for a malformed request", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(nil, &bookingServiceStub{}, nil)

		body := `{"room_id":"","date":"bad","slot_id":"not-a-uuid"}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body)))

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		var resp errorResponse
		decodeBody(t, rec, &resp)
		for _, field := range []string{"room_id", "date", "slot_id"} {
			if _, ok := resp.Errors[field]; !ok {
				t.Fatalf("expected error for %s, got %v", field, resp.Errors)
			}
		}
	})

	t.Run("maps a taken slot to 409", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(nil, &bookingServiceStub{createErr: application.ErrSlotUnavailable}, nil)

		body := `{"room_id":"1","date":"2025-03-19","slot_id":"` + slotID.String() + `"}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body)))

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		var resp errorResponse
		decodeBody(t, rec, &resp)
		if resp.ErrorCode != "SLOT_UNAVAILABLE" {
			t.Fatalf("unexpected error code %q", resp.ErrorCode)
		}
	})

	t.Run("maps a blocked ledger to 409", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(nil, &bookingServiceStub{createErr: application.ErrPolicyViolation}, nil)

		body := `{"room_id":"1","date":"2025-03-19","slot_id":"` + slotID.String() + `"}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body)))

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		var resp errorResponse
		decodeBody(t, rec, &resp)
		if resp.ErrorCode != "BOOKING_BLOCKED" {
			t.Fatalf("unexpected error code %q", resp.ErrorCode)
		}
	})

	t.Run("lists bookings with status", func(t *testing.T) {
		t.Parallel()
		stub := &bookingServiceStub{views: []application.BookingView{{
			Booking: booking.Booking{ID: "booking-1", RoomID: "1", Start: start, End: start.Add(time.Hour)},
			Status:  booking.StatusUpcoming,
		}}}
		router := newTestRouter(nil, stub, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp listBookingsResponse
		decodeBody(t, rec, &resp)
		if len(resp.Bookings) != 1 || resp.Bookings[0].Status != string(booking.StatusUpcoming) {
			t.Fatalf("unexpected payload: %+v", resp.Bookings)
		}
	})

	t.Run("pins the list instant from as_of", func(t *testing.T) {
		t.Parallel()
		stub := &bookingServiceStub{}
		router := newTestRouter(nil, stub, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings?as_of=2025-03-19T09:00:00Z", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !stub.lastAsOf.Equal(start) {
			t.Fatalf("expected as_of %v, got %v", start, stub.lastAsOf)
		}
	})

	t.Run("check-in routes the path id and tolerates an empty body", func(t *testing.T) {
		t.Parallel()
		stub := &bookingServiceStub{checkInOK: true}
		router := newTestRouter(nil, stub, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings/booking-1/checkin", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if stub.lastBookingID != "booking-1" {
			t.Fatalf("expected booking-1, got %q", stub.lastBookingID)
		}
		var resp checkInResponse
		decodeBody(t, rec, &resp)
		if !resp.Success {
			t.Fatal("expected success=true")
		}
	})

	t.Run("ineligible check-in responds success=false", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(nil, &bookingServiceStub{checkInOK: false}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings/booking-1/checkin", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp checkInResponse
		decodeBody(t, rec, &resp)
		if resp.Success {
			t.Fatal("expected success=false")
		}
	})

	t.Run("cancel surfaces the penalty flag", func(t *testing.T) {
		t.Parallel()
		stub := &bookingServiceStub{cancelResult: application.CancelResult{Success: true, PenaltyApplied: true}}
		router := newTestRouter(nil, stub, nil)

		body := `{"as_of":"2025-03-19T07:00:00Z"}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings/booking-1/cancel", strings.NewReader(body)))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp cancelResponse
		decodeBody(t, rec, &resp)
		if !resp.Success || !resp.PenaltyApplied {
			t.Fatalf("unexpected payload: %+v", resp)
		}
		if want := start.Add(-2 * time.Hour); !stub.lastAsOf.Equal(want) {
			t.Fatalf("expected as_of %v, got %v", want, stub.lastAsOf)
		}
	})

	t.Run("reconcile reports the sweep count", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(nil, &bookingServiceStub{reconciled: 2}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reconcile", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp reconcileResponse
		decodeBody(t, rec, &resp)
		if resp.Count != 2 {
			t.Fatalf("expected count 2, got %d", resp.Count)
		}
	})

	t.Run("scan resolves and checks in", func(t *testing.T) {
		t.Parallel()
		stub := &bookingServiceStub{
			resolved:  booking.Booking{ID: "booking-1", RoomName: "Study Room 101"},
			checkInOK: true,
		}
		router := newTestRouter(nil, stub, nil)

		body := `{"token":"UBC-ROOM-1-MCLD-1011"}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkin/scan", strings.NewReader(body)))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp scanResponse
		decodeBody(t, rec, &resp)
		if !resp.Success || resp.BookingID != "booking-1" {
			t.Fatalf("unexpected payload: %+v", resp)
		}
		if stub.lastBookingID != "booking-1" {
			t.Fatalf("expected check-in of booking-1, got %q", stub.lastBookingID)
		}
	})

	t.Run("scan with an unknown token maps to 404", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(nil, &bookingServiceStub{resolveErr: application.ErrNotFound}, nil)

		body := `{"token":"UNKNOWN"}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkin/scan", strings.NewReader(body)))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("scan without a token is a validation error", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(nil, &bookingServiceStub{}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkin/scan", strings.NewReader(`{}`)))

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
	})

	t.Run("unknown booking action is 404", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(nil, &bookingServiceStub{}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings/booking-1/extend", nil))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestProfileEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("returns the profile projection", func(t *testing.T) {
		t.Parallel()
		stub := &profileServiceStub{profile: application.UserProfile{
			ID: "1", Name: "Student", Email: "student@example.edu", Strikes: 3, CanBook: false,
		}}
		router := newTestRouter(nil, nil, stub)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp profileResponse
		decodeBody(t, rec, &resp)
		if resp.Profile.CanBook {
			t.Fatal("expected can_book=false at 3 strikes")
		}
		if resp.Profile.Strikes != 3 {
			t.Fatalf("expected 3 strikes, got %d", resp.Profile.Strikes)
		}
	})

	t.Run("strike reduction returns the updated profile", func(t *testing.T) {
		t.Parallel()
		stub := &profileServiceStub{profile: application.UserProfile{
			ID: "1", Name: "Student", Strikes: 1, CanBook: true,
		}}
		router := newTestRouter(nil, nil, stub)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/profile/strike-reduction", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp profileResponse
		decodeBody(t, rec, &resp)
		if resp.Profile.Strikes != 1 || !resp.Profile.CanBook {
			t.Fatalf("unexpected payload: %+v", resp.Profile)
		}
	})
}
