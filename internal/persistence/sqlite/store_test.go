package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/room-booking/internal/persistence"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return store
}

func TestMigrateSeedsCatalog(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rooms, err := store.Rooms.ListRooms(ctx)
	if err != nil {
		t.Fatalf("failed to list rooms: %v", err)
	}
	if len(rooms) != 6 {
		t.Fatalf("expected 6 seeded rooms, got %d", len(rooms))
	}

	first := rooms[0]
	if first.Name != "Study Room 101" || first.Building != "Main Library" {
		t.Fatalf("unexpected first room: %+v", first)
	}
	if len(first.Amenities) != 2 {
		t.Fatalf("expected 2 amenities, got %v", first.Amenities)
	}

	user, err := store.Users.GetUser(ctx)
	if err != nil {
		t.Fatalf("failed to load seeded user: %v", err)
	}
	if user.Strikes != 0 {
		t.Fatalf("expected fresh ledger, got %d strikes", user.Strikes)
	}

	// Migrate is idempotent: a second run must not duplicate seeds.
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}
	rooms, err = store.Rooms.ListRooms(ctx)
	if err != nil {
		t.Fatalf("failed to list rooms after re-migrate: %v", err)
	}
	if len(rooms) != 6 {
		t.Fatalf("expected 6 rooms after re-migrate, got %d", len(rooms))
	}
}

func TestRoomRepository_GetRoomByToken(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	room, err := store.Rooms.GetRoomByToken(ctx, "UBC-ROOM-1-MCLD-1011")
	if err != nil {
		t.Fatalf("failed to resolve token: %v", err)
	}
	if room.ID != "1" {
		t.Fatalf("expected room 1, got %q", room.ID)
	}

	if _, err := store.Rooms.GetRoomByToken(ctx, "UNKNOWN-TOKEN"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected persistence.ErrNotFound, got %v", err)
	}
}

func TestBookingRepository_RoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	start := time.Date(2025, time.March, 19, 9, 0, 0, 0, time.UTC)
	created := time.Date(2025, time.March, 18, 20, 0, 0, 0, time.UTC)
	booking := persistence.Booking{
		ID:        "booking-1",
		RoomID:    "1",
		RoomName:  "Study Room 101",
		Date:      start.Truncate(24 * time.Hour),
		Start:     start,
		End:       start.Add(time.Hour),
		CreatedAt: created,
		UpdatedAt: created,
	}

	if err := store.Bookings.CreateBooking(ctx, booking); err != nil {
		t.Fatalf("failed to create booking: %v", err)
	}

	loaded, err := store.Bookings.GetBooking(ctx, "booking-1")
	if err != nil {
		t.Fatalf("failed to load booking: %v", err)
	}
	if !loaded.Start.Equal(start) || !loaded.End.Equal(start.Add(time.Hour)) {
		t.Fatalf("interval did not round-trip: %v-%v", loaded.Start, loaded.End)
	}
	if loaded.CheckedIn || loaded.MissedCheckIn || loaded.Cancelled {
		t.Fatalf("fresh booking carries flags: %+v", loaded)
	}
	if loaded.CheckedInAt != nil {
		t.Fatalf("expected nil check-in time, got %v", loaded.CheckedInAt)
	}

	checkedInAt := start.Add(2 * time.Minute)
	loaded.CheckedIn = true
	loaded.CheckedInAt = &checkedInAt
	loaded.UpdatedAt = checkedInAt
	if err := store.Bookings.UpdateBooking(ctx, loaded); err != nil {
		t.Fatalf("failed to update booking: %v", err)
	}

	updated, err := store.Bookings.GetBooking(ctx, "booking-1")
	if err != nil {
		t.Fatalf("failed to reload booking: %v", err)
	}
	if !updated.CheckedIn {
		t.Fatal("expected checked_in flag to persist")
	}
	if updated.CheckedInAt == nil || !updated.CheckedInAt.Equal(checkedInAt) {
		t.Fatalf("expected check-in time %v, got %v", checkedInAt, updated.CheckedInAt)
	}
}

func TestBookingRepository_Errors(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	t.Run("missing booking", func(t *testing.T) {
		if _, err := store.Bookings.GetBooking(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected persistence.ErrNotFound, got %v", err)
		}
	})

	t.Run("update of missing booking", func(t *testing.T) {
		ghost := persistence.Booking{ID: "ghost", UpdatedAt: time.Now()}
		if err := store.Bookings.UpdateBooking(ctx, ghost); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected persistence.ErrNotFound, got %v", err)
		}
	})

	t.Run("unknown room is rejected", func(t *testing.T) {
		start := time.Date(2025, time.March, 19, 9, 0, 0, 0, time.UTC)
		booking := persistence.Booking{
			ID:        "booking-fk",
			RoomID:    "no-such-room",
			RoomName:  "Ghost Room",
			Date:      start,
			Start:     start,
			End:       start.Add(time.Hour),
			CreatedAt: start,
			UpdatedAt: start,
		}
		if err := store.Bookings.CreateBooking(ctx, booking); !errors.Is(err, persistence.ErrForeignKeyViolation) {
			t.Fatalf("expected persistence.ErrForeignKeyViolation, got %v", err)
		}
	})
}

func TestBookingRepository_SlotUniqueness(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	start := time.Date(2025, time.March, 19, 9, 0, 0, 0, time.UTC)
	mk := func(id string) persistence.Booking {
		return persistence.Booking{
			ID: id, RoomID: "1", RoomName: "Study Room 101",
			Date: start, Start: start, End: start.Add(time.Hour),
			CreatedAt: start, UpdatedAt: start,
		}
	}

	if err := store.Bookings.CreateBooking(ctx, mk("first")); err != nil {
		t.Fatalf("failed to create first booking: %v", err)
	}

	if err := store.Bookings.CreateBooking(ctx, mk("second")); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected persistence.ErrDuplicate for a taken slot, got %v", err)
	}

	// The same slot in a different room stays free.
	other := mk("other-room")
	other.RoomID = "2"
	if err := store.Bookings.CreateBooking(ctx, other); err != nil {
		t.Fatalf("failed to book same slot in another room: %v", err)
	}

	// Cancelling the holder releases the slot for a fresh booking.
	held, err := store.Bookings.GetBooking(ctx, "first")
	if err != nil {
		t.Fatalf("failed to load first booking: %v", err)
	}
	held.Cancelled = true
	held.UpdatedAt = start.Add(time.Minute)
	if err := store.Bookings.UpdateBooking(ctx, held); err != nil {
		t.Fatalf("failed to cancel first booking: %v", err)
	}

	if err := store.Bookings.CreateBooking(ctx, mk("rebooked")); err != nil {
		t.Fatalf("expected cancelled slot to be bookable again, got %v", err)
	}
}

func TestBookingRepository_ListBookingsForRoom(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	day := time.Date(2025, time.March, 19, 0, 0, 0, 0, time.UTC)
	mk := func(id string, roomID string, hour int) persistence.Booking {
		start := day.Add(time.Duration(hour) * time.Hour)
		return persistence.Booking{
			ID: id, RoomID: roomID, RoomName: "any",
			Date: day, Start: start, End: start.Add(time.Hour),
			CreatedAt: day, UpdatedAt: day,
		}
	}

	for _, b := range []persistence.Booking{
		mk("b1", "1", 9),
		mk("b2", "1", 14),
		mk("b3", "2", 9),
	} {
		if err := store.Bookings.CreateBooking(ctx, b); err != nil {
			t.Fatalf("failed to create %s: %v", b.ID, err)
		}
	}
	nextDay := mk("b4", "1", 9)
	nextDay.Start = nextDay.Start.AddDate(0, 0, 1)
	nextDay.End = nextDay.End.AddDate(0, 0, 1)
	if err := store.Bookings.CreateBooking(ctx, nextDay); err != nil {
		t.Fatalf("failed to create b4: %v", err)
	}

	bookings, err := store.Bookings.ListBookingsForRoom(ctx, "1", day.Add(12*time.Hour))
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(bookings) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(bookings))
	}
	if bookings[0].ID != "b1" || bookings[1].ID != "b2" {
		t.Fatalf("unexpected order: %s, %s", bookings[0].ID, bookings[1].ID)
	}

	// The full listing is newest start first, ties broken by ID.
	all, err := store.Bookings.ListBookings(ctx)
	if err != nil {
		t.Fatalf("failed to list all bookings: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 bookings, got %d", len(all))
	}
	if all[0].ID != "b4" || all[1].ID != "b2" || all[2].ID != "b1" || all[3].ID != "b3" {
		t.Fatalf("unexpected order: %s, %s, %s, %s", all[0].ID, all[1].ID, all[2].ID, all[3].ID)
	}
}

func TestUserRepository_StrikeBounds(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	user, err := store.Users.GetUser(ctx)
	if err != nil {
		t.Fatalf("failed to load user: %v", err)
	}

	user.Strikes = 6
	user.UpdatedAt = time.Now()
	if err := store.Users.UpdateUser(ctx, user); !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("expected persistence.ErrConstraintViolation, got %v", err)
	}

	user.Strikes = 4
	reduction := time.Date(2025, time.March, 19, 8, 0, 0, 0, time.UTC)
	user.LastStrikeReduction = &reduction
	if err := store.Users.UpdateUser(ctx, user); err != nil {
		t.Fatalf("failed to update user: %v", err)
	}

	reloaded, err := store.Users.GetUser(ctx)
	if err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if reloaded.Strikes != 4 {
		t.Fatalf("expected 4 strikes, got %d", reloaded.Strikes)
	}
	if reloaded.LastStrikeReduction == nil || !reloaded.LastStrikeReduction.Equal(reduction) {
		t.Fatalf("expected reduction timestamp %v, got %v", reduction, reloaded.LastStrikeReduction)
	}
}
