package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/room-booking/internal/persistence"
	"github.com/example/room-booking/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite storage
// instance for integration-style persistence tests.
type SQLiteHarness struct {
	Rooms    persistence.RoomRepository
	Bookings persistence.BookingRepository
	Users    persistence.UserRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness using a temporary file that is
// migrated and seeded automatically. Callers may optionally invoke Close, but
// the helper also registers a cleanup callback with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	dir := tb.TempDir()
	path := filepath.Join(dir, "roombooking.db")

	store, err := sqlite.Open("file:" + path)
	if err != nil {
		tb.Fatalf("failed to open sqlite store: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		store.Close()
		tb.Fatalf("failed to migrate sqlite store: %v", err)
	}

	harness := &SQLiteHarness{
		Rooms:    store.Rooms,
		Bookings: store.Bookings,
		Users:    store.Users,
		cleanup: func() {
			store.Close()
		},
	}
	tb.Cleanup(harness.Close)
	return harness
}
