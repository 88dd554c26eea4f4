package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/room-booking/internal/persistence"
)

// BookingRepository implements persistence.BookingRepository using SQLite.
type BookingRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewBookingRepository creates a new SQLite booking repository.
func NewBookingRepository(pool *ConnectionPool) *BookingRepository {
	return &BookingRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// Timestamps are stored as UTC RFC3339 strings so range queries can compare
// them lexically.
const bookingColumns = "id, room_id, room_name, date, start_time, end_time, checked_in, checked_in_at, missed_check_in, cancelled, created_at, updated_at"

// CreateBooking inserts a new booking row.
func (r *BookingRepository) CreateBooking(ctx context.Context, booking persistence.Booking) error {
	if booking.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.helper.Exec(ctx, `
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		booking.ID,
		booking.RoomID,
		booking.RoomName,
		booking.Date.UTC().Format(time.RFC3339),
		booking.Start.UTC().Format(time.RFC3339),
		booking.End.UTC().Format(time.RFC3339),
		boolToInt(booking.CheckedIn),
		nullableTime(booking.CheckedInAt),
		boolToInt(booking.MissedCheckIn),
		boolToInt(booking.Cancelled),
		booking.CreatedAt.UTC().Format(time.RFC3339),
		booking.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// GetBooking retrieves a booking by ID.
func (r *BookingRepository) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	if id == "" {
		return persistence.Booking{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id)
	booking, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Booking{}, persistence.ErrNotFound
		}
		return persistence.Booking{}, r.mapper.MapError(err)
	}

	return booking, nil
}

// UpdateBooking persists the mutable flag columns of an existing booking.
func (r *BookingRepository) UpdateBooking(ctx context.Context, booking persistence.Booking) error {
	if booking.ID == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, `
		UPDATE bookings
		SET checked_in = ?, checked_in_at = ?, missed_check_in = ?, cancelled = ?, updated_at = ?
		WHERE id = ?`,
		boolToInt(booking.CheckedIn),
		nullableTime(booking.CheckedInAt),
		boolToInt(booking.MissedCheckIn),
		boolToInt(booking.Cancelled),
		booking.UpdatedAt.UTC().Format(time.RFC3339),
		booking.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return persistence.ErrNotFound
	}

	return nil
}

// ListBookings returns every booking, newest start first.
func (r *BookingRepository) ListBookings(ctx context.Context) ([]persistence.Booking, error) {
	rows, err := r.helper.Query(ctx, "SELECT "+bookingColumns+" FROM bookings ORDER BY start_time DESC, id ASC")
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// ListBookingsForRoom returns the bookings for a room on the calendar day
// containing day, ordered by start time.
func (r *BookingRepository) ListBookingsForRoom(ctx context.Context, roomID string, day time.Time) ([]persistence.Booking, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	rows, err := r.helper.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE room_id = ? AND start_time >= ? AND start_time < ?
		ORDER BY start_time ASC, id ASC`,
		roomID,
		dayStart.UTC().Format(time.RFC3339),
		dayEnd.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func collectBookings(rows *sql.Rows) ([]persistence.Booking, error) {
	var bookings []persistence.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}

func scanBooking(scanner rowScanner) (persistence.Booking, error) {
	var booking persistence.Booking
	var dateStr, startStr, endStr, createdAtStr, updatedAtStr string
	var checkedIn, missed, cancelled int
	var checkedInAt sql.NullString

	err := scanner.Scan(
		&booking.ID,
		&booking.RoomID,
		&booking.RoomName,
		&dateStr,
		&startStr,
		&endStr,
		&checkedIn,
		&checkedInAt,
		&missed,
		&cancelled,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.Booking{}, err
	}

	booking.CheckedIn = checkedIn != 0
	booking.MissedCheckIn = missed != 0
	booking.Cancelled = cancelled != 0

	if booking.Date, err = time.Parse(time.RFC3339, dateStr); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse date: %w", err)
	}
	if booking.Start, err = time.Parse(time.RFC3339, startStr); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse start_time: %w", err)
	}
	if booking.End, err = time.Parse(time.RFC3339, endStr); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse end_time: %w", err)
	}
	if booking.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if booking.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	if checkedInAt.Valid {
		parsed, err := time.Parse(time.RFC3339, checkedInAt.String)
		if err != nil {
			return persistence.Booking{}, fmt.Errorf("failed to parse checked_in_at: %w", err)
		}
		booking.CheckedInAt = &parsed
	}

	return booking, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
