package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/room-booking/internal/persistence"
)

// RoomRepository implements persistence.RoomRepository using SQLite.
type RoomRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewRoomRepository creates a new SQLite room repository.
func NewRoomRepository(pool *ConnectionPool) *RoomRepository {
	return &RoomRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const roomColumns = "id, name, building, floor, capacity, amenities, image_ref, qr_token, created_at, updated_at"

// GetRoom retrieves a room by ID.
func (r *RoomRepository) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	if id == "" {
		return persistence.Room{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, "SELECT "+roomColumns+" FROM rooms WHERE id = ?", id)
	return scanRoom(row)
}

// GetRoomByToken retrieves the room carrying the given QR token.
func (r *RoomRepository) GetRoomByToken(ctx context.Context, token string) (persistence.Room, error) {
	if strings.TrimSpace(token) == "" {
		return persistence.Room{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, "SELECT "+roomColumns+" FROM rooms WHERE qr_token = ?", token)
	return scanRoom(row)
}

// ListRooms returns the catalog ordered by ID.
func (r *RoomRepository) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	rows, err := r.helper.Query(ctx, "SELECT "+roomColumns+" FROM rooms ORDER BY id ASC")
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var rooms []persistence.Room
	for rows.Next() {
		room, err := scanRoomRows(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return rooms, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row *sql.Row) (persistence.Room, error) {
	room, err := scanRoomFrom(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Room{}, persistence.ErrNotFound
		}
		return persistence.Room{}, err
	}
	return room, nil
}

func scanRoomRows(rows *sql.Rows) (persistence.Room, error) {
	return scanRoomFrom(rows)
}

func scanRoomFrom(scanner rowScanner) (persistence.Room, error) {
	var room persistence.Room
	var amenities, createdAtStr, updatedAtStr string

	err := scanner.Scan(
		&room.ID,
		&room.Name,
		&room.Building,
		&room.Floor,
		&room.Capacity,
		&amenities,
		&room.ImageRef,
		&room.QRToken,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.Room{}, err
	}

	if amenities != "" {
		room.Amenities = strings.Split(amenities, ",")
	}

	if room.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Room{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if room.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Room{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return room, nil
}
