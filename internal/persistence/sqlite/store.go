package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const schema = `
CREATE TABLE IF NOT EXISTS rooms (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	building   TEXT NOT NULL,
	floor      INTEGER NOT NULL,
	capacity   INTEGER NOT NULL CHECK (capacity > 0),
	amenities  TEXT NOT NULL DEFAULT '',
	image_ref  TEXT NOT NULL DEFAULT '',
	qr_token   TEXT NOT NULL UNIQUE,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS bookings (
	id              TEXT PRIMARY KEY,
	room_id         TEXT NOT NULL REFERENCES rooms(id),
	room_name       TEXT NOT NULL,
	date            TEXT NOT NULL,
	start_time      TEXT NOT NULL,
	end_time        TEXT NOT NULL,
	checked_in      INTEGER NOT NULL DEFAULT 0,
	checked_in_at   TEXT,
	missed_check_in INTEGER NOT NULL DEFAULT 0,
	cancelled       INTEGER NOT NULL DEFAULT 0,
	created_at      TEXT NOT NULL,
	updated_at      TEXT NOT NULL,
	CHECK (checked_in + missed_check_in + cancelled <= 1)
);

CREATE INDEX IF NOT EXISTS idx_bookings_room_date ON bookings(room_id, date);

-- A cancelled booking frees its slot, so the uniqueness only covers live rows.
CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_room_slot
	ON bookings(room_id, start_time) WHERE cancelled = 0;

CREATE TABLE IF NOT EXISTS user (
	id                    TEXT PRIMARY KEY,
	name                  TEXT NOT NULL,
	email                 TEXT NOT NULL,
	strikes               INTEGER NOT NULL DEFAULT 0 CHECK (strikes BETWEEN 0 AND 5),
	last_strike_reduction TEXT,
	created_at            TEXT NOT NULL,
	updated_at            TEXT NOT NULL
);
`

// Store bundles the SQLite-backed repositories behind one connection.
type Store struct {
	pool     *ConnectionPool
	Rooms    *RoomRepository
	Bookings *BookingRepository
	Users    *UserRepository
}

// Open connects to the SQLite database addressed by dsn.
func Open(dsn string) (*Store, error) {
	pool, err := NewConnectionPool(dsn)
	if err != nil {
		return nil, err
	}

	return &Store{
		pool:     pool,
		Rooms:    NewRoomRepository(pool),
		Bookings: NewBookingRepository(pool),
		Users:    NewUserRepository(pool),
	}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.pool.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate creates the schema and seeds the static reference data when the
// catalog is empty.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.DB().ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	if err := s.seedRooms(ctx); err != nil {
		return fmt.Errorf("failed to seed rooms: %w", err)
	}
	if err := s.seedUser(ctx); err != nil {
		return fmt.Errorf("failed to seed user: %w", err)
	}

	return nil
}

type seedRoom struct {
	id        string
	name      string
	building  string
	floor     int
	capacity  int
	amenities string
	imageRef  string
	qrToken   string
}

// The campus room catalog. Static reference data owned by the store.
var seedRooms = []seedRoom{
	{"1", "Study Room 101", "Main Library", 1, 4, "whiteboard,charger", "room_study_101", "UBC-ROOM-1-MCLD-1011"},
	{"2", "Collaboration Space", "Student Center", 2, 8, "whiteboard,projector", "room_collab", "UBC-ROOM-2-STCT-2002"},
	{"3", "Computer Lab", "Engineering Building", 3, 20, "projector,charger", "room_lab", "UBC-ROOM-3-ENGR-3003"},
	{"4", "Quiet Study Room", "Main Library", 2, 2, "charger", "room_quiet", "UBC-ROOM-4-MCLD-2004"},
	{"5", "Group Study Room", "Science Center", 1, 6, "whiteboard,projector,charger", "room_group", "UBC-ROOM-5-SCNC-1005"},
	{"6", "Conference Room A", "Business School", 4, 12, "whiteboard,projector", "room_conf_a", "UBC-ROOM-6-BUSN-4006"},
}

func (s *Store) seedRooms(ctx context.Context) error {
	var count int
	if err := s.pool.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM rooms").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	helper := NewQueryHelper(s.pool)
	return s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, room := range seedRooms {
			_, err := helper.ExecTx(tx, `
				INSERT INTO rooms (id, name, building, floor, capacity, amenities, image_ref, qr_token, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				room.id, room.name, room.building, room.floor, room.capacity,
				room.amenities, room.imageRef, room.qrToken, now, now,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) seedUser(ctx context.Context) error {
	var count int
	if err := s.pool.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM user").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.pool.DB().ExecContext(ctx, `
		INSERT INTO user (id, name, email, strikes, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, ?)`,
		"1", "Student", "student@example.edu", now, now,
	)
	return err
}
