package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/room-booking/internal/persistence"
)

// UserRepository implements persistence.UserRepository using SQLite. The
// system is single tenant: exactly one user row exists.
type UserRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(pool *ConnectionPool) *UserRepository {
	return &UserRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// GetUser retrieves the single user row.
func (r *UserRepository) GetUser(ctx context.Context) (persistence.User, error) {
	row := r.helper.QueryRow(ctx, `
		SELECT id, name, email, strikes, last_strike_reduction, created_at, updated_at
		FROM user
		LIMIT 1`)

	var user persistence.User
	var lastReduction sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Strikes,
		&lastReduction,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.User{}, persistence.ErrNotFound
		}
		return persistence.User{}, r.mapper.MapError(err)
	}

	if lastReduction.Valid {
		parsed, err := time.Parse(time.RFC3339, lastReduction.String)
		if err != nil {
			return persistence.User{}, fmt.Errorf("failed to parse last_strike_reduction: %w", err)
		}
		user.LastStrikeReduction = &parsed
	}

	if user.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.User{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if user.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.User{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return user, nil
}

// UpdateUser persists the strike ledger columns.
func (r *UserRepository) UpdateUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, `
		UPDATE user
		SET strikes = ?, last_strike_reduction = ?, updated_at = ?
		WHERE id = ?`,
		user.Strikes,
		nullableTime(user.LastStrikeReduction),
		user.UpdatedAt.UTC().Format(time.RFC3339),
		user.ID,
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
