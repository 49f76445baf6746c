package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"moneytrack/internal/core"
)

// UserStore persists accounts. The Password field of core.User holds the
// bcrypt hash here; plaintext never reaches this layer.
type UserStore struct {
	db *sql.DB
}

// UserUpdate carries a partial profile update; nil fields are left
// untouched. Password changes go through UpdatePassword instead.
type UserUpdate struct {
	Name     *string
	Email    *string
	Currency *string
	Timezone *string
	Picture  *string
}

const userColumns = "id, name, email, password_hash, currency, timezone, picture"

func scanUser(row interface{ Scan(...any) error }) (core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Currency, &u.Timezone, &u.Picture)
	return u, err
}

// Create inserts a new user. A duplicate email yields ErrDuplicateEmail.
func (s *UserStore) Create(ctx context.Context, u core.User) (core.User, error) {
	if err := u.Validate(); err != nil {
		return core.User{}, err
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Currency == "" {
		u.Currency = "EUR"
	}
	if u.Timezone == "" {
		u.Timezone = "UTC"
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO users
		(id, name, email, password_hash, currency, timezone, picture)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.Password, u.Currency, u.Timezone, u.Picture)
	if isUniqueViolation(err) {
		return core.User{}, ErrDuplicateEmail
	}
	if err != nil {
		return core.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// Get returns a user by id.
func (s *UserStore) Get(ctx context.Context, id string) (core.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetByEmail returns a user by email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (core.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ?", email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// Update applies a partial profile update and returns the updated user.
func (s *UserStore) Update(ctx context.Context, id string, u UserUpdate) (core.User, error) {
	sets := []string{}
	args := []any{}
	if u.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *u.Name)
	}
	if u.Email != nil {
		if strings.TrimSpace(*u.Email) == "" {
			return core.User{}, core.ErrEmptyEmail
		}
		sets = append(sets, "email = ?")
		args = append(args, *u.Email)
	}
	if u.Currency != nil {
		sets = append(sets, "currency = ?")
		args = append(args, *u.Currency)
	}
	if u.Timezone != nil {
		sets = append(sets, "timezone = ?")
		args = append(args, *u.Timezone)
	}
	if u.Picture != nil {
		sets = append(sets, "picture = ?")
		args = append(args, *u.Picture)
	}
	if len(sets) == 0 {
		return s.Get(ctx, id)
	}

	args = append(args, id)
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if isUniqueViolation(err) {
		return core.User{}, ErrDuplicateEmail
	}
	if err != nil {
		return core.User{}, fmt.Errorf("update user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.User{}, fmt.Errorf("update user: %w", err)
	}
	if affected == 0 {
		return core.User{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

// UpdatePassword replaces the stored hash.
func (s *UserStore) UpdatePassword(ctx context.Context, id, hash string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ? WHERE id = ?", hash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a user row. Record cascade is handled by the service.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
