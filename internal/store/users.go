package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/taskforge/taskforge/internal/model"
)

// UserStore persists user records. Lookups return (nil, nil) when no row
// matches so callers can distinguish "missing" from "store failure".
type UserStore struct {
	db *sql.DB
}

const userColumns = `id, username, email, full_name, password_hash, is_active, created_at, updated_at`

// FindByUsername returns the user with the given username
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

// FindByEmail returns the user with the given email
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// FindByID returns the user with the given id
func (s *UserStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// Insert persists a new user record
func (s *UserStore) Insert(ctx context.Context, u *model.User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, username, email, full_name, password_hash, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Username, u.Email, u.FullName, u.PasswordHash, u.IsActive, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Update overwrites the mutable fields of a user record
func (s *UserStore) Update(ctx context.Context, u *model.User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE users
		SET email = $1, full_name = $2, password_hash = $3, is_active = $4, updated_at = $5
		WHERE id = $6`,
		u.Email, u.FullName, u.PasswordHash, u.IsActive, u.UpdatedAt, u.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.New("user not found")
	}

	return tx.Commit()
}

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName,
		&u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
