package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlite3 "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"

	"github.com/sakif/pinboard/internal/apperror"
	"github.com/sakif/pinboard/internal/model"
	"github.com/sakif/pinboard/internal/repository"
)

// UserRepo provides admin-account storage over the shared connection pool.
// Obtain one from DB.Users().
type UserRepo struct {
	conn *sql.DB
}

// compile-time check that *UserRepo implements repository.UserRepository
var _ repository.UserRepository = (*UserRepo)(nil)

// Create inserts a new admin account.
//
// The users table has a UNIQUE constraint on username, so duplicates fail at
// the storage level even when two CLI invocations race. We translate that
// driver error into our Conflict error so callers can use
// errors.Is(err, apperror.ErrConflict).
func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	res, err := r.conn.ExecContext(ctx,
		`INSERT INTO users (username, password) VALUES (?, ?)`,
		user.Username,
		user.PasswordHash,
	)
	if err != nil {
		// modernc.org/sqlite wraps constraint violations in its own Error
		// type carrying the extended result code. Matching the code is
		// stable; matching the message text is not.
		var serr *sqlite3.Error
		if errors.As(err, &serr) && serr.Code() == sqlitelib.SQLITE_CONSTRAINT_UNIQUE {
			return apperror.Conflict("user", user.Username)
		}
		return fmt.Errorf("sqlite: creating user %s: %w", user.Username, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading user id: %w", err)
	}
	user.ID = id

	return nil
}

// GetByUsername retrieves a user by username.
// Returns apperror.ErrNotFound if no user exists with that name.
//
// sql.ErrNoRows:
// This is NOT really an error — it just means "no matching row exists."
// We translate it to our app's NotFound error so callers don't have to
// import database/sql to check for it.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User

	err := r.conn.QueryRowContext(ctx,
		`SELECT id, username, password FROM users WHERE username = ?`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", username)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", username, err)
	}

	return &u, nil
}

// List returns all admin accounts, ordered by id.
// Used by the CLI's -show action; hashes come along but are never printed.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, username, password FROM users ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	return users, nil
}

// UpdatePassword replaces the stored hash for an existing user.
// Returns apperror.ErrNotFound if the username doesn't exist, so the CLI
// can report it rather than silently updating zero rows.
func (r *UserRepo) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	res, err := r.conn.ExecContext(ctx,
		`UPDATE users SET password = ? WHERE username = ?`,
		passwordHash,
		username,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", username, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking update of user %s: %w", username, err)
	}
	if n == 0 {
		return apperror.NotFound("user", username)
	}

	return nil
}

// Delete removes the user with the given username.
// Returns apperror.ErrNotFound if no row matched.
func (r *UserRepo) Delete(ctx context.Context, username string) error {
	res, err := r.conn.ExecContext(ctx,
		`DELETE FROM users WHERE username = ?`, username,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", username, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete of user %s: %w", username, err)
	}
	if n == 0 {
		return apperror.NotFound("user", username)
	}

	return nil
}
