package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/gameshelf/internal/apperror"
	"github.com/sakif/gameshelf/internal/model"
	"github.com/sakif/gameshelf/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new account row.
//
// NO PRE-CHECK, BY CONTRACT:
// We do NOT "SELECT first to see if the handle is taken". Two concurrent
// first-logins with the same handle would both pass such a check and both
// insert. Instead the UNIQUE constraint on handle is the arbiter: the loser
// of the race gets a constraint failure, which we translate into
// apperror.ErrConflict so the auth service can re-read the winning row.
//
// The pointer receiver matters: Create fills in the generated ID and
// CreatedAt on the caller's struct.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, handle, password_hash, created_at)
		 VALUES (?, ?, ?, ?)`,
		user.ID,
		user.Handle,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", user.Handle)
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	return nil
}

// GetUserByHandle retrieves an account by its unique handle.
// Returns apperror.ErrNotFound (wrapped) when the handle is unknown — the
// auth service treats that as "register this handle now".
func (db *DB) GetUserByHandle(ctx context.Context, handle string) (*model.User, error) {
	var user model.User
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, handle, password_hash, created_at
		 FROM users WHERE handle = ?`,
		handle,
	).Scan(&user.ID, &user.Handle, &user.PasswordHash, &user.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("user", handle)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting user by handle %s: %w", handle, err)
	}

	return &user, nil
}

// GetUserByID retrieves an account by its internal ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, handle, password_hash, created_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(&user.ID, &user.Handle, &user.PasswordHash, &user.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}

	return &user, nil
}
