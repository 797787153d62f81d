package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/gameshelf/internal/apperror"
	"github.com/sakif/gameshelf/internal/model"
	"github.com/sakif/gameshelf/internal/repository"
)

// compile-time check that *DB implements repository.SessionRepository
var _ repository.SessionRepository = (*DB)(nil)

// CreateSession inserts a session row.
//
// Unlike the other Create methods, the primary key (Token) arrives from the
// caller: the token doubles as a credential, so the auth service generates
// it from crypto-random UUIDs rather than xid (whose leading timestamp makes
// values partly guessable). Only CreatedAt is filled in here.
func (db *DB) CreateSession(ctx context.Context, session *model.Session) error {
	session.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, created_at, expires_at)
		 VALUES (?, ?, ?, ?)`,
		session.Token,
		session.UserID,
		session.CreatedAt,
		session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating session: %w", err)
	}

	return nil
}

// GetSession retrieves a live session by token.
//
// EXPIRY IN THE QUERY:
// The WHERE clause filters out expired rows, so an expired session is
// indistinguishable from one that never existed — both come back as
// apperror.ErrNotFound. Expired rows stay on disk until the next
// DeleteExpiredSessions sweep; they are already unusable.
func (db *DB) GetSession(ctx context.Context, token string) (*model.Session, error) {
	var session model.Session
	err := db.conn.QueryRowContext(ctx,
		`SELECT token, user_id, created_at, expires_at
		 FROM sessions
		 WHERE token = ? AND expires_at > ?`,
		token, time.Now(),
	).Scan(&session.Token, &session.UserID, &session.CreatedAt, &session.ExpiresAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("session", "expired or unknown")
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting session: %w", err)
	}

	return &session, nil
}

// DeleteSession removes a session row (logout). Deleting a token that does
// not exist is not an error — the end state is the same.
func (db *DB) DeleteSession(ctx context.Context, token string) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("sqlite: deleting session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes every expired row and reports how many went.
// Called opportunistically on login so the table doesn't grow without bound;
// there is no background sweeper in this app.
func (db *DB) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= ?`, time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: deleting expired sessions: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting deleted sessions: %w", err)
	}
	return n, nil
}
