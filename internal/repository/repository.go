// Package repository defines the storage interfaces the service layer
// depends on.
//
// Services receive these interfaces, never the concrete *sqlite.DB. That
// keeps SQL out of the business logic and lets tests substitute in-memory
// fakes without a database. The sqlite subpackage is currently the only
// implementation; each interface has a compile-time check there.
package repository

import (
	"context"

	"github.com/sakif/gameshelf/internal/model"
)

// UserRepository stores accounts.
//
// CreateUser must NOT pre-check the handle: uniqueness is enforced by the
// store's constraint, and a violation surfaces as apperror.ErrConflict.
// The caller (login auto-registration) handles the lost-race case by
// re-reading the winner.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByHandle(ctx context.Context, handle string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// ListRepository stores lists and their items.
//
// AddItem is idempotent: inserting a (list_id, game_id) pair that already
// exists succeeds without changing anything. Reads return newest-first.
type ListRepository interface {
	CreateList(ctx context.Context, list *model.List) error
	ListsForUser(ctx context.Context, userID string) ([]model.List, error)
	ListOwnedBy(ctx context.Context, listID, userID string) (bool, error)
	DeleteList(ctx context.Context, listID string) error
	AddItem(ctx context.Context, item *model.ListItem) error
	ItemsForList(ctx context.Context, listID string) ([]model.ListItem, error)
}

// ReviewRepository stores reviews. ReviewsForGame returns the newest reviews
// joined with each author's handle; limit <= 0 falls back to the default
// page size of 20.
type ReviewRepository interface {
	CreateReview(ctx context.Context, review *model.Review) error
	ReviewsForGame(ctx context.Context, gameID string, limit int) ([]model.ReviewWithAuthor, error)
}

// SessionRepository stores server-side login sessions keyed by their opaque
// token. GetSession never returns an expired session — expiry is part of the
// lookup, not a caller-side check.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, token string) (*model.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}
