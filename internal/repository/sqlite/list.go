package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/gameshelf/internal/model"
	"github.com/sakif/gameshelf/internal/repository"
)

// compile-time check that *DB implements repository.ListRepository
var _ repository.ListRepository = (*DB)(nil)

// CreateList inserts a new list and fills in the generated ID and CreatedAt.
//
// ID GENERATION WITH xid:
// xid produces 20-char URL-safe IDs that sort by creation time (they start
// with a timestamp). That property means "ORDER BY created_at DESC" and
// "ORDER BY id DESC" agree, and IDs are safe to put straight into URLs.
func (db *DB) CreateList(ctx context.Context, list *model.List) error {
	list.ID = xid.New().String()
	list.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO lists (id, user_id, name, created_at)
		 VALUES (?, ?, ?, ?)`,
		list.ID,
		list.UserID,
		list.Name,
		list.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating list: %w", err)
	}

	return nil
}

// ListsForUser returns all lists owned by userID, newest first.
//
// ROWS MUST BE CLOSED:
// QueryContext returns *sql.Rows holding a connection from the pool. The
// deferred Close releases it on every path, including early returns from
// Scan errors. Forgetting this leaks connections until the pool starves.
func (db *DB) ListsForUser(ctx context.Context, userID string) ([]model.List, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, name, created_at
		 FROM lists
		 WHERE user_id = ?
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing lists for user %s: %w", userID, err)
	}
	defer rows.Close()

	// Start with an empty slice, not nil — this serializes as [] in JSON
	// instead of null, which is what the frontend iterates over.
	lists := []model.List{}
	for rows.Next() {
		var list model.List
		if err := rows.Scan(&list.ID, &list.UserID, &list.Name, &list.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning list row: %w", err)
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating list rows: %w", err)
	}

	return lists, nil
}

// ListOwnedBy reports whether listID exists AND belongs to userID.
//
// One probe answers both questions on purpose: the service returns the same
// 403 for "not yours" and "no such list", so a caller can't use the
// difference to discover which list IDs exist.
func (db *DB) ListOwnedBy(ctx context.Context, listID, userID string) (bool, error) {
	var one int
	err := db.conn.QueryRowContext(ctx,
		`SELECT 1 FROM lists WHERE id = ? AND user_id = ?`,
		listID, userID,
	).Scan(&one)

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite: checking list ownership %s: %w", listID, err)
	}

	return true, nil
}

// DeleteList removes a list. Its items go with it via ON DELETE CASCADE —
// no application-side cleanup loop.
func (db *DB) DeleteList(ctx context.Context, listID string) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM lists WHERE id = ?`, listID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting list %s: %w", listID, err)
	}
	return nil
}

// AddItem inserts a game into a list, idempotently.
//
// INSERT OR IGNORE:
// The list_items table has UNIQUE(list_id, game_id). "INSERT OR IGNORE"
// tells SQLite to treat a constraint hit as a successful no-op instead of an
// error. That makes the double-click / double-tab race a non-event: both
// requests succeed, exactly one row exists, and there is no error-handling
// control flow to get wrong. The constraint is the arbiter, same as
// CreateUser — but here the conflict is expected, so it never surfaces.
//
// On the ignored path the caller's item keeps its freshly generated ID even
// though no row was written; callers treat AddItem as fire-and-forget and
// re-read the list when they need the stored rows.
func (db *DB) AddItem(ctx context.Context, item *model.ListItem) error {
	item.ID = xid.New().String()
	item.AddedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO list_items (id, list_id, game_id, game_name, game_cover, added_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.ListID,
		item.GameID,
		item.GameName,
		item.GameCover,
		item.AddedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: adding item to list %s: %w", item.ListID, err)
	}

	return nil
}

// ItemsForList returns a list's items, newest first.
func (db *DB) ItemsForList(ctx context.Context, listID string) ([]model.ListItem, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, list_id, game_id, game_name, game_cover, added_at
		 FROM list_items
		 WHERE list_id = ?
		 ORDER BY added_at DESC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing items for list %s: %w", listID, err)
	}
	defer rows.Close()

	items := []model.ListItem{}
	for rows.Next() {
		var item model.ListItem
		if err := rows.Scan(
			&item.ID,
			&item.ListID,
			&item.GameID,
			&item.GameName,
			&item.GameCover,
			&item.AddedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating item rows: %w", err)
	}

	return items, nil
}
