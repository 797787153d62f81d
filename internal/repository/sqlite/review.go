package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/gameshelf/internal/model"
	"github.com/sakif/gameshelf/internal/repository"
)

// compile-time check that *DB implements repository.ReviewRepository
var _ repository.ReviewRepository = (*DB)(nil)

// defaultReviewLimit caps how many reviews a single read returns. The game
// page shows a feed, not an archive; older reviews simply fall off.
const defaultReviewLimit = 20

// CreateReview inserts a review row.
//
// Rating bounds are validated in the service layer, but the table also has
// CHECK (rating BETWEEN 1 AND 5) — if a future code path forgets the check,
// the store refuses the row rather than persisting garbage.
func (db *DB) CreateReview(ctx context.Context, review *model.Review) error {
	review.ID = xid.New().String()
	review.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO reviews (id, user_id, game_id, rating, body, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		review.ID,
		review.UserID,
		review.GameID,
		review.Rating,
		review.Body,
		review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating review: %w", err)
	}

	return nil
}

// ReviewsForGame returns the newest reviews for a game, each joined with the
// author's handle so the page can show "who said this" without a second
// query per review. limit <= 0 selects the default page size.
func (db *DB) ReviewsForGame(ctx context.Context, gameID string, limit int) ([]model.ReviewWithAuthor, error) {
	if limit <= 0 {
		limit = defaultReviewLimit
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT r.id, r.user_id, r.game_id, r.rating, r.body, r.created_at, u.handle
		 FROM reviews r
		 JOIN users u ON u.id = r.user_id
		 WHERE r.game_id = ?
		 ORDER BY r.created_at DESC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing reviews for game %s: %w", gameID, err)
	}
	defer rows.Close()

	reviews := []model.ReviewWithAuthor{}
	for rows.Next() {
		var review model.ReviewWithAuthor
		if err := rows.Scan(
			&review.ID,
			&review.UserID,
			&review.GameID,
			&review.Rating,
			&review.Body,
			&review.CreatedAt,
			&review.Handle,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning review row: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating review rows: %w", err)
	}

	return reviews, nil
}
