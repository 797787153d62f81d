package model

import "time"

// Review is a star rating (1-5) with a short text body, attached to an
// external game by its catalog ID. A user may review the same game more than
// once — reviews are a feed, not a single editable score.
type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	GameID    string    `json:"game_id"`
	Rating    int       `json:"rating"` // 1..5, enforced by the service and a DB CHECK
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewWithAuthor is a Review joined with the author's handle, as returned
// by GET /api/reviews/{game_id}.
//
// EMBEDDING AND JSON:
// Review is embedded (no field name), so encoding/json flattens its fields
// into the same object as Handle — the client sees one flat review record,
// not a nested {"review": {...}, "handle": ...} wrapper.
type ReviewWithAuthor struct {
	Review
	Handle string `json:"handle"`
}
