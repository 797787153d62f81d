package model

import "time"

// List is a named collection of games owned by exactly one user.
// Ownership is immutable — there is no operation that moves a list between
// users. Every user gets a default "Play Later" list at registration.
type List struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ListItem records that a game belongs to a list.
//
// The game itself lives in the external catalog — we never mirror the full
// record. Instead we snapshot the two fields needed to render the list
// (name and cover URL) at the moment the item is added, so list pages don't
// have to call the catalog API per item. GameCover may be empty.
//
// The store enforces UNIQUE(list_id, game_id): adding the same game to the
// same list twice is a no-op, not an error.
type ListItem struct {
	ID        string    `json:"id"`
	ListID    string    `json:"list_id"`
	GameID    string    `json:"game_id"`
	GameName  string    `json:"game_name"`
	GameCover string    `json:"game_cover"`
	AddedAt   time.Time `json:"added_at"`
}

// ListWithItems is the shape returned by GET /api/my/lists — a list plus its
// items, both ordered newest-first.
type ListWithItems struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Items []ListItem `json:"items"`
}
