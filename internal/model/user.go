// Package model defines the data structures stored in the database and
// returned from the API.
package model

import "time"

// User represents a registered account.
//
// Accounts are created implicitly: the first successful login with an unknown
// handle registers it (see the auth service). There is no separate signup
// flow, and no HTTP route ever deletes a user — the ON DELETE CASCADE
// constraints in the schema exist so that removing a row by hand (or from a
// future admin tool) cannot leave orphaned lists or reviews behind.
//
// SENSITIVE FIELDS AND json:"-":
// PasswordHash is tagged `json:"-"`, which tells encoding/json to NEVER
// include it in output. Without this, a careless writeJSON(w, 200, user)
// would hand bcrypt hashes to the client. A hash is not a password, but
// leaking it invites offline cracking — so it stays server-side.
type User struct {
	ID           string    `json:"id"         db:"id"`
	Handle       string    `json:"handle"     db:"handle"` // 3-24 chars: letters, digits, underscore
	PasswordHash string    `json:"-"          db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
