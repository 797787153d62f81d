package model

import "time"

// Session is a server-side login session.
//
// The browser holds only the opaque Token in an HttpOnly cookie; everything
// else lives in this row. Logging out (or expiry) deletes the row, which
// invalidates the token immediately — unlike a stateless token, there is
// nothing left for a stolen cookie to prove.
//
// Token is a UUIDv4: 122 bits of crypto/rand output, far too large to guess.
// It is never serialized into API responses.
type Session struct {
	Token     string    `json:"-"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at time now.
// Callers pass time.Now() — taking it as a parameter keeps the method
// deterministic in tests.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
