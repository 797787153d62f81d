// Package auth holds the credential plumbing: bcrypt password hashing and
// the session middleware that turns a cookie into a request identity.
//
// WHY BCRYPT?
// bcrypt is deliberately slow, and that slowness is the point: it turns a
// leaked password_hash column from "crack overnight on a GPU" into "not
// worth the electricity". It also generates a random salt per hash and
// embeds it in the output, so two users with the same password still get
// different hashes and no separate salt column is needed.
//
// NEVER store passwords in plain text or behind fast hashes (MD5, SHA-256) —
// those fall to rainbow tables and brute force in minutes.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor: ~250ms per hash on current server
// hardware. Tune so hashing stays in the 200-300ms range — lower is weak,
// much higher turns a login burst into a CPU incident.
const defaultCost = 12

// PasswordService provides bcrypt hashing and verification.
//
// It's a struct (not free functions) so the cost can differ between
// production and tests — cost 12 per hash makes a test suite crawl.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the production cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest creates a PasswordService with bcrypt's minimum
// cost. Only for tests — at this cost the hash is not meaningfully slow.
func NewPasswordServiceForTest() *PasswordService {
	return &PasswordService{cost: bcrypt.MinCost}
}

// Hash hashes a plaintext password. The result is self-contained (version,
// cost, salt, digest) and goes straight into the password_hash column.
//
// bcrypt silently truncates input beyond 72 bytes; we reject it instead so
// nobody's "secure 100-char passphrase" quietly loses its tail.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks a plaintext password against a stored hash. Returns nil on
// match. The comparison is constant-time inside bcrypt, so response timing
// doesn't leak how close a guess was.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("auth: invalid password")
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
