// Package service — authentication business logic.
//
// AuthService owns everything between "form fields arrive" and "a session
// exists": input validation, the lookup-or-create login flow, bcrypt
// verification, and session issue/resolve/revoke. Handlers never touch the
// password hash or the session table directly.
//
// LOGIN IS REGISTRATION:
// There is no separate signup. The first login with an unknown handle claims
// it — the account is created with that password and a default "Play Later"
// list. This is a deliberate product decision, not an accident: the target
// audience is "type a name, start tracking games", and the handle grammar
// below keeps squatting on nonsense names bounded. Returning users just have
// ownership of the handle proven by their password.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sakif/gameshelf/internal/apperror"
	"github.com/sakif/gameshelf/internal/auth"
	"github.com/sakif/gameshelf/internal/model"
	"github.com/sakif/gameshelf/internal/repository"
)

// handlePattern is the full grammar for account handles: 3-24 characters,
// letters, digits, underscore. Anchored on both ends — "ab!" must not pass
// because "ab" matches somewhere inside it.
var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,24}$`)

const (
	minPasswordLength = 6
	defaultListName   = "Play Later"
	defaultSessionTTL = 7 * 24 * time.Hour
)

// compile-time check that *AuthService satisfies the middleware's Resolver
var _ auth.Resolver = (*AuthService)(nil)

// AuthService handles login, registration, and sessions.
type AuthService struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	lists      repository.ListRepository
	passwords  *auth.PasswordService
	sessionTTL time.Duration
	logger     *slog.Logger
}

// NewAuthService creates an AuthService. The lists repository is here
// because registration creates the default list — it's part of the same
// business action as creating the user. A non-positive sessionTTL falls
// back to 7 days.
func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	lists repository.ListRepository,
	passwords *auth.PasswordService,
	sessionTTL time.Duration,
	logger *slog.Logger,
) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	return &AuthService{
		users:      users,
		sessions:   sessions,
		lists:      lists,
		passwords:  passwords,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// Login authenticates a handle/password pair, registering the handle if it
// is unclaimed, and issues a fresh session.
//
// Failure modes:
//   - malformed handle or short password → apperror.ErrValidation
//   - existing handle, wrong password    → apperror.ErrUnauthorized
//
// Note the wrong-password message never says which half was wrong — "wrong
// handle or password" is all an attacker probing for registered handles
// gets. (The timing difference between bcrypt-verify and register is
// observable in principle; for this app's threat model we accept that.)
func (s *AuthService) Login(ctx context.Context, handle, password string) (*model.User, *model.Session, error) {
	handle = strings.TrimSpace(handle)
	if !handlePattern.MatchString(handle) {
		return nil, nil, apperror.ValidationFailed("handle", "handle must be 3-24 letters, digits, or underscores")
	}
	if len(password) < minPasswordLength {
		return nil, nil, apperror.ValidationFailed("password", "password must be at least 6 characters")
	}

	user, err := s.users.GetUserByHandle(ctx, handle)
	switch {
	case err == nil:
		if verr := s.passwords.Verify(user.PasswordHash, password); verr != nil {
			return nil, nil, apperror.Unauthorized("wrong handle or password")
		}

	case errors.Is(err, apperror.ErrNotFound):
		user, err = s.register(ctx, handle, password)
		if err != nil {
			return nil, nil, err
		}

	default:
		return nil, nil, fmt.Errorf("service/auth: looking up handle: %w", err)
	}

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user signed in",
		slog.String("userID", user.ID),
		slog.String("handle", user.Handle),
	)

	return user, session, nil
}

// register creates the account plus its default list.
//
// THE REGISTRATION RACE:
// Two first-logins with the same handle can both see "not found" and both
// try to insert. CreateUser doesn't pre-check (the repository contract
// forbids it); the UNIQUE constraint picks a winner and the loser lands
// here with ErrConflict. We then re-read the winning row and verify the
// password against it — so the loser either logs into the account that just
// got created (same password: the same person double-submitting) or gets
// the normal wrong-password answer.
func (s *AuthService) register(ctx context.Context, handle, password string) (*model.User, error) {
	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{Handle: handle, PasswordHash: hash}
	err = s.users.CreateUser(ctx, user)
	if errors.Is(err, apperror.ErrConflict) {
		winner, gerr := s.users.GetUserByHandle(ctx, handle)
		if gerr != nil {
			return nil, fmt.Errorf("service/auth: re-reading user after conflict: %w", gerr)
		}
		if verr := s.passwords.Verify(winner.PasswordHash, password); verr != nil {
			return nil, apperror.Unauthorized("wrong handle or password")
		}
		return winner, nil
	}
	if err != nil {
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	list := &model.List{UserID: user.ID, Name: defaultListName}
	if err := s.lists.CreateList(ctx, list); err != nil {
		return nil, fmt.Errorf("service/auth: creating default list: %w", err)
	}

	s.logger.Info("registered new user",
		slog.String("userID", user.ID),
		slog.String("handle", handle),
	)

	return user, nil
}

// createSession issues a new session row. The token is a v4 UUID — pure
// crypto-random, unlike xid whose leading timestamp would make session
// tokens partly predictable.
//
// Login is also when expired rows get swept. There is no background janitor
// in this app, and login is frequent enough to keep the table bounded; a
// failed sweep is logged and ignored — it must not block a sign-in.
func (s *AuthService) createSession(ctx context.Context, userID string) (*model.Session, error) {
	if n, err := s.sessions.DeleteExpiredSessions(ctx); err != nil {
		s.logger.Warn("sweeping expired sessions failed", slog.String("error", err.Error()))
	} else if n > 0 {
		s.logger.Debug("swept expired sessions", slog.Int64("count", n))
	}

	session := &model.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("service/auth: creating session: %w", err)
	}

	return session, nil
}

// ResolveSession turns a session token into its user. Every failure that
// means "no valid session" — empty token, unknown token, expired row,
// vanished user — comes back as apperror.ErrUnauthorized; storage errors
// pass through as themselves.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, apperror.Unauthorized("sign in required")
	}

	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("session expired or invalid")
		}
		return nil, fmt.Errorf("service/auth: resolving session: %w", err)
	}

	user, err := s.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("session expired or invalid")
		}
		return nil, fmt.Errorf("service/auth: loading session user: %w", err)
	}

	return user, nil
}

// Logout revokes a session. An empty or already-deleted token is fine — the
// end state ("this cookie no longer works") is what matters.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("service/auth: deleting session: %w", err)
	}
	s.logger.Info("user signed out")
	return nil
}
