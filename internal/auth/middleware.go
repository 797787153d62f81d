package auth

import (
	"context"
	"net/http"

	"github.com/sakif/gameshelf/internal/model"
)

// SessionCookie is the name of the cookie carrying the session token.
// Exported so the login/logout handlers set and clear the same cookie the
// middleware reads.
const SessionCookie = "session"

// Resolver turns a session token into the user it belongs to. Implemented
// by service.AuthService; declared here so this package doesn't import the
// service package (which imports this one for PasswordService).
type Resolver interface {
	ResolveSession(ctx context.Context, token string) (*model.User, error)
}

// contextKey is an unexported type for context keys in this package.
//
// context.WithValue keys are compared by type AND value. A package-private
// key type means no other package can read or shadow what we store — with a
// plain string key, anything that knows the literal "user" could.
type contextKey string

const userKey contextKey = "user"

// RequireAuth enforces a valid session on API routes.
//
// It reads the session cookie, resolves it to a user, and stores the user
// in the request context. No cookie, an unknown token, or an expired
// session all produce the same 401 — the client learns "sign in again",
// nothing more.
//
// The full *model.User goes into the context, not just the ID: resolving
// the session already cost a user lookup, and every protected handler wants
// the row. Handlers read it back with UserFromContext.
func RequireAuth(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := currentUser(r, resolver)
			if err != nil {
				http.Error(w, `{"error":"unauthorized","message":"sign in required"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuthRedirect is RequireAuth for page routes: instead of a JSON 401,
// anonymous visitors are redirected to the login page. Browsers navigating
// to /lists want a login form, not an error body.
func RequireAuthRedirect(resolver Resolver, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := currentUser(r, resolver)
			if err != nil {
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves the session if one is present but never blocks the
// request. Used on routes that render for everyone and just behave slightly
// differently when signed in (the login page redirects you home, the index
// picks where to send you).
func OptionalAuth(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, err := currentUser(r, resolver); err == nil && user != nil {
				ctx := context.WithValue(r.Context(), userKey, user)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext retrieves the authenticated user stored by the middleware.
// Returns (nil, false) for anonymous requests.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

// currentUser reads the session cookie and resolves it. Shared by all three
// middlewares; only they decide what a failure means (401, redirect, or
// nothing).
func currentUser(r *http.Request, resolver Resolver) (*model.User, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		// http.ErrNoCookie — the visitor is simply anonymous
		return nil, err
	}

	return resolver.ResolveSession(r.Context(), cookie.Value)
}
