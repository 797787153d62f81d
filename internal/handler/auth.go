package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/gameshelf/internal/apperror"
	"github.com/sakif/gameshelf/internal/auth"
	"github.com/sakif/gameshelf/internal/service"
)

// Form error lines shown on the login page. These are UI copy, not API
// errors — the login form is the one surface that answers in HTML.
const (
	loginErrInvalid  = "Enter a valid handle and password (6+ chars)."
	loginErrWrong    = "Wrong handle or password."
	loginErrInternal = "Something went wrong. Try again."
)

// AuthHandler serves the login form, the login POST, logout, and /api/me.
//
// FLOW:
//  1. GET  /login  → render the form (or bounce home if already signed in)
//  2. POST /login  → AuthService.Login → set session cookie → redirect /home
//     (on failure: re-render the form with an error line, no redirect)
//  3. GET  /logout → revoke the session row, clear the cookie, redirect
//
// The handler owns the COOKIE; the service owns the SESSION. Setting and
// clearing browser state is HTTP plumbing, deciding whether a login is valid
// is not.
type AuthHandler struct {
	auth     *service.AuthService
	renderer *Renderer
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authSvc *service.AuthService, renderer *Renderer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     authSvc,
		renderer: renderer,
		logger:   logger,
	}
}

// HandleLoginPage serves the login form.
//
// HTTP: GET /login
//
// A signed-in visitor has nothing to do here, so they're sent home — this
// is why the route runs under OptionalAuth rather than no middleware.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserFromContext(r.Context()); ok {
		http.Redirect(w, r, "/home", http.StatusFound)
		return
	}
	h.renderer.Render(w, "login", pageData{Title: "Sign In"})
}

// HandleLogin processes the login form.
//
// HTTP: POST /login (form-encoded: handle, password)
//
// Failures re-render the form with an inline error instead of redirecting,
// so typed handles survive a wrong password. Which error line the visitor
// sees tracks the service's taxonomy: validation problems name the rules,
// a bad password gets the deliberately vague "wrong handle or password",
// and anything unexpected is logged server-side and shown as a generic
// apology — never the raw error.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLoginError(w, loginErrInvalid)
		return
	}

	handle := r.FormValue("handle")
	password := r.FormValue("password")

	user, session, err := h.auth.Login(r.Context(), handle, password)
	if err != nil {
		switch {
		case errors.Is(err, apperror.ErrValidation):
			h.renderLoginError(w, loginErrInvalid)
		case errors.Is(err, apperror.ErrUnauthorized):
			h.renderLoginError(w, loginErrWrong)
		default:
			h.logger.Error("login failed", slog.String("error", err.Error()))
			h.renderLoginError(w, loginErrInternal)
		}
		return
	}

	setSessionCookie(w, session.Token, session.ExpiresAt)

	h.logger.Debug("session cookie issued", slog.String("userID", user.ID))

	// 303 See Other: the browser follows with a GET, so refreshing /home
	// never re-submits the login form.
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

// HandleLogout revokes the current session and clears the cookie.
//
// HTTP: GET /logout
//
// Revocation failure is logged but doesn't block the redirect — from the
// browser's side the cookie is gone either way, and an orphaned session row
// dies at its expiry.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionCookie); err == nil {
		if err := h.auth.Logout(r.Context(), cookie.Value); err != nil {
			h.logger.Error("logout failed", slog.String("error", err.Error()))
		}
	}

	clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

// HandleMe returns the signed-in user's profile.
//
// HTTP: GET /api/me (requires auth)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("sign in required"))
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) renderLoginError(w http.ResponseWriter, message string) {
	h.renderer.Render(w, "login", pageData{Title: "Sign In", Error: message})
}

// setSessionCookie stores the session token in the browser.
//
// HttpOnly keeps page scripts from reading the token (XSS can't exfiltrate
// what it can't see); SameSite=Lax keeps it off cross-site POSTs. The cookie
// expires together with the server-side row — an expired cookie pointing at
// a live row would just be confusing, and the reverse is handled server-side
// anyway.
func setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
