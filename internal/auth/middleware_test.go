package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sakif/gameshelf/internal/apperror"
	"github.com/sakif/gameshelf/internal/model"
)

// fakeResolver implements Resolver with a fixed answer per token. The
// middleware doesn't care how resolution works — only what comes back.
type fakeResolver struct {
	users map[string]*model.User // token → user
}

func (f *fakeResolver) ResolveSession(_ context.Context, token string) (*model.User, error) {
	if user, ok := f.users[token]; ok {
		return user, nil
	}
	return nil, apperror.Unauthorized("session expired or invalid")
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{users: map[string]*model.User{
		"good-token": {ID: "u1", Handle: "alice"},
	}}
}

// echoHandler records whether it ran and which user it saw in the context.
type echoHandler struct {
	called bool
	user   *model.User
	ok     bool
}

func (e *echoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	e.called = true
	e.user, e.ok = UserFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

// requestWithCookie builds a GET request carrying the session cookie.
func requestWithCookie(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/my/lists", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	}
	return req
}

// =========================================================================
// RequireAuth TESTS
// =========================================================================

func TestRequireAuth_ValidSession(t *testing.T) {
	next := &echoHandler{}
	mw := RequireAuth(newFakeResolver())(next)

	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, requestWithCookie("good-token"))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !next.called {
		t.Fatal("next handler was not called for a valid session")
	}
	if !next.ok || next.user == nil {
		t.Fatal("user missing from request context")
	}
	if next.user.Handle != "alice" {
		t.Errorf("context user handle = %q, want %q", next.user.Handle, "alice")
	}
}

func TestRequireAuth_NoCookie(t *testing.T) {
	next := &echoHandler{}
	mw := RequireAuth(newFakeResolver())(next)

	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, requestWithCookie(""))

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
	if next.called {
		t.Error("next handler must not run without a session")
	}
}

func TestRequireAuth_UnknownToken(t *testing.T) {
	next := &echoHandler{}
	mw := RequireAuth(newFakeResolver())(next)

	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, requestWithCookie("stale-token"))

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
	if next.called {
		t.Error("next handler must not run for an unknown token")
	}
}

// =========================================================================
// RequireAuthRedirect TESTS
// =========================================================================

func TestRequireAuthRedirect_AnonymousGetsRedirect(t *testing.T) {
	next := &echoHandler{}
	mw := RequireAuthRedirect(newFakeResolver(), "/login")(next)

	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, requestWithCookie(""))

	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want %q", loc, "/login")
	}
	if next.called {
		t.Error("next handler must not run for an anonymous page visit")
	}
}

func TestRequireAuthRedirect_ValidSessionPassesThrough(t *testing.T) {
	next := &echoHandler{}
	mw := RequireAuthRedirect(newFakeResolver(), "/login")(next)

	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, requestWithCookie("good-token"))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !next.called {
		t.Fatal("next handler should run for a valid session")
	}
}

// =========================================================================
// OptionalAuth TESTS
// =========================================================================

func TestOptionalAuth_AnonymousStillRuns(t *testing.T) {
	next := &echoHandler{}
	mw := OptionalAuth(newFakeResolver())(next)

	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, requestWithCookie(""))

	if !next.called {
		t.Fatal("OptionalAuth must never block the request")
	}
	if next.ok {
		t.Error("anonymous request should have no user in context")
	}
}

func TestOptionalAuth_SignedInGetsUser(t *testing.T) {
	next := &echoHandler{}
	mw := OptionalAuth(newFakeResolver())(next)

	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, requestWithCookie("good-token"))

	if !next.called {
		t.Fatal("next handler should run")
	}
	if !next.ok || next.user == nil || next.user.ID != "u1" {
		t.Error("signed-in request should carry the resolved user in context")
	}
}

// =========================================================================
// UserFromContext TESTS
// =========================================================================

func TestUserFromContext_EmptyContext(t *testing.T) {
	user, ok := UserFromContext(context.Background())
	if ok {
		t.Error("UserFromContext() on an empty context should report ok=false")
	}
	if user != nil {
		t.Errorf("UserFromContext() user = %v, want nil", user)
	}
}
