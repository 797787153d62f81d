// Package handler contains the HTTP handlers: JSON API endpoints and the
// server-rendered page shells.
//
// HANDLER RESPONSIBILITIES:
//  1. Parse the incoming request (path params, query, body, context identity)
//  2. Call a service (or the catalog gateway)
//  3. Write the response (writeJSON/writeError, or render a template)
//
// Nothing else. Validation and ownership rules live in the services; SQL
// lives in the repositories. If a handler grows an if-statement about
// business data, it's in the wrong layer.
//
// PAGES VS API:
// The HTML pages here are thin shells — they render the layout, the signed-
// in handle, and a mount point, then the page's script calls the JSON API
// for actual data. That keeps exactly one data path through the app (the
// API) instead of a template path and a JSON path that drift apart.
package handler

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/gameshelf/internal/auth"
	"github.com/sakif/gameshelf/internal/model"
)

// pageNames lists every page template. Each is parsed together with
// base.html so {{define "content"}} in the page fills the layout's
// {{template "content" .}} slot.
var pageNames = []string{
	"login",
	"home",
	"games",
	"game_detail",
	"review",
	"lists",
	"profile",
}

// Renderer holds the parsed template set for every page.
//
// Templates are parsed once at startup — parse errors take the server down
// at boot, where they're obvious, instead of 500ing the first visitor. Each
// page gets its own *template.Template because every page defines a block
// named "content"; in a single shared set the last parsed file would
// silently win.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// NewRenderer parses all page templates from templateDir.
func NewRenderer(templateDir string, logger *slog.Logger) (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.ParseFiles(
			filepath.Join(templateDir, "base.html"),
			filepath.Join(templateDir, name+".html"),
		)
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{pages: pages, logger: logger}, nil
}

// pageData is the payload every page template receives.
type pageData struct {
	Title  string
	User   *model.User // nil when anonymous (only the login page renders then)
	Error  string      // login form error line
	GameID string      // set on the game detail and review pages
}

// Render executes a page inside the base layout.
func (re *Renderer) Render(w http.ResponseWriter, page string, data pageData) {
	tmpl, ok := re.pages[page]
	if !ok {
		re.logger.Error("unknown page template", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		re.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// PageHandler serves the HTML shells. All of these routes sit behind
// RequireAuthRedirect except the index, which decides where to send you.
type PageHandler struct {
	renderer *Renderer
	logger   *slog.Logger
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(renderer *Renderer, logger *slog.Logger) *PageHandler {
	return &PageHandler{renderer: renderer, logger: logger}
}

// HandleIndex routes / to the right place: home when signed in, the login
// page when not. The root URL itself renders nothing.
func (h *PageHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserFromContext(r.Context()); ok {
		http.Redirect(w, r, "/home", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// HandleHome serves the dashboard (trending + new releases).
func (h *PageHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "home", "Home")
}

// HandleGames serves the search page.
func (h *PageHandler) HandleGames(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "games", "Browse Games")
}

// HandleGameDetail serves the detail shell for one game. Only the ID makes
// it into the template — the page script fetches /api/game/{id} itself.
func (h *PageHandler) HandleGameDetail(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	h.renderer.Render(w, "game_detail", pageData{
		Title:  "Game Details",
		User:   user,
		GameID: chi.URLParam(r, "id"),
	})
}

// HandleReview serves the review form shell for one game.
func (h *PageHandler) HandleReview(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	h.renderer.Render(w, "review", pageData{
		Title:  "Write a Review",
		User:   user,
		GameID: chi.URLParam(r, "id"),
	})
}

// HandleLists serves the lists page.
func (h *PageHandler) HandleLists(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "lists", "My Lists")
}

// HandleProfile serves the profile page.
func (h *PageHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "profile", "Profile")
}

func (h *PageHandler) renderPage(w http.ResponseWriter, r *http.Request, page, title string) {
	user, _ := auth.UserFromContext(r.Context())
	h.renderer.Render(w, page, pageData{Title: title, User: user})
}
