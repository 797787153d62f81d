package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/gameshelf/internal/catalog"
)

// resultsResponse wraps game lists the way the frontend expects:
// {"results": [...]}.
type resultsResponse struct {
	Results []catalog.GameSummary `json:"results"`
}

// GameHandler proxies the browse/search/detail endpoints to the catalog
// gateway. There is no service layer in between — these are pure reads with
// no rules to enforce, so a pass-through is the honest shape.
type GameHandler struct {
	catalog *catalog.Client
	logger  *slog.Logger
}

// NewGameHandler creates a GameHandler.
func NewGameHandler(catalogClient *catalog.Client, logger *slog.Logger) *GameHandler {
	return &GameHandler{catalog: catalogClient, logger: logger}
}

// HandleTrending returns the trending feed.
//
// HTTP: GET /api/trending
func (h *GameHandler) HandleTrending(w http.ResponseWriter, r *http.Request) {
	games, err := h.catalog.Trending(r.Context())
	if err != nil {
		h.logger.Error("trending fetch failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultsResponse{Results: games})
}

// HandleNewReleases returns the recent-releases feed.
//
// HTTP: GET /api/new_releases
func (h *GameHandler) HandleNewReleases(w http.ResponseWriter, r *http.Request) {
	games, err := h.catalog.NewReleases(r.Context())
	if err != nil {
		h.logger.Error("new releases fetch failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultsResponse{Results: games})
}

// HandleSearch searches the catalog by title.
//
// HTTP: GET /api/search?q=...&page=...
//
// An empty q is a normal 200 with empty results, not an error — the search
// page calls this on every keystroke, including the backspace to nothing.
func (h *GameHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	page := r.URL.Query().Get("page")
	if page == "" {
		page = "1"
	}

	games, err := h.catalog.Search(r.Context(), query, page)
	if err != nil {
		h.logger.Error("search fetch failed",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultsResponse{Results: games})
}

// HandleGame returns one enriched game record.
//
// HTTP: GET /api/game/{id}
func (h *GameHandler) HandleGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	game, err := h.catalog.Game(r.Context(), id)
	if err != nil {
		h.logger.Error("game fetch failed",
			slog.String("gameID", id),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}
