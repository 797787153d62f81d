package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/gameshelf/internal/apperror"
	"github.com/sakif/gameshelf/internal/auth"
	"github.com/sakif/gameshelf/internal/model"
	"github.com/sakif/gameshelf/internal/service"
)

type listsResponse struct {
	Lists []model.ListWithItems `json:"lists"`
}

type createListRequest struct {
	Name string `json:"name"`
}

type addToListRequest struct {
	ListID    string `json:"list_id"`
	GameID    string `json:"game_id"`
	GameName  string `json:"game_name"`
	GameCover string `json:"game_cover"`
}

// ListHandler serves the /api/my/lists endpoints. All of them run behind
// RequireAuth, so the user is always in the context.
type ListHandler struct {
	lists  *service.ListService
	logger *slog.Logger
}

// NewListHandler creates a ListHandler.
func NewListHandler(lists *service.ListService, logger *slog.Logger) *ListHandler {
	return &ListHandler{lists: lists, logger: logger}
}

// HandleMyLists returns the caller's lists with items, newest first.
//
// HTTP: GET /api/my/lists (requires auth)
func (h *ListHandler) HandleMyLists(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("sign in required"))
		return
	}

	lists, err := h.lists.ListsWithItems(r.Context(), user)
	if err != nil {
		h.logger.Error("loading lists failed",
			slog.String("userID", user.ID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listsResponse{Lists: lists})
}

// HandleCreateList creates a new list.
//
// HTTP: POST /api/my/lists, body {"name": "..."} (requires auth)
//
// LENIENT BODY PARSING:
// A malformed body decodes to a zero request and falls through to the
// service's empty-name validation — the client sees the same
// "missing list name" 400 whether it sent broken JSON or no name, which is
// the one case its form code already handles.
func (h *ListHandler) HandleCreateList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("sign in required"))
		return
	}

	var req createListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("unreadable create-list body", slog.String("error", err.Error()))
	}

	if _, err := h.lists.CreateList(r.Context(), user, req.Name); err != nil {
		writeError(w, err)
		return
	}

	writeOK(w)
}

// HandleAddToList adds a game to one of the caller's lists. Duplicate adds
// are a success — the store absorbs them.
//
// HTTP: POST /api/my/lists/add,
// body {"list_id", "game_id", "game_name", "game_cover"} (requires auth)
func (h *ListHandler) HandleAddToList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("sign in required"))
		return
	}

	var req addToListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("unreadable add-to-list body", slog.String("error", err.Error()))
	}

	err := h.lists.AddToList(r.Context(), user, req.ListID, req.GameID, req.GameName, req.GameCover)
	if err != nil {
		writeError(w, err)
		return
	}

	writeOK(w)
}

// HandleDeleteList deletes one of the caller's lists (and, via cascade, its
// items).
//
// HTTP: DELETE /api/my/lists/{id} (requires auth)
func (h *ListHandler) HandleDeleteList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("sign in required"))
		return
	}

	if err := h.lists.DeleteList(r.Context(), user, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeOK(w)
}
