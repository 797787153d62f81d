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

type reviewsResponse struct {
	Reviews []model.ReviewWithAuthor `json:"reviews"`
}

type createReviewRequest struct {
	Rating int    `json:"rating"`
	Body   string `json:"body"`
}

// ReviewHandler serves /api/reviews/{game_id}. Reading is public; writing
// requires auth — the route table applies the middleware per method.
type ReviewHandler struct {
	reviews *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a ReviewHandler.
func NewReviewHandler(reviews *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, logger: logger}
}

// HandleGameReviews returns the newest reviews for a game with author
// handles attached.
//
// HTTP: GET /api/reviews/{id} (public)
func (h *ReviewHandler) HandleGameReviews(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")

	reviews, err := h.reviews.ReviewsForGame(r.Context(), gameID)
	if err != nil {
		h.logger.Error("loading reviews failed",
			slog.String("gameID", gameID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reviewsResponse{Reviews: reviews})
}

// HandleCreateReview posts a review for a game as the signed-in user.
//
// HTTP: POST /api/reviews/{id}, body {"rating": 1-5, "body": "..."}
// (requires auth)
//
// Body parsing is lenient like the list endpoints: a broken body becomes a
// zero request, and rating 0 fails the service's 1-5 check with the same
// 400 the client shows for any invalid form.
func (h *ReviewHandler) HandleCreateReview(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("sign in required"))
		return
	}

	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("unreadable review body", slog.String("error", err.Error()))
	}

	if _, err := h.reviews.PostReview(r.Context(), user, chi.URLParam(r, "id"), req.Rating, req.Body); err != nil {
		writeError(w, err)
		return
	}

	writeOK(w)
}
