package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/gameshelf/internal/apperror"
	"github.com/sakif/gameshelf/internal/model"
	"github.com/sakif/gameshelf/internal/repository"
)

// reviewPageSize is how many reviews a game page shows.
const reviewPageSize = 20

// minReviewLength keeps "ok" and one-character reviews out; three characters
// is the floor for saying anything at all.
const minReviewLength = 3

// ReviewService handles star reviews.
type ReviewService struct {
	reviews repository.ReviewRepository
	logger  *slog.Logger
}

// NewReviewService creates a ReviewService.
func NewReviewService(reviews repository.ReviewRepository, logger *slog.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, logger: logger}
}

// PostReview records user's rating and text for a game. The body is
// trimmed before the length check so three spaces don't count as a review.
// Posting again for the same game adds another review — it's a feed.
func (s *ReviewService) PostReview(ctx context.Context, user *model.User, gameID string, rating int, body string) (*model.Review, error) {
	body = strings.TrimSpace(body)
	if rating < 1 || rating > 5 {
		return nil, apperror.ValidationFailed("rating", "rating 1-5 and review text required")
	}
	if len(body) < minReviewLength {
		return nil, apperror.ValidationFailed("body", "rating 1-5 and review text required")
	}

	review := &model.Review{
		UserID: user.ID,
		GameID: gameID,
		Rating: rating,
		Body:   body,
	}
	if err := s.reviews.CreateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("service/review: creating review: %w", err)
	}

	s.logger.Info("review posted",
		slog.String("reviewID", review.ID),
		slog.String("gameID", gameID),
		slog.String("userID", user.ID),
		slog.Int("rating", rating),
	)

	return review, nil
}

// ReviewsForGame returns the newest reviews for a game (public — no user
// parameter, because reading reviews requires no identity).
func (s *ReviewService) ReviewsForGame(ctx context.Context, gameID string) ([]model.ReviewWithAuthor, error) {
	reviews, err := s.reviews.ReviewsForGame(ctx, gameID, reviewPageSize)
	if err != nil {
		return nil, fmt.Errorf("service/review: listing reviews: %w", err)
	}
	return reviews, nil
}
