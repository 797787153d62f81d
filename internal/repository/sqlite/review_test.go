package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/sakif/gameshelf/internal/model"
)

// createTestReview creates a review and fails the test if it errors.
func createTestReview(t *testing.T, db *DB, userID, gameID string, rating int, body string) *model.Review {
	t.Helper()
	review := &model.Review{UserID: userID, GameID: gameID, Rating: rating, Body: body}
	if err := db.CreateReview(context.Background(), review); err != nil {
		t.Fatalf("failed to create test review: %v", err)
	}
	return review
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestCreateReview(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "reviewer")

	review := &model.Review{
		UserID: user.ID,
		GameID: "g100",
		Rating: 4,
		Body:   "tight controls, great soundtrack",
	}
	err := db.CreateReview(context.Background(), review)
	if err != nil {
		t.Fatalf("CreateReview() error = %v", err)
	}

	if review.ID == "" {
		t.Error("CreateReview() did not set review.ID")
	}
	if review.CreatedAt.IsZero() {
		t.Error("CreateReview() did not set review.CreatedAt")
	}
}

// TestCreateReview_CheckConstraint exercises the store's own guard rail.
// Rating bounds are validated in the service, but the CHECK constraint is
// the backstop for any future code path that forgets — out-of-range ratings
// must never reach disk.
func TestCreateReview_CheckConstraint(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "cheater")

	for _, rating := range []int{0, 6, -1} {
		review := &model.Review{UserID: user.ID, GameID: "g1", Rating: rating, Body: "nope"}
		if err := db.CreateReview(context.Background(), review); err == nil {
			t.Errorf("CreateReview() accepted rating %d, want CHECK constraint failure", rating)
		}
	}
}

// TestCreateReview_SameGameTwice: reviews are a feed, not a single editable
// score — no uniqueness on (user, game).
func TestCreateReview_SameGameTwice(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "prolific")

	createTestReview(t, db, user.ID, "g1", 2, "first impressions: rough")
	createTestReview(t, db, user.ID, "g1", 5, "grew on me a lot")

	reviews, err := db.ReviewsForGame(context.Background(), "g1", 0)
	if err != nil {
		t.Fatalf("ReviewsForGame() error = %v", err)
	}
	if len(reviews) != 2 {
		t.Errorf("ReviewsForGame() returned %d reviews, want 2", len(reviews))
	}
}

// =========================================================================
// REVIEWS FOR GAME TESTS
// =========================================================================

func TestReviewsForGame_JoinsAuthorHandle(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice_reviews")
	createTestReview(t, db, alice.ID, "g1", 5, "masterpiece")

	reviews, err := db.ReviewsForGame(context.Background(), "g1", 0)
	if err != nil {
		t.Fatalf("ReviewsForGame() error = %v", err)
	}

	if len(reviews) != 1 {
		t.Fatalf("ReviewsForGame() returned %d reviews, want 1", len(reviews))
	}
	if reviews[0].Handle != "alice_reviews" {
		t.Errorf("Handle = %q, want %q", reviews[0].Handle, "alice_reviews")
	}
	if reviews[0].Rating != 5 {
		t.Errorf("Rating = %d, want 5", reviews[0].Rating)
	}
	if reviews[0].Body != "masterpiece" {
		t.Errorf("Body = %q, want %q", reviews[0].Body, "masterpiece")
	}
}

func TestReviewsForGame_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "serial_reviewer")

	createTestReview(t, db, user.ID, "g1", 1, "oldest")
	time.Sleep(5 * time.Millisecond)
	createTestReview(t, db, user.ID, "g1", 3, "middle")
	time.Sleep(5 * time.Millisecond)
	createTestReview(t, db, user.ID, "g1", 5, "newest")

	reviews, err := db.ReviewsForGame(context.Background(), "g1", 0)
	if err != nil {
		t.Fatalf("ReviewsForGame() error = %v", err)
	}

	if len(reviews) != 3 {
		t.Fatalf("ReviewsForGame() returned %d reviews, want 3", len(reviews))
	}
	wantOrder := []string{"newest", "middle", "oldest"}
	for i, want := range wantOrder {
		if reviews[i].Body != want {
			t.Errorf("reviews[%d].Body = %q, want %q (newest first)", i, reviews[i].Body, want)
		}
	}
}

func TestReviewsForGame_OnlyAskedGame(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "split_reviewer")

	createTestReview(t, db, user.ID, "wanted", 4, "for the wanted game")
	createTestReview(t, db, user.ID, "other", 2, "for some other game")

	reviews, err := db.ReviewsForGame(context.Background(), "wanted", 0)
	if err != nil {
		t.Fatalf("ReviewsForGame() error = %v", err)
	}

	if len(reviews) != 1 {
		t.Fatalf("ReviewsForGame() returned %d reviews, want 1", len(reviews))
	}
	if reviews[0].GameID != "wanted" {
		t.Errorf("GameID = %q, want %q", reviews[0].GameID, "wanted")
	}
}

func TestReviewsForGame_RespectsLimit(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "limit_tester")

	for i := 0; i < 5; i++ {
		createTestReview(t, db, user.ID, "g1", 3, "another one")
	}

	reviews, err := db.ReviewsForGame(context.Background(), "g1", 2)
	if err != nil {
		t.Fatalf("ReviewsForGame() error = %v", err)
	}
	if len(reviews) != 2 {
		t.Errorf("ReviewsForGame(limit=2) returned %d reviews, want 2", len(reviews))
	}
}

func TestReviewsForGame_DefaultLimit(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "flood_reviewer")

	// Create 25 reviews — limit <= 0 must fall back to the default of 20.
	for i := 0; i < 25; i++ {
		createTestReview(t, db, user.ID, "g1", 3, "yet another take")
	}

	reviews, err := db.ReviewsForGame(context.Background(), "g1", 0)
	if err != nil {
		t.Fatalf("ReviewsForGame() error = %v", err)
	}
	if len(reviews) != 20 {
		t.Errorf("ReviewsForGame() default returned %d reviews, want 20", len(reviews))
	}
}

func TestReviewsForGame_Empty(t *testing.T) {
	db := newTestDB(t)

	reviews, err := db.ReviewsForGame(context.Background(), "unreviewed", 0)
	if err != nil {
		t.Fatalf("ReviewsForGame() error = %v", err)
	}
	if reviews == nil {
		t.Fatal("ReviewsForGame() returned nil, want empty slice")
	}
	if len(reviews) != 0 {
		t.Errorf("ReviewsForGame() returned %d reviews, want 0", len(reviews))
	}
}
