// Package service contains the business logic layer.
//
// THE THREE-LAYER SPLIT:
//
//	Handler (HTTP)      → parses requests, writes responses
//	Service (this)      → validates, enforces ownership, orchestrates
//	Repository (data)   → reads/writes the database
//
// Services receive repository INTERFACES, not *sqlite.DB. The service never
// sees SQL; the handler never sees a rule. Tests exploit the seam from both
// sides: service tests swap in in-memory fakes, handler tests swap in
// scripted services.
//
// IDENTITY IS A PARAMETER:
// Every operation on owned data takes the acting *model.User explicitly.
// There is no "current user" global to consult — whoever calls the service
// must say who is acting, which makes the ownership rules visible in every
// signature and trivially testable.
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

// ListService handles game-list rules: names must be non-blank, and every
// mutation must be on a list the acting user owns.
type ListService struct {
	lists  repository.ListRepository
	logger *slog.Logger
}

// NewListService creates a ListService.
func NewListService(lists repository.ListRepository, logger *slog.Logger) *ListService {
	return &ListService{lists: lists, logger: logger}
}

// CreateList creates a new list for user. The name is trimmed; a blank name
// fails validation.
func (s *ListService) CreateList(ctx context.Context, user *model.User, name string) (*model.List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "missing list name")
	}

	list := &model.List{UserID: user.ID, Name: name}
	if err := s.lists.CreateList(ctx, list); err != nil {
		return nil, fmt.Errorf("service/list: creating list: %w", err)
	}

	s.logger.Info("list created",
		slog.String("listID", list.ID),
		slog.String("userID", user.ID),
	)

	return list, nil
}

// ListsWithItems returns every list user owns with its items attached,
// lists and items both newest-first.
//
// One query per list is fine here: a person curates a handful of lists, not
// thousands, and keeping the repository to two simple reads beats teaching
// it a join shape only this endpoint wants.
func (s *ListService) ListsWithItems(ctx context.Context, user *model.User) ([]model.ListWithItems, error) {
	lists, err := s.lists.ListsForUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/list: loading lists: %w", err)
	}

	out := make([]model.ListWithItems, 0, len(lists))
	for _, list := range lists {
		items, err := s.lists.ItemsForList(ctx, list.ID)
		if err != nil {
			return nil, fmt.Errorf("service/list: loading items for list %s: %w", list.ID, err)
		}
		out = append(out, model.ListWithItems{
			ID:    list.ID,
			Name:  list.Name,
			Items: items,
		})
	}

	return out, nil
}

// AddToList puts a game on one of user's lists. The game's display fields
// are snapshotted from the request (the catalog is not consulted).
//
// Rules, in order:
//   - listID, gameID, and gameName are all required → ErrValidation
//   - the list must exist and belong to user → ErrForbidden
//     ("does not exist" and "not yours" are deliberately the same answer)
//   - duplicate adds succeed silently — the store's idempotent insert
//     absorbs them, so a double-click never becomes an error toast
func (s *ListService) AddToList(ctx context.Context, user *model.User, listID, gameID, gameName, gameCover string) error {
	if listID == "" {
		return apperror.ValidationFailed("list_id", "missing fields")
	}
	if gameID == "" {
		return apperror.ValidationFailed("game_id", "missing fields")
	}
	if gameName == "" {
		return apperror.ValidationFailed("game_name", "missing fields")
	}

	owned, err := s.lists.ListOwnedBy(ctx, listID, user.ID)
	if err != nil {
		return fmt.Errorf("service/list: checking ownership: %w", err)
	}
	if !owned {
		return apperror.Forbidden("you do not own this list")
	}

	item := &model.ListItem{
		ListID:    listID,
		GameID:    gameID,
		GameName:  gameName,
		GameCover: gameCover,
	}
	if err := s.lists.AddItem(ctx, item); err != nil {
		return fmt.Errorf("service/list: adding item: %w", err)
	}

	s.logger.Info("game added to list",
		slog.String("listID", listID),
		slog.String("gameID", gameID),
		slog.String("userID", user.ID),
	)

	return nil
}

// DeleteList removes one of user's lists; its items cascade away in the
// store. Same ownership rule — and same indistinguishable 403 — as
// AddToList.
func (s *ListService) DeleteList(ctx context.Context, user *model.User, listID string) error {
	owned, err := s.lists.ListOwnedBy(ctx, listID, user.ID)
	if err != nil {
		return fmt.Errorf("service/list: checking ownership: %w", err)
	}
	if !owned {
		return apperror.Forbidden("you do not own this list")
	}

	if err := s.lists.DeleteList(ctx, listID); err != nil {
		return fmt.Errorf("service/list: deleting list: %w", err)
	}

	s.logger.Info("list deleted",
		slog.String("listID", listID),
		slog.String("userID", user.ID),
	)

	return nil
}
