package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/sakif/gameshelf/internal/apperror"
	"github.com/sakif/gameshelf/internal/model"
)

// fakeListRepo is an in-memory repository.ListRepository. It reproduces the
// two contracts the service leans on: AddItem is idempotent per
// (list, game), and reads come back newest-first.
type fakeListRepo struct {
	lists  map[string]*model.List
	order  []string                    // list IDs in creation order
	items  map[string][]model.ListItem // per list, newest first
	nextID int

	createErr  error
	ownedByErr error
}

func newFakeListRepo() *fakeListRepo {
	return &fakeListRepo{
		lists: make(map[string]*model.List),
		items: make(map[string][]model.ListItem),
	}
}

func (f *fakeListRepo) CreateList(_ context.Context, list *model.List) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	list.ID = fmt.Sprintf("list-%d", f.nextID)
	list.CreatedAt = time.Now()
	copied := *list
	f.lists[list.ID] = &copied
	f.order = append(f.order, list.ID)
	return nil
}

func (f *fakeListRepo) ListsForUser(_ context.Context, userID string) ([]model.List, error) {
	out := []model.List{}
	// Walk creation order backwards — newest first, like the real query.
	for i := len(f.order) - 1; i >= 0; i-- {
		if list := f.lists[f.order[i]]; list != nil && list.UserID == userID {
			out = append(out, *list)
		}
	}
	return out, nil
}

func (f *fakeListRepo) ListOwnedBy(_ context.Context, listID, userID string) (bool, error) {
	if f.ownedByErr != nil {
		return false, f.ownedByErr
	}
	list, ok := f.lists[listID]
	return ok && list.UserID == userID, nil
}

func (f *fakeListRepo) DeleteList(_ context.Context, listID string) error {
	delete(f.lists, listID)
	delete(f.items, listID)
	for i, id := range f.order {
		if id == listID {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeListRepo) AddItem(_ context.Context, item *model.ListItem) error {
	// INSERT OR IGNORE stand-in: an existing (list, game) pair is a no-op.
	for _, existing := range f.items[item.ListID] {
		if existing.GameID == item.GameID {
			return nil
		}
	}
	f.nextID++
	item.ID = fmt.Sprintf("item-%d", f.nextID)
	item.AddedAt = time.Now()
	// Prepend — newest first.
	f.items[item.ListID] = append([]model.ListItem{*item}, f.items[item.ListID]...)
	return nil
}

func (f *fakeListRepo) ItemsForList(_ context.Context, listID string) ([]model.ListItem, error) {
	return append([]model.ListItem{}, f.items[listID]...), nil
}

// newTestListService wires a ListService over a fresh fake.
func newTestListService(t *testing.T) (*ListService, *fakeListRepo) {
	t.Helper()
	repo := newFakeListRepo()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewListService(repo, logger), repo
}

// testUser builds the acting identity for service calls.
func testUser(id, handle string) *model.User {
	return &model.User{ID: id, Handle: handle}
}

// =========================================================================
// CreateList TESTS
// =========================================================================

func TestCreateList_Success(t *testing.T) {
	svc, _ := newTestListService(t)
	owner := testUser("u1", "alice")

	list, err := svc.CreateList(context.Background(), owner, "Backlog")
	if err != nil {
		t.Fatalf("CreateList() error = %v", err)
	}

	if list.ID == "" {
		t.Error("CreateList() should return a list with an ID")
	}
	if list.UserID != "u1" {
		t.Errorf("list.UserID = %q, want %q", list.UserID, "u1")
	}
	if list.Name != "Backlog" {
		t.Errorf("list.Name = %q, want %q", list.Name, "Backlog")
	}
}

func TestCreateList_TrimsName(t *testing.T) {
	svc, _ := newTestListService(t)

	list, err := svc.CreateList(context.Background(), testUser("u1", "alice"), "  Padded  ")
	if err != nil {
		t.Fatalf("CreateList() error = %v", err)
	}
	if list.Name != "Padded" {
		t.Errorf("list.Name = %q, want trimmed %q", list.Name, "Padded")
	}
}

func TestCreateList_BlankName(t *testing.T) {
	svc, repo := newTestListService(t)

	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := svc.CreateList(context.Background(), testUser("u1", "alice"), name)
		if err == nil {
			t.Fatalf("CreateList(%q) should fail validation", name)
		}
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("CreateList(%q) error = %v, want ErrValidation", name, err)
		}
	}
	if len(repo.lists) != 0 {
		t.Error("blank names must not reach the store")
	}
}

// =========================================================================
// AddToList TESTS
// =========================================================================

// addSetup creates an owner with one list and returns everything the add
// tests need.
func addSetup(t *testing.T) (*ListService, *fakeListRepo, *model.User, *model.List) {
	t.Helper()
	svc, repo := newTestListService(t)
	owner := testUser("u1", "alice")
	list, err := svc.CreateList(context.Background(), owner, "Play Later")
	if err != nil {
		t.Fatalf("setup CreateList: %v", err)
	}
	return svc, repo, owner, list
}

func TestAddToList_Success(t *testing.T) {
	svc, repo, owner, list := addSetup(t)

	err := svc.AddToList(context.Background(), owner, list.ID, "g1", "Hollow Knight", "https://img/hk.jpg")
	if err != nil {
		t.Fatalf("AddToList() error = %v", err)
	}

	items := repo.items[list.ID]
	if len(items) != 1 {
		t.Fatalf("item rows = %d, want 1", len(items))
	}
	if items[0].GameName != "Hollow Knight" {
		t.Errorf("GameName = %q, want %q", items[0].GameName, "Hollow Knight")
	}
}

func TestAddToList_EmptyCoverIsAllowed(t *testing.T) {
	svc, _, owner, list := addSetup(t)

	// The cover is a nice-to-have snapshot; the catalog doesn't always have
	// one and the add must still work.
	if err := svc.AddToList(context.Background(), owner, list.ID, "g2", "Obscure Gem", ""); err != nil {
		t.Errorf("AddToList() with empty cover should succeed, got: %v", err)
	}
}

func TestAddToList_DuplicateIsSilentSuccess(t *testing.T) {
	svc, repo, owner, list := addSetup(t)

	for i := 0; i < 2; i++ {
		if err := svc.AddToList(context.Background(), owner, list.ID, "g1", "Celeste", ""); err != nil {
			t.Fatalf("AddToList() call %d error = %v", i+1, err)
		}
	}

	if n := len(repo.items[list.ID]); n != 1 {
		t.Errorf("after duplicate add: %d rows, want exactly 1", n)
	}
}

func TestAddToList_MissingFields(t *testing.T) {
	tests := []struct {
		name     string
		listID   string
		gameID   string
		gameName string
	}{
		{"missing list_id", "", "g1", "Game"},
		{"missing game_id", "LIST", "", "Game"},
		{"missing game_name", "LIST", "g1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, owner, list := addSetup(t)
			listID := tt.listID
			if listID == "LIST" {
				listID = list.ID
			}

			err := svc.AddToList(context.Background(), owner, listID, tt.gameID, tt.gameName, "")
			if err == nil {
				t.Fatal("AddToList() should fail validation")
			}
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
}

// TestAddToList_NotOwned: someone else's list is a 403 even when every
// field is perfectly valid — ownership is checked before anything else
// touches the store.
func TestAddToList_NotOwned(t *testing.T) {
	svc, repo, _, list := addSetup(t)
	intruder := testUser("u2", "mallory")

	err := svc.AddToList(context.Background(), intruder, list.ID, "g1", "Valid Game", "https://img/x.jpg")
	if err == nil {
		t.Fatal("AddToList() on another user's list should fail")
	}
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("error = %v, want ErrForbidden", err)
	}
	if len(repo.items[list.ID]) != 0 {
		t.Error("forbidden add must not write a row")
	}
}

func TestAddToList_NonexistentList(t *testing.T) {
	svc, _, owner, _ := addSetup(t)

	// "No such list" gets the same answer as "not yours" — the error must
	// not reveal which list IDs exist.
	err := svc.AddToList(context.Background(), owner, "no-such-list", "g1", "Game", "")
	if err == nil {
		t.Fatal("AddToList() on a nonexistent list should fail")
	}
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("error = %v, want ErrForbidden", err)
	}
}

func TestAddToList_OwnershipCheckFailure(t *testing.T) {
	svc, repo, owner, list := addSetup(t)
	repo.ownedByErr = errors.New("database went away")

	err := svc.AddToList(context.Background(), owner, list.ID, "g1", "Game", "")
	if err == nil {
		t.Fatal("AddToList() should propagate ownership-check failures")
	}
	if errors.Is(err, apperror.ErrForbidden) {
		t.Error("a store failure must not masquerade as 403")
	}
}

// =========================================================================
// DeleteList TESTS
// =========================================================================

func TestDeleteList_Owned(t *testing.T) {
	svc, repo, owner, list := addSetup(t)

	if err := svc.DeleteList(context.Background(), owner, list.ID); err != nil {
		t.Fatalf("DeleteList() error = %v", err)
	}
	if _, ok := repo.lists[list.ID]; ok {
		t.Error("list still present after delete")
	}
}

func TestDeleteList_NotOwned(t *testing.T) {
	svc, repo, _, list := addSetup(t)
	intruder := testUser("u2", "mallory")

	err := svc.DeleteList(context.Background(), intruder, list.ID)
	if err == nil {
		t.Fatal("DeleteList() on another user's list should fail")
	}
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("error = %v, want ErrForbidden", err)
	}
	if _, ok := repo.lists[list.ID]; !ok {
		t.Error("forbidden delete removed the list")
	}
}

// =========================================================================
// ListsWithItems TESTS
// =========================================================================

func TestListsWithItems_Empty(t *testing.T) {
	svc, _ := newTestListService(t)

	lists, err := svc.ListsWithItems(context.Background(), testUser("u1", "alice"))
	if err != nil {
		t.Fatalf("ListsWithItems() error = %v", err)
	}
	if lists == nil {
		t.Fatal("ListsWithItems() returned nil, want empty slice")
	}
	if len(lists) != 0 {
		t.Errorf("lists = %d, want 0", len(lists))
	}
}

func TestListsWithItems_AttachesItemsNewestFirst(t *testing.T) {
	svc, _ := newTestListService(t)
	owner := testUser("u1", "alice")
	ctx := context.Background()

	older, _ := svc.CreateList(ctx, owner, "older list")
	newer, _ := svc.CreateList(ctx, owner, "newer list")

	if err := svc.AddToList(ctx, owner, older.ID, "g1", "first added", ""); err != nil {
		t.Fatalf("AddToList: %v", err)
	}
	if err := svc.AddToList(ctx, owner, older.ID, "g2", "second added", ""); err != nil {
		t.Fatalf("AddToList: %v", err)
	}

	lists, err := svc.ListsWithItems(ctx, owner)
	if err != nil {
		t.Fatalf("ListsWithItems() error = %v", err)
	}

	if len(lists) != 2 {
		t.Fatalf("lists = %d, want 2", len(lists))
	}
	// Lists newest-first
	if lists[0].ID != newer.ID {
		t.Errorf("lists[0].ID = %q, want the newer list %q", lists[0].ID, newer.ID)
	}
	// Items newest-first within their list
	items := lists[1].Items
	if len(items) != 2 {
		t.Fatalf("older list items = %d, want 2", len(items))
	}
	if items[0].GameName != "second added" {
		t.Errorf("items[0].GameName = %q, want %q (newest first)", items[0].GameName, "second added")
	}
	// The newer list has no items — but an empty slice, not nil.
	if lists[0].Items == nil {
		t.Error("empty item set should be a slice, not nil")
	}
}

func TestListsWithItems_OnlyOwnLists(t *testing.T) {
	svc, _ := newTestListService(t)
	ctx := context.Background()

	if _, err := svc.CreateList(ctx, testUser("u1", "alice"), "mine"); err != nil {
		t.Fatalf("CreateList: %v", err)
	}
	if _, err := svc.CreateList(ctx, testUser("u2", "bob"), "his"); err != nil {
		t.Fatalf("CreateList: %v", err)
	}

	lists, err := svc.ListsWithItems(ctx, testUser("u1", "alice"))
	if err != nil {
		t.Fatalf("ListsWithItems() error = %v", err)
	}
	if len(lists) != 1 || lists[0].Name != "mine" {
		t.Errorf("got %d lists, want only %q", len(lists), "mine")
	}
}
