package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pirinku/go-recipe-backend/internal/domain"
)

func timeOffset(n int) time.Duration { return time.Duration(n) * time.Second }

func postModels() []any {
	return []any{
		&domain.User{}, &domain.Post{}, &domain.Like{},
		&domain.SavedPost{}, &domain.Comment{},
	}
}

func TestCreatePost_AndGet(t *testing.T) {
	db := newRepoDB(t, postModels()...)
	u := seedUser(t, db, "alice", "alice@example.com")

	p, err := CreatePost(context.Background(), db, u.ID, "my first recipe", "http://img/x.png")
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	got, err := GetPost(context.Background(), db, p.ID)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if got.UserID != u.ID || got.Content != "my first recipe" || got.ImageURL != "http://img/x.png" {
		t.Fatalf("unexpected post: %+v", got)
	}
}

func TestListFeedPage_NewestFirstAndPaged(t *testing.T) {
	db := newRepoDB(t, postModels()...)
	u := seedUser(t, db, "alice", "alice@example.com")

	var ids []string
	for i := 0; i < 5; i++ {
		p, err := CreatePost(context.Background(), db, u.ID, "post", "")
		if err != nil {
			t.Fatalf("CreatePost: %v", err)
		}
		// Deterministic order regardless of timestamp resolution.
		db.Model(p).Update("created_at", p.CreatedAt.Add(-timeOffset(5-i)))
		ids = append(ids, p.ID)
	}

	page, err := ListFeedPage(context.Background(), db, 0, 2)
	if err != nil {
		t.Fatalf("ListFeedPage: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(page))
	}
	if page[0].ID != ids[4] || page[1].ID != ids[3] {
		t.Fatalf("unexpected order: %v then %v", page[0].ID, page[1].ID)
	}

	total, err := CountPosts(context.Background(), db)
	if err != nil || total != 5 {
		t.Fatalf("CountPosts = %d, %v", total, err)
	}
}

func TestUpdatePost_OwnershipEnforced(t *testing.T) {
	db := newRepoDB(t, postModels()...)
	owner := seedUser(t, db, "alice", "alice@example.com")
	other := seedUser(t, db, "bob", "bob@example.com")

	p, _ := CreatePost(context.Background(), db, owner.ID, "before", "")

	err := UpdatePost(context.Background(), db, p.ID, other.ID, map[string]any{"content": "hijacked"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-owner update, got %v", err)
	}
	if err := UpdatePost(context.Background(), db, p.ID, owner.ID, map[string]any{"content": "after"}); err != nil {
		t.Fatalf("owner update: %v", err)
	}
	got, _ := GetPost(context.Background(), db, p.ID)
	if got.Content != "after" {
		t.Fatalf("content = %q", got.Content)
	}
}

func TestDeletePost_SoftDeleteHidesFromFeed(t *testing.T) {
	db := newRepoDB(t, postModels()...)
	u := seedUser(t, db, "alice", "alice@example.com")
	p, _ := CreatePost(context.Background(), db, u.ID, "gone soon", "")

	if err := DeletePost(context.Background(), db, p.ID, u.ID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	if _, err := GetPost(context.Background(), db, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := DeletePost(context.Background(), db, p.ID, u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestComments_CreateListCount(t *testing.T) {
	db := newRepoDB(t, postModels()...)
	u := seedUser(t, db, "alice", "alice@example.com")
	p, _ := CreatePost(context.Background(), db, u.ID, "post", "")

	for _, text := range []string{"first", "second"} {
		if _, err := CreateComment(context.Background(), db, p.ID, u.ID, text); err != nil {
			t.Fatalf("CreateComment: %v", err)
		}
	}

	list, err := ListComments(context.Background(), db, p.ID)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(list) != 2 || list[0].Content != "first" {
		t.Fatalf("unexpected comments: %+v", list)
	}
	n, err := CountComments(context.Background(), db, p.ID)
	if err != nil || n != 2 {
		t.Fatalf("CountComments = %d, %v", n, err)
	}
}

func TestListUserComments_ExcludesDeletedPosts(t *testing.T) {
	db := newRepoDB(t, postModels()...)
	u := seedUser(t, db, "alice", "alice@example.com")
	p1, _ := CreatePost(context.Background(), db, u.ID, "keep", "")
	p2, _ := CreatePost(context.Background(), db, u.ID, "gone", "")
	_, _ = CreateComment(context.Background(), db, p1.ID, u.ID, "on keep")
	_, _ = CreateComment(context.Background(), db, p2.ID, u.ID, "on gone")

	if err := DeletePost(context.Background(), db, p2.ID, u.ID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}

	list, err := ListUserComments(context.Background(), db, u.ID)
	if err != nil {
		t.Fatalf("ListUserComments: %v", err)
	}
	if len(list) != 1 || list[0].Content != "on keep" {
		t.Fatalf("unexpected comments: %+v", list)
	}
}

func TestListSavedPosts_JoinsBookmarks(t *testing.T) {
	db := newRepoDB(t, postModels()...)
	u := seedUser(t, db, "alice", "alice@example.com")
	p1, _ := CreatePost(context.Background(), db, u.ID, "keep", "")
	_, _ = CreatePost(context.Background(), db, u.ID, "skip", "")

	if _, err := ToggleSave(context.Background(), db, p1.ID, u.ID); err != nil {
		t.Fatalf("ToggleSave: %v", err)
	}

	saved, err := ListSavedPosts(context.Background(), db, u.ID)
	if err != nil {
		t.Fatalf("ListSavedPosts: %v", err)
	}
	if len(saved) != 1 || saved[0].ID != p1.ID {
		t.Fatalf("unexpected saved posts: %+v", saved)
	}
}
