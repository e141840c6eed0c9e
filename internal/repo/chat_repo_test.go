package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/pirinku/go-recipe-backend/internal/domain"
)

func chatModels() []any {
	return []any{
		&domain.User{}, &domain.Title{}, &domain.History{}, &domain.HistoryMessage{},
	}
}

func TestCreateTitle_AndGetEnforcesOwnership(t *testing.T) {
	db := newRepoDB(t, chatModels()...)
	u := seedUser(t, db, "alice", "alice@example.com")

	th, err := CreateTitle(context.Background(), db, u.ID, "Pasta ideas")
	if err != nil {
		t.Fatalf("CreateTitle: %v", err)
	}
	got, err := GetTitle(context.Background(), db, th.ID, u.ID)
	if err != nil || got.Title != "Pasta ideas" {
		t.Fatalf("GetTitle: %+v, %v", got, err)
	}
	if _, err := GetTitle(context.Background(), db, th.ID, "someone-else"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong owner, got %v", err)
	}
}

func TestUpdateTitle_AndDelete(t *testing.T) {
	db := newRepoDB(t, chatModels()...)
	u := seedUser(t, db, "alice", "alice@example.com")
	th, _ := CreateTitle(context.Background(), db, u.ID, "Old")

	if err := UpdateTitle(context.Background(), db, th.ID, u.ID, "New"); err != nil {
		t.Fatalf("UpdateTitle: %v", err)
	}
	got, _ := GetTitle(context.Background(), db, th.ID, u.ID)
	if got.Title != "New" {
		t.Fatalf("title = %q", got.Title)
	}

	if err := UpdateTitle(context.Background(), db, th.ID, "other", "X"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong owner, got %v", err)
	}

	if err := DeleteTitle(context.Background(), db, th.ID, u.ID); err != nil {
		t.Fatalf("DeleteTitle: %v", err)
	}
	if _, err := GetTitle(context.Background(), db, th.ID, u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestCreateHistory_PersistsOrderedTurns(t *testing.T) {
	db := newRepoDB(t, chatModels()...)
	u := seedUser(t, db, "alice", "alice@example.com")
	th, _ := CreateTitle(context.Background(), db, u.ID, "T")

	h, err := CreateHistory(context.Background(), db, th.ID, []domain.HistoryMessage{
		{Role: domain.RoleUser, Content: "how do I boil eggs?"},
		{Role: domain.RoleAssistant, Content: "gently, for ten minutes"},
	})
	if err != nil {
		t.Fatalf("CreateHistory: %v", err)
	}
	if len(h.Messages) != 2 || h.Messages[0].Seq != 0 || h.Messages[1].Seq != 1 {
		t.Fatalf("unexpected turns: %+v", h.Messages)
	}

	list, err := ListHistories(context.Background(), db, th.ID)
	if err != nil {
		t.Fatalf("ListHistories: %v", err)
	}
	if len(list) != 1 || len(list[0].Messages) != 2 {
		t.Fatalf("unexpected histories: %+v", list)
	}
	if list[0].Messages[0].Role != domain.RoleUser || list[0].Messages[1].Role != domain.RoleAssistant {
		t.Fatalf("turn order lost: %+v", list[0].Messages)
	}
}

func TestGetAndDeleteHistory_OwnershipScoped(t *testing.T) {
	db := newRepoDB(t, chatModels()...)
	u := seedUser(t, db, "alice", "alice@example.com")
	th, _ := CreateTitle(context.Background(), db, u.ID, "T")
	h, err := CreateHistory(context.Background(), db, th.ID, []domain.HistoryMessage{
		{Role: domain.RoleUser, Content: "q"},
		{Role: domain.RoleAssistant, Content: "a"},
	})
	if err != nil {
		t.Fatalf("CreateHistory: %v", err)
	}

	got, err := GetHistory(context.Background(), db, h.ID, u.ID)
	if err != nil || len(got.Messages) != 2 {
		t.Fatalf("GetHistory: %+v, %v", got, err)
	}
	if _, err := GetHistory(context.Background(), db, h.ID, "other"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign history, got %v", err)
	}

	if err := DeleteHistory(context.Background(), db, h.ID, "other"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign delete, got %v", err)
	}
	if err := DeleteHistory(context.Background(), db, h.ID, u.ID); err != nil {
		t.Fatalf("DeleteHistory: %v", err)
	}
	if _, err := GetHistory(context.Background(), db, h.ID, u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestListRecentTurns_WindowAndOrder(t *testing.T) {
	db := newRepoDB(t, chatModels()...)
	u := seedUser(t, db, "alice", "alice@example.com")
	th, _ := CreateTitle(context.Background(), db, u.ID, "T")

	// Three exchanges, six turns total.
	for i := 0; i < 3; i++ {
		_, err := CreateHistory(context.Background(), db, th.ID, []domain.HistoryMessage{
			{Role: domain.RoleUser, Content: "q"},
			{Role: domain.RoleAssistant, Content: "a"},
		})
		if err != nil {
			t.Fatalf("CreateHistory: %v", err)
		}
	}

	turns, err := ListRecentTurns(context.Background(), db, th.ID, 4)
	if err != nil {
		t.Fatalf("ListRecentTurns: %v", err)
	}
	if len(turns) != 4 {
		t.Fatalf("expected 4 turns, got %d", len(turns))
	}
	// Chronological: ends with the latest assistant turn.
	if turns[len(turns)-1].Role != domain.RoleAssistant {
		t.Fatalf("expected assistant last, got %+v", turns[len(turns)-1])
	}

	n, err := CountHistories(context.Background(), db, th.ID)
	if err != nil || n != 3 {
		t.Fatalf("CountHistories = %d, %v", n, err)
	}
}
