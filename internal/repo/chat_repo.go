// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the recipe-chat
// models: Title (conversation thread), History (saved exchange), and
// HistoryMessage (individual turn).
//
// All functions are context-aware and accept a *gorm.DB handle. Ownership is
// enforced where it matters: thread lookups, renames, and deletes are scoped
// by user ID so a caller can never touch another user's conversations.
package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pirinku/go-recipe-backend/internal/domain"
)

// CreateTitle inserts a new conversation thread owned by userID.
func CreateTitle(ctx context.Context, db *gorm.DB, userID, title string) (*domain.Title, error) {
	t := &domain.Title{
		ID:     uuid.NewString(),
		UserID: userID,
		Title:  title,
	}
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// ListTitles returns all threads belonging to userID, most recently updated
// first.
func ListTitles(ctx context.Context, db *gorm.DB, userID string) ([]domain.Title, error) {
	var out []domain.Title
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at desc").
		Find(&out).Error
	return out, err
}

// GetTitle fetches a single thread by ID and owner. Returns ErrNotFound if
// missing or not owned by userID.
func GetTitle(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Title, error) {
	var t domain.Title
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTitle renames a thread, enforcing ownership. Returns ErrNotFound if
// the thread does not exist or is not owned by userID.
func UpdateTitle(ctx context.Context, db *gorm.DB, id, userID, title string) error {
	res := db.WithContext(ctx).
		Model(&domain.Title{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("title", title)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteTitle soft-deletes a thread, enforcing ownership. Histories and their
// messages cascade at the schema level.
func DeleteTitle(ctx context.Context, db *gorm.DB, id, userID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Title{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TouchTitle bumps a thread's updated_at so recently active threads sort
// first in ListTitles.
func TouchTitle(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).
		Model(&domain.Title{}).
		Where("id = ?", id).
		Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

// CreateHistory inserts a history document with its ordered turns in a single
// transaction. Seq is assigned from slice order.
func CreateHistory(ctx context.Context, db *gorm.DB, titleID string, turns []domain.HistoryMessage) (*domain.History, error) {
	h := &domain.History{
		ID:      uuid.NewString(),
		TitleID: titleID,
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(h).Error; err != nil {
			return err
		}
		for i := range turns {
			turns[i].ID = uuid.NewString()
			turns[i].HistoryID = h.ID
			turns[i].Seq = i
		}
		if len(turns) > 0 {
			if err := tx.Create(&turns).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	h.Messages = turns
	return h, nil
}

// ListHistories returns the history documents of a thread, oldest first, each
// with its turns preloaded in Seq order.
func ListHistories(ctx context.Context, db *gorm.DB, titleID string) ([]domain.History, error) {
	var out []domain.History
	err := db.WithContext(ctx).
		Where("title_id = ?", titleID).
		Order("created_at asc").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq asc")
		}).
		Find(&out).Error
	return out, err
}

// GetHistory fetches a single history document with its turns, scoped through
// thread ownership. Returns ErrNotFound if missing or owned by someone else.
func GetHistory(ctx context.Context, db *gorm.DB, id, userID string) (*domain.History, error) {
	var h domain.History
	err := db.WithContext(ctx).
		Joins("JOIN titles ON titles.id = histories.title_id").
		Where("histories.id = ? AND titles.user_id = ? AND titles.deleted_at IS NULL", id, userID).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq asc")
		}).
		First(&h).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// DeleteHistory removes a single history document, scoped through thread
// ownership. Its turns cascade at the schema level.
func DeleteHistory(ctx context.Context, db *gorm.DB, id, userID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND title_id IN (?)",
			id,
			db.Model(&domain.Title{}).Select("id").Where("user_id = ?", userID),
		).
		Delete(&domain.History{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListRecentTurns returns the last n turns across a thread's histories in
// chronological order. Used to build the context window for the assistant.
func ListRecentTurns(ctx context.Context, db *gorm.DB, titleID string, n int) ([]domain.HistoryMessage, error) {
	var out []domain.HistoryMessage
	err := db.WithContext(ctx).
		Joins("JOIN histories ON histories.id = history_messages.history_id").
		Where("histories.title_id = ?", titleID).
		Order("history_messages.created_at desc, history_messages.seq desc").
		Limit(n).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	// Reverse into chronological order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// CountHistories returns the number of history documents in a thread.
func CountHistories(ctx context.Context, db *gorm.DB, titleID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.History{}).
		Where("title_id = ?", titleID).
		Count(&total).Error
	return total, err
}
