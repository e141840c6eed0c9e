// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Personalization model (one preference record per user).
package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pirinku/go-recipe-backend/internal/domain"
)

// GetPersonalization fetches the preference record for userID.
// Returns ErrNotFound if the user has not completed personalization.
func GetPersonalization(ctx context.Context, db *gorm.DB, userID string) (*domain.Personalization, error) {
	var p domain.Personalization
	if err := db.WithContext(ctx).First(&p, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertPersonalization creates or fully replaces the preference record for
// p.UserID. The unique index on user_id guarantees at most one row per user.
func UpsertPersonalization(ctx context.Context, db *gorm.DB, p *domain.Personalization) (*domain.Personalization, error) {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Personalization
		err := tx.First(&existing, "user_id = ?", p.UserID).Error
		switch {
		case err == nil:
			p.ID = existing.ID
			p.CreatedAt = existing.CreatedAt
			return tx.Save(p).Error
		case err == gorm.ErrRecordNotFound:
			p.ID = uuid.NewString()
			return tx.Create(p).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePersonalization applies a partial update to the preference record for
// userID. Returns ErrNotFound when the user has no record to patch.
func UpdatePersonalization(ctx context.Context, db *gorm.DB, userID string, fields map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.Personalization{}).
		Where("user_id = ?", userID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HasPersonalization reports whether userID has a preference record.
func HasPersonalization(ctx context.Context, db *gorm.DB, userID string) (bool, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Personalization{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total > 0, err
}
