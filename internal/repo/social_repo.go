// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the social
// graph: follow edges, likes, and saved posts.
//
// The three toggle helpers (ToggleFollow, ToggleLike, ToggleSave) run inside a
// transaction: they read the current edge and insert or delete it atomically,
// returning the resulting state. The unique pair indexes on each table make a
// concurrent duplicate insert fail instead of double-writing.
package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pirinku/go-recipe-backend/internal/domain"
)

// ToggleFollow flips the follow edge followerID -> followeeID and reports the
// resulting state (true = now following).
func ToggleFollow(ctx context.Context, db *gorm.DB, followerID, followeeID string) (bool, error) {
	var following bool
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
			Delete(&domain.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			following = false
			return nil
		}
		f := &domain.Follow{
			ID:         uuid.NewString(),
			FollowerID: followerID,
			FolloweeID: followeeID,
		}
		if err := tx.Create(f).Error; err != nil {
			return err
		}
		following = true
		return nil
	})
	return following, err
}

// IsFollowing reports whether followerID follows followeeID.
func IsFollowing(ctx context.Context, db *gorm.DB, followerID, followeeID string) (bool, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&total).Error
	return total > 0, err
}

// CountFollowers returns how many users follow userID.
func CountFollowers(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Follow{}).
		Where("followee_id = ?", userID).
		Count(&total).Error
	return total, err
}

// CountFollowing returns how many users userID follows.
func CountFollowing(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Follow{}).
		Where("follower_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListFollowerIDs returns the IDs of users following userID.
func ListFollowerIDs(ctx context.Context, db *gorm.DB, userID string) ([]string, error) {
	var out []string
	err := db.WithContext(ctx).
		Model(&domain.Follow{}).
		Where("followee_id = ?", userID).
		Pluck("follower_id", &out).Error
	return out, err
}

// ListFollowingIDs returns the IDs of users userID follows.
func ListFollowingIDs(ctx context.Context, db *gorm.DB, userID string) ([]string, error) {
	var out []string
	err := db.WithContext(ctx).
		Model(&domain.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("followee_id", &out).Error
	return out, err
}

// ToggleLike flips userID's like on postID and reports the resulting state
// (true = now liked).
func ToggleLike(ctx context.Context, db *gorm.DB, postID, userID string) (bool, error) {
	var liked bool
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).
			Delete(&domain.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = false
			return nil
		}
		l := &domain.Like{
			ID:     uuid.NewString(),
			PostID: postID,
			UserID: userID,
		}
		if err := tx.Create(l).Error; err != nil {
			return err
		}
		liked = true
		return nil
	})
	return liked, err
}

// ToggleSave flips userID's bookmark on postID and reports the resulting
// state (true = now saved).
func ToggleSave(ctx context.Context, db *gorm.DB, postID, userID string) (bool, error) {
	var saved bool
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).
			Delete(&domain.SavedPost{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			saved = false
			return nil
		}
		s := &domain.SavedPost{
			ID:     uuid.NewString(),
			UserID: userID,
			PostID: postID,
		}
		if err := tx.Create(s).Error; err != nil {
			return err
		}
		saved = true
		return nil
	})
	return saved, err
}
