// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for posts and
// comments: creation, lookup, feed pagination, per-post counters, and
// ownership-scoped update/delete.
package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pirinku/go-recipe-backend/internal/domain"
)

// CreatePost inserts a new Post row authored by userID.
func CreatePost(ctx context.Context, db *gorm.DB, userID, content, imageURL string) (*domain.Post, error) {
	p := &domain.Post{
		ID:       uuid.NewString(),
		UserID:   userID,
		Content:  content,
		ImageURL: imageURL,
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// GetPost fetches a single post by ID. Returns ErrNotFound if missing.
func GetPost(ctx context.Context, db *gorm.DB, id string) (*domain.Post, error) {
	var p domain.Post
	if err := db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListFeedPage returns a paginated slice of all posts, newest first.
// Use CountPosts to obtain the total for pagination metadata.
func ListFeedPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Post, error) {
	var out []domain.Post
	err := db.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountPosts returns the total number of posts.
func CountPosts(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Post{}).Count(&total).Error
	return total, err
}

// ListUserPosts returns all posts authored by userID, newest first.
func ListUserPosts(ctx context.Context, db *gorm.DB, userID string) ([]domain.Post, error) {
	var out []domain.Post
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// ListSavedPosts returns the posts a user has bookmarked, most recently saved
// first.
func ListSavedPosts(ctx context.Context, db *gorm.DB, userID string) ([]domain.Post, error) {
	var out []domain.Post
	err := db.WithContext(ctx).
		Joins("JOIN saved_posts ON saved_posts.post_id = posts.id").
		Where("saved_posts.user_id = ?", userID).
		Order("saved_posts.created_at desc").
		Find(&out).Error
	return out, err
}

// UpdatePost updates the content and image of a post, enforcing ownership.
// Returns ErrNotFound if the post does not exist or is not owned by userID.
func UpdatePost(ctx context.Context, db *gorm.DB, id, userID string, fields map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.Post{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeletePost soft-deletes a post, enforcing ownership. Likes, saves, and
// comments cascade at the schema level. Returns ErrNotFound if the post does
// not exist or is not owned by userID.
func DeletePost(ctx context.Context, db *gorm.DB, id, userID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateComment inserts a comment by userID on postID.
func CreateComment(ctx context.Context, db *gorm.DB, postID, userID, content string) (*domain.Comment, error) {
	c := &domain.Comment{
		ID:      uuid.NewString(),
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// ListComments returns all comments on a post, oldest first.
func ListComments(ctx context.Context, db *gorm.DB, postID string) ([]domain.Comment, error) {
	var out []domain.Comment
	err := db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}

// ListUserComments returns all comments authored by userID, newest first.
// Comments on soft-deleted posts are excluded.
func ListUserComments(ctx context.Context, db *gorm.DB, userID string) ([]domain.Comment, error) {
	var out []domain.Comment
	err := db.WithContext(ctx).
		Joins("JOIN posts ON posts.id = comments.post_id AND posts.deleted_at IS NULL").
		Where("comments.user_id = ?", userID).
		Order("comments.created_at desc").
		Find(&out).Error
	return out, err
}

// CountLikes returns the number of likes on a post.
func CountLikes(ctx context.Context, db *gorm.DB, postID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Like{}).Where("post_id = ?", postID).Count(&total).Error
	return total, err
}

// CountComments returns the number of comments on a post.
func CountComments(ctx context.Context, db *gorm.DB, postID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Comment{}).Where("post_id = ?", postID).Count(&total).Error
	return total, err
}

// HasLiked reports whether userID has liked postID.
func HasLiked(ctx context.Context, db *gorm.DB, postID, userID string) (bool, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&total).Error
	return total > 0, err
}

// HasSaved reports whether userID has bookmarked postID.
func HasSaved(ctx context.Context, db *gorm.DB, postID, userID string) (bool, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.SavedPost{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&total).Error
	return total > 0, err
}
