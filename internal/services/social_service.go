// Package services – SocialService
//
// This file implements the SocialService, which manages the follow graph and
// public user profiles: toggling follow edges, follower/following counts, and
// the "is the viewer following this user" flag on profile reads.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pirinku/go-recipe-backend/internal/domain"
	"github.com/pirinku/go-recipe-backend/internal/repo"
)

// SocialService provides follow-graph operations and public profile reads.
type SocialService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// PublicProfile is another user's profile as seen by the viewer.
type PublicProfile struct {
	User           domain.User `json:"user"`
	FollowersCount int64       `json:"followers_count"`
	FollowingCount int64       `json:"following_count"`
	PostsCount     int64       `json:"posts_count"`
	IsFollowing    bool        `json:"is_following"`
}

// ToggleFollow flips the follow edge viewer -> target and reports the
// resulting state with a fresh follower count for the target.
func (s *SocialService) ToggleFollow(ctx context.Context, viewerID, targetID string) (following bool, followers int64, err error) {
	if viewerID == targetID {
		return false, 0, ErrSelfFollow
	}
	if _, err = repo.GetUserByID(ctx, s.DB, targetID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, 0, ErrUserNotFound
		}
		return false, 0, err
	}
	following, err = repo.ToggleFollow(ctx, s.DB, viewerID, targetID)
	if err != nil {
		return false, 0, err
	}
	followers, err = repo.CountFollowers(ctx, s.DB, targetID)
	return following, followers, err
}

// GetPublicProfile returns targetID's profile as seen by viewerID.
func (s *SocialService) GetPublicProfile(ctx context.Context, targetID, viewerID string) (*PublicProfile, error) {
	u, err := repo.GetUserByID(ctx, s.DB, targetID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	followers, err := repo.CountFollowers(ctx, s.DB, targetID)
	if err != nil {
		return nil, err
	}
	following, err := repo.CountFollowing(ctx, s.DB, targetID)
	if err != nil {
		return nil, err
	}
	var posts int64
	if err := s.DB.WithContext(ctx).Model(&domain.Post{}).Where("user_id = ?", targetID).Count(&posts).Error; err != nil {
		return nil, err
	}
	p := &PublicProfile{
		User:           *u,
		FollowersCount: followers,
		FollowingCount: following,
		PostsCount:     posts,
	}
	if viewerID != "" && viewerID != targetID {
		if p.IsFollowing, err = repo.IsFollowing(ctx, s.DB, viewerID, targetID); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// ListFollowers returns the users following targetID.
func (s *SocialService) ListFollowers(ctx context.Context, targetID string) ([]domain.User, error) {
	ids, err := repo.ListFollowerIDs(ctx, s.DB, targetID)
	if err != nil {
		return nil, err
	}
	return s.loadUsers(ctx, ids)
}

// ListFollowing returns the users targetID follows.
func (s *SocialService) ListFollowing(ctx context.Context, targetID string) ([]domain.User, error) {
	ids, err := repo.ListFollowingIDs(ctx, s.DB, targetID)
	if err != nil {
		return nil, err
	}
	return s.loadUsers(ctx, ids)
}

func (s *SocialService) loadUsers(ctx context.Context, ids []string) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}
	var out []domain.User
	err := s.DB.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, err
}
