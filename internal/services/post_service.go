// Package services – PostService
//
// This file implements the PostService, which manages posts and everything
// hanging off them: the paginated feed, per-post like/comment counters, the
// like and save toggles, and comments. Responses are composed into PostView
// values so handlers never assemble counters themselves.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/pirinku/go-recipe-backend/internal/domain"
	"github.com/pirinku/go-recipe-backend/internal/repo"
)

// PostService provides post CRUD, feed pagination, social toggles, and
// comments.
type PostService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// MaxContentRunes caps post and comment bodies by rune length.
	// Zero means 5000.
	MaxContentRunes int
}

// PostView is a post enriched with author info, counters, and the viewer's
// own like/save state.
type PostView struct {
	domain.Post
	AuthorUsername string `json:"author_username"`
	AuthorAvatar   string `json:"author_avatar,omitempty"`
	LikesCount     int64  `json:"likes_count"`
	CommentsCount  int64  `json:"comments_count"`
	Liked          bool   `json:"liked"`
	Saved          bool   `json:"saved"`
}

// Create inserts a new post authored by userID.
func (s *PostService) Create(ctx context.Context, userID, content, imageURL string) (*domain.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > s.maxContent() {
		return nil, ErrTooLong
	}
	return repo.CreatePost(ctx, s.DB, userID, content, strings.TrimSpace(imageURL))
}

// Get returns a single post as seen by viewerID.
func (s *PostService) Get(ctx context.Context, postID, viewerID string) (*PostView, error) {
	p, err := repo.GetPost(ctx, s.DB, postID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	views, err := s.enrich(ctx, []domain.Post{*p}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Feed returns a page of all posts, newest first, with the total for
// pagination metadata. Invalid page/pageSize fall back to defaults.
func (s *PostService) Feed(ctx context.Context, viewerID string, page, pageSize int) ([]PostView, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountPosts(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []PostView{}, 0, nil
	}
	posts, err := repo.ListFeedPage(ctx, s.DB, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.enrich(ctx, posts, viewerID)
	return views, total, err
}

// ListByUser returns all posts authored by userID, newest first.
func (s *PostService) ListByUser(ctx context.Context, userID, viewerID string) ([]PostView, error) {
	posts, err := repo.ListUserPosts(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, posts, viewerID)
}

// ListSaved returns the viewer's bookmarked posts, most recently saved first.
func (s *PostService) ListSaved(ctx context.Context, viewerID string) ([]PostView, error) {
	posts, err := repo.ListSavedPosts(ctx, s.DB, viewerID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, posts, viewerID)
}

// Update edits a post's content and/or image. Only the author may edit;
// attempts by others return ErrForbidden. Nil pointers leave a field
// untouched.
func (s *PostService) Update(ctx context.Context, postID, userID string, content, imageURL *string) (*domain.Post, error) {
	p, err := repo.GetPost(ctx, s.DB, postID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if p.UserID != userID {
		return nil, ErrForbidden
	}

	fields := map[string]any{}
	if content != nil {
		v := strings.TrimSpace(*content)
		if v == "" {
			return nil, ErrEmptyContent
		}
		if utf8.RuneCountInString(v) > s.maxContent() {
			return nil, ErrTooLong
		}
		fields["content"] = v
	}
	if imageURL != nil {
		fields["image_url"] = strings.TrimSpace(*imageURL)
	}
	if len(fields) > 0 {
		if err := repo.UpdatePost(ctx, s.DB, postID, userID, fields); err != nil {
			return nil, err
		}
	}
	return repo.GetPost(ctx, s.DB, postID)
}

// Delete removes a post. Only the author may delete; attempts by others
// return ErrForbidden.
func (s *PostService) Delete(ctx context.Context, postID, userID string) error {
	p, err := repo.GetPost(ctx, s.DB, postID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if p.UserID != userID {
		return ErrForbidden
	}
	return repo.DeletePost(ctx, s.DB, postID, userID)
}

// ToggleLike flips the viewer's like on a post and returns the resulting
// state and fresh count.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID string) (liked bool, likes int64, err error) {
	if _, err = repo.GetPost(ctx, s.DB, postID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, 0, ErrPostNotFound
		}
		return false, 0, err
	}
	liked, err = repo.ToggleLike(ctx, s.DB, postID, userID)
	if err != nil {
		return false, 0, err
	}
	likes, err = repo.CountLikes(ctx, s.DB, postID)
	return liked, likes, err
}

// ToggleSave flips the viewer's bookmark on a post and returns the resulting
// state.
func (s *PostService) ToggleSave(ctx context.Context, postID, userID string) (bool, error) {
	if _, err := repo.GetPost(ctx, s.DB, postID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, ErrPostNotFound
		}
		return false, err
	}
	return repo.ToggleSave(ctx, s.DB, postID, userID)
}

// AddComment appends a comment to a post.
func (s *PostService) AddComment(ctx context.Context, postID, userID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > s.maxContent() {
		return nil, ErrTooLong
	}
	if _, err := repo.GetPost(ctx, s.DB, postID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return repo.CreateComment(ctx, s.DB, postID, userID, content)
}

// ListMyComments returns every comment the user has left, newest first.
func (s *PostService) ListMyComments(ctx context.Context, userID string) ([]domain.Comment, error) {
	return repo.ListUserComments(ctx, s.DB, userID)
}

// ListComments returns all comments on a post, oldest first.
func (s *PostService) ListComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	if _, err := repo.GetPost(ctx, s.DB, postID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return repo.ListComments(ctx, s.DB, postID)
}

// enrich composes PostViews: author fields plus counters plus the viewer's
// like/save state. The feed page is small (<= pageSize), so per-post count
// queries are acceptable at this scale.
func (s *PostService) enrich(ctx context.Context, posts []domain.Post, viewerID string) ([]PostView, error) {
	views := make([]PostView, 0, len(posts))
	authors := map[string]*domain.User{}
	for _, p := range posts {
		v := PostView{Post: p}

		author, ok := authors[p.UserID]
		if !ok {
			var err error
			author, err = repo.GetUserByID(ctx, s.DB, p.UserID)
			if err != nil && !errors.Is(err, repo.ErrNotFound) {
				return nil, err
			}
			authors[p.UserID] = author
		}
		if author != nil {
			v.AuthorUsername = author.Username
			v.AuthorAvatar = author.Avatar
		}

		var err error
		if v.LikesCount, err = repo.CountLikes(ctx, s.DB, p.ID); err != nil {
			return nil, err
		}
		if v.CommentsCount, err = repo.CountComments(ctx, s.DB, p.ID); err != nil {
			return nil, err
		}
		if viewerID != "" {
			if v.Liked, err = repo.HasLiked(ctx, s.DB, p.ID, viewerID); err != nil {
				return nil, err
			}
			if v.Saved, err = repo.HasSaved(ctx, s.DB, p.ID, viewerID); err != nil {
				return nil, err
			}
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *PostService) maxContent() int {
	if s.MaxContentRunes > 0 {
		return s.MaxContentRunes
	}
	return 5000
}
