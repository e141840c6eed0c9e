// Post HTTP handlers.
//
// This file exposes posts and everything hanging off them:
//   - POST   /api/posts               (create)
//   - GET    /api/posts               (list all, paginated; same data as the feed)
//   - GET    /api/posts/:id           (single post with counters)
//   - PATCH  /api/posts/:id           (author-only partial edit)
//   - DELETE /api/posts/:id           (author-only)
//   - POST   /api/posts/:id/like      (toggle)
//   - POST   /api/posts/:id/save      (toggle bookmark)
//   - POST   /api/posts/:id/comments  (comment)
//   - GET    /api/posts/:id/comments  (list comments)
//   - GET    /api/feeds               (enriched feed, paginated)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pirinku/go-recipe-backend/internal/services"
)

// CreatePostRequest is the JSON payload for creating a post.
type CreatePostRequest struct {
	Content  string `json:"content"   binding:"required" example:"Grandma's byrek, step by step"`
	ImageURL string `json:"image_url" example:"https://cdn.example.com/pirinku/byrek.jpg"`
}

// UpdatePostRequest is the partial-edit payload. Absent fields stay untouched.
type UpdatePostRequest struct {
	Content  *string `json:"content,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
}

// CommentRequest is the JSON payload for commenting on a post.
type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// LikeResult is the payload of the like toggle.
type LikeResult struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

// SaveResult is the payload of the bookmark toggle.
type SaveResult struct {
	Saved bool `json:"saved"`
}

// FeedResponse wraps a page of enriched posts with pagination metadata and the
// viewer's own header info, so the client can render the feed in one request.
type FeedResponse struct {
	Posts      []services.PostView `json:"posts"`
	Pagination Pagination          `json:"pagination"`
	Viewer     *services.Profile   `json:"viewer,omitempty"`
}

// CreatePost godoc
// @ID          createPost
// @Summary     Create a post
// @Tags        Posts
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.CreatePostRequest  true  "Post payload"
// @Success     201  {object}  handlers.Response
// @Failure     400  {object}  handlers.Response
// @Router      /posts [post]
func (h *Handlers) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content is required")
		return
	}

	p, err := h.posts.Create(c.Request.Context(), userID(c), req.Content, req.ImageURL)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusCreated, "post created", p)
}

// ListPosts godoc
// @ID          listPosts
// @Summary     List all posts (paginated)
// @Tags        Posts
// @Produce     json
// @Param       page       query  int  false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false  "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.Response{data=handlers.FeedResponse}
// @Router      /posts [get]
func (h *Handlers) ListPosts(c *gin.Context) {
	page, pageSize := clampPagination(c)
	posts, total, err := h.posts.Feed(c.Request.Context(), userID(c), page, pageSize)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "posts retrieved", FeedResponse{
		Posts:      posts,
		Pagination: newPagination(page, pageSize, total),
	})
}

// GetPost godoc
// @ID          getPost
// @Summary     Get a single post
// @Tags        Posts
// @Produce     json
// @Param       id  path  string  true  "Post ID"
// @Success     200  {object}  handlers.Response
// @Failure     404  {object}  handlers.Response  "Post not found"
// @Router      /posts/{id} [get]
func (h *Handlers) GetPost(c *gin.Context) {
	p, err := h.posts.Get(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "post retrieved", p)
}

// UpdatePost godoc
// @ID          updatePost
// @Summary     Edit a post (author only)
// @Tags        Posts
// @Accept      json
// @Produce     json
// @Param       id    path  string  true  "Post ID"
// @Param       body  body  handlers.UpdatePostRequest  true  "Fields to change"
// @Success     200  {object}  handlers.Response
// @Failure     403  {object}  handlers.Response  "Not the author"
// @Failure     404  {object}  handlers.Response  "Post not found"
// @Router      /posts/{id} [patch]
func (h *Handlers) UpdatePost(c *gin.Context) {
	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	p, err := h.posts.Update(c.Request.Context(), c.Param("id"), userID(c), req.Content, req.ImageURL)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "post updated", p)
}

// DeletePost godoc
// @ID          deletePost
// @Summary     Delete a post (author only)
// @Tags        Posts
// @Produce     json
// @Param       id  path  string  true  "Post ID"
// @Success     200  {object}  handlers.Response
// @Failure     403  {object}  handlers.Response  "Not the author"
// @Failure     404  {object}  handlers.Response  "Post not found"
// @Router      /posts/{id} [delete]
func (h *Handlers) DeletePost(c *gin.Context) {
	if err := h.posts.Delete(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "post deleted", nil)
}

// LikePost godoc
// @ID          likePost
// @Summary     Toggle a like
// @Tags        Posts
// @Produce     json
// @Param       id  path  string  true  "Post ID"
// @Success     200  {object}  handlers.Response{data=handlers.LikeResult}
// @Failure     404  {object}  handlers.Response  "Post not found"
// @Router      /posts/{id}/like [post]
func (h *Handlers) LikePost(c *gin.Context) {
	liked, likes, err := h.posts.ToggleLike(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	msg := "like removed"
	if liked {
		msg = "post liked"
	}
	ok(c, http.StatusOK, msg, LikeResult{Liked: liked, LikesCount: likes})
}

// SavePost godoc
// @ID          savePost
// @Summary     Toggle a bookmark
// @Tags        Posts
// @Produce     json
// @Param       id  path  string  true  "Post ID"
// @Success     200  {object}  handlers.Response{data=handlers.SaveResult}
// @Failure     404  {object}  handlers.Response  "Post not found"
// @Router      /posts/{id}/save [post]
func (h *Handlers) SavePost(c *gin.Context) {
	saved, err := h.posts.ToggleSave(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	msg := "bookmark removed"
	if saved {
		msg = "post saved"
	}
	ok(c, http.StatusOK, msg, SaveResult{Saved: saved})
}

// CommentPost godoc
// @ID          commentPost
// @Summary     Comment on a post
// @Tags        Posts
// @Accept      json
// @Produce     json
// @Param       id    path  string  true  "Post ID"
// @Param       body  body  handlers.CommentRequest  true  "Comment payload"
// @Success     201  {object}  handlers.Response
// @Failure     404  {object}  handlers.Response  "Post not found"
// @Router      /posts/{id}/comments [post]
func (h *Handlers) CommentPost(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content is required")
		return
	}

	cm, err := h.posts.AddComment(c.Request.Context(), c.Param("id"), userID(c), req.Content)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusCreated, "comment added", cm)
}

// ListPostComments godoc
// @ID          listPostComments
// @Summary     List a post's comments
// @Tags        Posts
// @Produce     json
// @Param       id  path  string  true  "Post ID"
// @Success     200  {object}  handlers.Response
// @Failure     404  {object}  handlers.Response  "Post not found"
// @Router      /posts/{id}/comments [get]
func (h *Handlers) ListPostComments(c *gin.Context) {
	comments, err := h.posts.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "comments retrieved", comments)
}

// Feed godoc
// @ID          feed
// @Summary     Get the enriched feed
// @Description Newest posts first with author info, like/comment counts, the viewer's like/save state, and the viewer's own header info.
// @Tags        Feed
// @Produce     json
// @Param       page       query  int  false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false  "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.Response{data=handlers.FeedResponse}
// @Router      /feeds [get]
func (h *Handlers) Feed(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)
	page, pageSize := clampPagination(c)

	posts, total, err := h.posts.Feed(ctx, uid, page, pageSize)
	if err != nil {
		failFromErr(c, err)
		return
	}
	resp := FeedResponse{
		Posts:      posts,
		Pagination: newPagination(page, pageSize, total),
	}
	// Viewer header info is best effort; the feed itself matters more.
	if viewer, err := h.accounts.GetProfile(ctx, uid); err == nil {
		resp.Viewer = viewer
	}
	ok(c, http.StatusOK, "feed retrieved", resp)
}
