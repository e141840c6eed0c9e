// Profile HTTP handlers.
//
// This file exposes the authenticated user's own corner of the API:
//   - GET    /api/profile              (own profile with counts)
//   - PATCH  /api/profile              (partial update: full name, bio, avatar)
//   - GET    /api/profile/followers
//   - GET    /api/profile/following
//   - GET    /api/profile/my-posts
//   - GET    /api/profile/my-comments
//   - GET    /api/profile/saved-posts
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UpdateProfileRequest is the JSON payload for PATCH /api/profile. Absent
// fields are left untouched.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
}

// GetProfile godoc
// @ID          getProfile
// @Summary     Get own profile
// @Tags        Profile
// @Produce     json
// @Success     200  {object}  handlers.Response
// @Failure     401  {object}  handlers.Response
// @Router      /profile [get]
func (h *Handlers) GetProfile(c *gin.Context) {
	p, err := h.accounts.GetProfile(c.Request.Context(), userID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "profile retrieved", p)
}

// UpdateProfile godoc
// @ID          updateProfile
// @Summary     Update own profile
// @Description Partial update: only the fields present in the body change.
// @Tags        Profile
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.UpdateProfileRequest  true  "Fields to change"
// @Success     200  {object}  handlers.Response
// @Failure     400  {object}  handlers.Response
// @Router      /profile [patch]
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	u, err := h.accounts.UpdateProfile(c.Request.Context(), userID(c), req.FullName, req.Bio, req.Avatar)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "profile updated", u)
}

// MyFollowers lists the users following the caller.
//
// @ID      myFollowers
// @Summary List own followers
// @Tags    Profile
// @Produce json
// @Success 200 {object} handlers.Response
// @Router  /profile/followers [get]
func (h *Handlers) MyFollowers(c *gin.Context) {
	users, err := h.social.ListFollowers(c.Request.Context(), userID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "followers retrieved", users)
}

// MyFollowing lists the users the caller follows.
//
// @ID      myFollowing
// @Summary List accounts the caller follows
// @Tags    Profile
// @Produce json
// @Success 200 {object} handlers.Response
// @Router  /profile/following [get]
func (h *Handlers) MyFollowing(c *gin.Context) {
	users, err := h.social.ListFollowing(c.Request.Context(), userID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "following retrieved", users)
}

// MyPosts lists the caller's own posts, newest first.
//
// @ID      myPosts
// @Summary List own posts
// @Tags    Profile
// @Produce json
// @Success 200 {object} handlers.Response
// @Router  /profile/my-posts [get]
func (h *Handlers) MyPosts(c *gin.Context) {
	uid := userID(c)
	posts, err := h.posts.ListByUser(c.Request.Context(), uid, uid)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "posts retrieved", posts)
}

// MyComments lists every comment the caller has left, newest first.
//
// @ID      myComments
// @Summary List own comments
// @Tags    Profile
// @Produce json
// @Success 200 {object} handlers.Response
// @Router  /profile/my-comments [get]
func (h *Handlers) MyComments(c *gin.Context) {
	comments, err := h.posts.ListMyComments(c.Request.Context(), userID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "comments retrieved", comments)
}

// SavedPosts lists the caller's bookmarked posts, most recently saved first.
//
// @ID      savedPosts
// @Summary List saved posts
// @Tags    Profile
// @Produce json
// @Success 200 {object} handlers.Response
// @Router  /profile/saved-posts [get]
func (h *Handlers) SavedPosts(c *gin.Context) {
	posts, err := h.posts.ListSaved(c.Request.Context(), userID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "saved posts retrieved", posts)
}
