// User HTTP handlers.
//
// This file exposes other users' public profiles and the follow toggle:
//   - GET  /api/users/:id         (public profile as seen by the viewer)
//   - POST /api/users/:id/follow  (toggle follow; reports resulting state)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FollowResult is the payload of the follow toggle.
type FollowResult struct {
	Following      bool  `json:"following"`
	FollowersCount int64 `json:"followers_count"`
}

// GetUser godoc
// @ID          getUser
// @Summary     Get another user's profile
// @Description Includes follower/following/post counts and whether the viewer follows them.
// @Tags        Users
// @Produce     json
// @Param       id  path  string  true  "User ID"
// @Success     200  {object}  handlers.Response
// @Failure     404  {object}  handlers.Response  "User not found"
// @Router      /users/{id} [get]
func (h *Handlers) GetUser(c *gin.Context) {
	p, err := h.social.GetPublicProfile(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "user retrieved", p)
}

// FollowUser godoc
// @ID          followUser
// @Summary     Toggle following a user
// @Description Follows when not following, unfollows otherwise. Idempotent per state.
// @Tags        Users
// @Produce     json
// @Param       id  path  string  true  "User ID"
// @Success     200  {object}  handlers.Response{data=handlers.FollowResult}
// @Failure     400  {object}  handlers.Response  "Cannot follow yourself"
// @Failure     404  {object}  handlers.Response  "User not found"
// @Router      /users/{id}/follow [post]
func (h *Handlers) FollowUser(c *gin.Context) {
	following, followers, err := h.social.ToggleFollow(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failFromErr(c, err)
		return
	}
	msg := "unfollowed"
	if following {
		msg = "followed"
	}
	ok(c, http.StatusOK, msg, FollowResult{Following: following, FollowersCount: followers})
}
