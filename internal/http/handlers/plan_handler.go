// Subscription plan HTTP handlers.
//
// This file exposes the caller's subscription state:
//   - GET   /api/user/plan            (current plan)
//   - PATCH /api/user/plan/subscribe  (activate a plan)
//   - PATCH /api/user/plan/cancel     (clear the active plan)
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SubscribeRequest is the JSON payload for activating a plan. The expiry is
// RFC 3339 and must lie in the future.
type SubscribeRequest struct {
	SubscriptionType   string    `json:"subscription_type"   binding:"required" example:"premium"`
	SubscriptionExpiry time.Time `json:"subscription_expiry" binding:"required" example:"2027-01-01T00:00:00Z"`
}

// GetPlan godoc
// @ID          getPlan
// @Summary     Get own subscription plan
// @Tags        Plan
// @Produce     json
// @Success     200  {object}  handlers.Response
// @Failure     401  {object}  handlers.Response
// @Router      /user/plan [get]
func (h *Handlers) GetPlan(c *gin.Context) {
	p, err := h.accounts.GetPlan(c.Request.Context(), userID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "plan retrieved", p)
}

// Subscribe godoc
// @ID          subscribe
// @Summary     Activate a subscription plan
// @Description Re-subscribing overwrites the previous plan.
// @Tags        Plan
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.SubscribeRequest  true  "Plan type and expiry"
// @Success     200  {object}  handlers.Response
// @Failure     400  {object}  handlers.Response  "Missing type or expiry not in the future"
// @Router      /user/plan/subscribe [patch]
func (h *Handlers) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "subscription_type and subscription_expiry (RFC 3339) are required")
		return
	}

	p, err := h.accounts.Subscribe(c.Request.Context(), userID(c), req.SubscriptionType, req.SubscriptionExpiry)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "subscription activated", p)
}

// CancelPlan godoc
// @ID          cancelPlan
// @Summary     Cancel the active subscription
// @Tags        Plan
// @Produce     json
// @Success     200  {object}  handlers.Response
// @Failure     400  {object}  handlers.Response  "No active subscription"
// @Router      /user/plan/cancel [patch]
func (h *Handlers) CancelPlan(c *gin.Context) {
	p, err := h.accounts.CancelSubscription(c.Request.Context(), userID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "subscription cancelled", p)
}
