// Personalization HTTP handlers.
//
// This file exposes the recipe-preference record:
//   - GET   /api/personalization               (read own preferences)
//   - POST  /api/personalization               (create or replace the record)
//   - PATCH /api/personalization               (partial update; absent arrays
//     are left untouched)
//   - GET   /api/personalization/check         (onboarding exists-check)
//   - GET   /api/personalization/static/:list  (public onboarding option lists)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pirinku/go-recipe-backend/internal/services"
)

// PersonalizationCheck is the payload of the onboarding exists-check.
type PersonalizationCheck struct {
	Personalized bool `json:"personalized"`
}

// GetPersonalization godoc
// @ID          getPersonalization
// @Summary     Get own preferences
// @Tags        Personalization
// @Produce     json
// @Success     200  {object}  handlers.Response
// @Failure     404  {object}  handlers.Response  "No preferences saved yet"
// @Router      /personalization [get]
func (h *Handlers) GetPersonalization(c *gin.Context) {
	p, err := h.prefs.Get(c.Request.Context(), userID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "personalization retrieved", p)
}

// SavePersonalization godoc
// @ID          savePersonalization
// @Summary     Create or replace preferences
// @Description The record is replaced whole; always submit the full set of tag arrays.
// @Tags        Personalization
// @Accept      json
// @Produce     json
// @Param       body  body  services.PreferenceInput  true  "Full preference set"
// @Success     200  {object}  handlers.Response
// @Router      /personalization [post]
func (h *Handlers) SavePersonalization(c *gin.Context) {
	var req services.PreferenceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	p, err := h.prefs.Save(c.Request.Context(), userID(c), req)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "personalization saved", p)
}

// PatchPersonalization godoc
// @ID          patchPersonalization
// @Summary     Partially update preferences
// @Description Only the arrays present in the body change; create the record with POST first.
// @Tags        Personalization
// @Accept      json
// @Produce     json
// @Param       body  body  services.PreferencePatch  true  "Arrays to change"
// @Success     200  {object}  handlers.Response
// @Failure     400  {object}  handlers.Response  "Empty patch"
// @Failure     404  {object}  handlers.Response  "No preferences saved yet"
// @Router      /personalization [patch]
func (h *Handlers) PatchPersonalization(c *gin.Context) {
	var req services.PreferencePatch
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	p, err := h.prefs.Patch(c.Request.Context(), userID(c), req)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "personalization updated", p)
}

// CheckPersonalization godoc
// @ID          checkPersonalization
// @Summary     Check whether preferences exist
// @Description Used by clients to decide whether to show the onboarding flow.
// @Tags        Personalization
// @Produce     json
// @Success     200  {object}  handlers.Response{data=handlers.PersonalizationCheck}
// @Router      /personalization/check [get]
func (h *Handlers) CheckPersonalization(c *gin.Context) {
	has, err := h.prefs.Has(c.Request.Context(), userID(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, "personalization checked", PersonalizationCheck{Personalized: has})
}

// PreferenceOption is one entry of a static onboarding option list.
type PreferenceOption struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

// Static option lists shown during onboarding. Served without auth so the app
// can render the picker before sign-in.
var preferenceOptions = map[string][]PreferenceOption{
	"favorite-cuisines": {
		{ID: "64a7f1b2c3d4e5f678901234", Name: "Indonesia", ImageURL: "https://res.cloudinary.com/dy4hqxkv1/image/upload/v1769855258/image_39_alba4b.png"},
		{ID: "64a7f1b2c3d4e5f678901235", Name: "Italian", ImageURL: "https://res.cloudinary.com/dy4hqxkv1/image/upload/v1769855258/image_41_xnu43g.png"},
		{ID: "64a7f1b2c3d4e5f678901236", Name: "Japan", ImageURL: "https://res.cloudinary.com/dy4hqxkv1/image/upload/v1769855258/image_42_oqkt9d.png"},
		{ID: "64a7f1b2c3d4e5f678901237", Name: "Korean", ImageURL: "https://res.cloudinary.com/dy4hqxkv1/image/upload/v1769855258/image_43_hobjg7.png"},
		{ID: "64a7f1b2c3d4e5f678901238", Name: "Chinese", ImageURL: "https://res.cloudinary.com/dy4hqxkv1/image/upload/v1769855258/Group_427318916_fd3lv4.png"},
		{ID: "64a7f1b2c3d4e5f678901239", Name: "Thailand", ImageURL: "https://res.cloudinary.com/dy4hqxkv1/image/upload/v1769855258/Group_427318917_dc9ama.png"},
	},
	"taste-preferences": {
		{ID: "64a7f3b2c3d4e5f678901251", Name: "Too Spicy", ImageURL: "https://res.cloudinary.com/dy4hqxkv1/image/upload/v1769855455/image_47_yzmcs1.png"},
		{ID: "64a7f3b2c3d4e5f678901252", Name: "Strong Spices / Herbs", ImageURL: "https://res.cloudinary.com/dy4hqxkv1/image/upload/v1769855456/image_48_ziucdn.png"},
		{ID: "64a7f3b2c3d4e5f678901253", Name: "Too Sweet", ImageURL: "https://res.cloudinary.com/dy4hqxkv1/image/upload/v1769855457/image_49_cxw1gi.png"},
		{ID: "64a7f3b2c3d4e5f678901254", Name: "Too Salty", ImageURL: "https://res.cloudinary.com/dy4hqxkv1/image/upload/v1769855458/image_50_lk4hcj.png"},
		{ID: "64a7f3b2c3d4e5f678901255", Name: "Bitter Taste", ImageURL: "https://res.cloudinary.com/dy4hqxkv1/image/upload/v1769855459/image_65_tbbplk.png"},
		{ID: "64a7f3b2c3d4e5f678901256", Name: "Sour / Acidic", ImageURL: "https://res.cloudinary.com/dy4hqxkv1/image/upload/v1769855459/image_52_vk2t3i.png"},
	},
	"food-allergies": {
		{ID: "64a7f2b2c3d4e5f678901241", Name: "Peanuts", ImageURL: "https://res.cloudinary.com/dy4hqxkv1/image/upload/v1769855396/image_54_fkn8ep.png"},
		{ID: "64a7f2b2c3d4e5f678901242", Name: "Seafood", ImageURL: "https://res.cloudinary.com/dy4hqxkv1/image/upload/v1769855396/image_54_fkn8ep.png"},
		{ID: "64a7f2b2c3d4e5f678901243", Name: "Dairy / Lactose", ImageURL: "https://res.cloudinary.com/dy4hqxkv1/image/upload/v1769855396/image_57_nqagm5.png"},
		{ID: "64a7f2b2c3d4e5f678901244", Name: "Gluten", ImageURL: "https://res.cloudinary.com/dy4hqxkv1/image/upload/v1769855396/image_58_gxbmhs.png"},
	},
	"whats-in-your-kitchen": {
		{ID: "64a7f4b2c3d4e5f678901261", Name: "Pressure cooker", ImageURL: "https://res.cloudinary.com/dy4hqxkv1/image/upload/v1769855552/image_59_xol2cz.png"},
		{ID: "64a7f4b2c3d4e5f678901262", Name: "Oven", ImageURL: "https://res.cloudinary.com/dy4hqxkv1/image/upload/v1769855552/image_60_pwsncx.png"},
		{ID: "64a7f4b2c3d4e5f678901263", Name: "Air Fryer", ImageURL: "https://res.cloudinary.com/dy4hqxkv1/image/upload/v1769855553/image_61_fvkt3h.png"},
		{ID: "64a7f4b2c3d4e5f678901264", Name: "Microwave", ImageURL: "https://res.cloudinary.com/dy4hqxkv1/image/upload/v1769855554/image_62_f07pua.png"},
		{ID: "64a7f4b2c3d4e5f678901265", Name: "Steamer", ImageURL: "https://res.cloudinary.com/dy4hqxkv1/image/upload/v1769855556/image_63_fdjtgr.png"},
		{ID: "64a7f4b2c3d4e5f678901266", Name: "Chopper", ImageURL: "https://res.cloudinary.com/dy4hqxkv1/image/upload/v1769855556/image_64_poncd0.png"},
		{ID: "64a7f4b2c3d4e5f678901267", Name: "Mixer", ImageURL: "https://res.cloudinary.com/dy4hqxkv1/image/upload/v1769855557/image_66_ssx28b.png"},
		{ID: "64a7f4b2c3d4e5f678901268", Name: "Grill Pan", ImageURL: "https://res.cloudinary.com/dy4hqxkv1/image/upload/v1769855558/image_67_c4njti.png"},
	},
}

// PersonalizationOptions godoc
// @ID          personalizationOptions
// @Summary     Get a static onboarding option list
// @Description Lists: favorite-cuisines, taste-preferences, food-allergies, whats-in-your-kitchen.
// @Tags        Personalization
// @Produce     json
// @Param       list  path  string  true  "Option list name"
// @Success     200  {object}  handlers.Response
// @Failure     404  {object}  handlers.Response  "Unknown list"
// @Router      /personalization/static/{list} [get]
func (h *Handlers) PersonalizationOptions(c *gin.Context) {
	opts, found := preferenceOptions[c.Param("list")]
	if !found {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "unknown option list")
		return
	}
	ok(c, http.StatusOK, "options retrieved", opts)
}
