package handler

import (
	"errors"
	"net/http"

	"hacktivity/internal/middleware"
	"hacktivity/internal/models"
	"hacktivity/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProfileHandler manages the zero-or-one profile of the current user.
type ProfileHandler struct {
	DB *gorm.DB
}

func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{DB: db}
}

// The pointer distinguishes an absent bio (allowed on create, a no-op on
// update) from an explicit empty string, which fails the length rule.
type profileReq struct {
	Bio *string `json:"bio" binding:"omitempty,min=5,max=512"`
}

// Create adds a profile for the current user.
// POST /account/profile
func (h *ProfileHandler) Create(c *gin.Context) {
	principal := middleware.CurrentUser(c)

	var req profileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest,
			"Please ensure all required fields are filled in with valid data. If issues persist, contact support.")
		return
	}

	profile := models.Profile{
		UserID: principal.ID,
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if err := h.DB.Create(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			util.Fail(c, http.StatusConflict, "You already have a profile!")
			return
		}
		util.Fail(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	util.OK(c, "Your profile has been created!", nil)
}

// Get returns the current user's profile.
// GET /account/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	principal := middleware.CurrentUser(c)

	var profile models.Profile
	err := h.DB.Where("user_id = ?", principal.ID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.Fail(c, http.StatusNotFound, "Couldn't find profile")
		return
	}
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	util.OK(c, "Successfully fetched profile", gin.H{
		"profile": gin.H{
			"bio": profile.Bio,
		},
	})
}

// Update changes the profile bio.
// PUT|PATCH /account/profile
func (h *ProfileHandler) Update(c *gin.Context) {
	principal := middleware.CurrentUser(c)

	var req profileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest,
			"Please ensure all required fields are filled in with valid data. If issues persist, contact support.")
		return
	}
	if req.Bio == nil {
		util.Fail(c, http.StatusBadRequest, "No changes were made!")
		return
	}

	res := h.DB.Model(&models.Profile{}).
		Where("user_id = ?", principal.ID).
		Update("bio", *req.Bio)
	if res.Error != nil {
		util.Fail(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}
	if res.RowsAffected == 0 {
		util.Fail(c, http.StatusNotFound, "Couldn't find profile")
		return
	}

	util.OK(c, "Successfully updated profile", nil)
}

// Delete removes the profile.
// DELETE /account/profile
func (h *ProfileHandler) Delete(c *gin.Context) {
	principal := middleware.CurrentUser(c)

	res := h.DB.Where("user_id = ?", principal.ID).Delete(&models.Profile{})
	if res.Error != nil {
		util.Fail(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}
	if res.RowsAffected == 0 {
		util.Fail(c, http.StatusNotFound, "Couldn't find profile")
		return
	}

	util.OK(c, "Successfully deleted profile", nil)
}
