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

// LikeHandler handles liking and unliking published posts.
type LikeHandler struct {
	DB *gorm.DB
}

func NewLikeHandler(db *gorm.DB) *LikeHandler {
	return &LikeHandler{DB: db}
}

// Like records a like for the current user.
// POST /auth/user/post/like/:slug
func (h *LikeHandler) Like(c *gin.Context) {
	principal := middleware.CurrentUser(c)

	var post models.Post
	err := h.DB.Where("slug = ? AND published = ?", c.Param("slug"), true).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.Fail(c, http.StatusNotFound, "Post not found!")
		return
	}
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	like := models.Like{UserID: principal.ID, PostID: post.ID}
	if err := h.DB.Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			util.Fail(c, http.StatusConflict, "You've already liked this post!")
			return
		}
		util.Fail(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	util.OK(c, "Successfully liked post", nil)
}

// Unlike removes the current user's like.
// DELETE /auth/user/post/like/:slug
func (h *LikeHandler) Unlike(c *gin.Context) {
	principal := middleware.CurrentUser(c)

	var post models.Post
	err := h.DB.Where("slug = ?", c.Param("slug")).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.Fail(c, http.StatusNotFound, "Post not found!")
		return
	}
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	res := h.DB.Where("user_id = ? AND post_id = ?", principal.ID, post.ID).
		Delete(&models.Like{})
	if res.Error != nil {
		util.Fail(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}
	if res.RowsAffected == 0 {
		util.Fail(c, http.StatusNotFound, "You haven't liked this post!")
		return
	}

	util.OK(c, "Successfully unliked post", nil)
}
