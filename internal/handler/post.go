package handler

import (
	"errors"
	"net/http"

	"hacktivity/internal/middleware"
	"hacktivity/internal/models"
	"hacktivity/internal/slug"
	"hacktivity/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PostHandler covers authoring endpoints plus the public browse surface.
type PostHandler struct {
	DB    *gorm.DB
	Slugs *slug.Allocator
}

func NewPostHandler(db *gorm.DB, slugs *slug.Allocator) *PostHandler {
	return &PostHandler{DB: db, Slugs: slugs}
}

type postReq struct {
	Title   string `json:"title" binding:"required,min=5,max=255"`
	Content string `json:"content" binding:"required,min=5"`
}

type postResp struct {
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Content string `json:"content"`
	Likes   int    `json:"likes"`
}

// Create publishes a new post. A profile is required before posting.
// POST /auth/user/post/me
func (h *PostHandler) Create(c *gin.Context) {
	principal := middleware.CurrentUser(c)

	var count int64
	if err := h.DB.Model(&models.Profile{}).
		Where("user_id = ?", principal.ID).
		Count(&count).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}
	if count == 0 {
		util.Fail(c, http.StatusBadRequest,
			"You need to create a profile before you can create a post!")
		return
	}

	var req postReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Invalid request body!")
		return
	}

	post := models.Post{
		Title:     req.Title,
		Content:   req.Content,
		Published: true,
		AuthorID:  principal.ID,
	}
	if err := h.Slugs.Create(c.Request.Context(), &post); err != nil {
		if errors.Is(err, slug.ErrEmptySlug) {
			util.Fail(c, http.StatusBadRequest, "Invalid request body!")
			return
		}
		util.Fail(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	util.OK(c, "Successfully created post", gin.H{"slug": post.Slug})
}

// Update edits an owned post; the slug is recomputed from the new title.
// PUT|PATCH /auth/user/post/me/:slug
func (h *PostHandler) Update(c *gin.Context) {
	principal := middleware.CurrentUser(c)

	var post models.Post
	err := h.DB.Where("slug = ?", c.Param("slug")).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && post.AuthorID != principal.ID) {
		// foreign posts look exactly like missing ones
		util.Fail(c, http.StatusNotFound, "Post not found!")
		return
	}
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	var req postReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Invalid request body!")
		return
	}

	post.Content = req.Content
	if err := h.Slugs.Rename(c.Request.Context(), &post, req.Title); err != nil {
		if errors.Is(err, slug.ErrEmptySlug) {
			util.Fail(c, http.StatusBadRequest, "Invalid request body!")
			return
		}
		util.Fail(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	util.OK(c, "Successfully updated post", gin.H{"slug": post.Slug})
}

// Delete removes an owned post and its likes.
// DELETE /auth/user/post/me/:slug
func (h *PostHandler) Delete(c *gin.Context) {
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
	if post.AuthorID != principal.ID {
		util.Fail(c, http.StatusForbidden, "You are not authorized to delete this post!")
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, post.ID).Error
	})
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	util.OK(c, "Successfully deleted post", nil)
}

// ListAll returns every published post with its like count.
// GET /api/post/all
func (h *PostHandler) ListAll(c *gin.Context) {
	var posts []models.Post
	err := h.DB.Preload("Likes").
		Where("published = ?", true).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	out := make([]postResp, 0, len(posts))
	for i := range posts {
		out = append(out, postResp{
			Title:   posts[i].Title,
			Slug:    posts[i].Slug,
			Content: posts[i].Content,
			Likes:   len(posts[i].Likes),
		})
	}

	util.OK(c, "OK", out)
}

// GetSingle returns one published post by slug.
// GET /api/post/single/:slug
func (h *PostHandler) GetSingle(c *gin.Context) {
	var post models.Post
	err := h.DB.Preload("Likes").
		Where("slug = ? AND published = ?", c.Param("slug"), true).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.Fail(c, http.StatusNotFound, "Couldn't find post")
		return
	}
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	util.OK(c, "OK", postResp{
		Title:   post.Title,
		Slug:    post.Slug,
		Content: post.Content,
		Likes:   len(post.Likes),
	})
}
