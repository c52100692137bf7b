package handler

import (
	"errors"
	"net/http"
	"strings"

	"hacktivity/internal/auth"
	"hacktivity/internal/middleware"
	"hacktivity/internal/models"
	"hacktivity/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserHandler serves the authenticated account endpoints under /auth/user/me.
type UserHandler struct {
	DB       *gorm.DB
	Verifier *auth.Verifier
	Sessions *auth.SessionManager
}

func NewUserHandler(db *gorm.DB, verifier *auth.Verifier, sessions *auth.SessionManager) *UserHandler {
	return &UserHandler{
		DB:       db,
		Verifier: verifier,
		Sessions: sessions,
	}
}

type updateUserReq struct {
	Name     string `json:"name" binding:"omitempty,max=64"`
	Username string `json:"username" binding:"omitempty,alphanum,min=3,max=30"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=8"`
}

// Me returns the current account without internal or secret fields.
// GET /auth/user/me
func (h *UserHandler) Me(c *gin.Context) {
	principal := middleware.CurrentUser(c)
	if principal == nil {
		util.Fail(c, http.StatusUnauthorized, "You need to be logged in to do that.")
		return
	}

	util.OK(c, "OK", gin.H{
		"user": gin.H{
			"name":     principal.Name,
			"username": principal.Username,
			"email":    principal.Email,
		},
	})
}

// UpdateMe updates name, username, email and/or password.
// PUT|PATCH /auth/user/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	principal := middleware.CurrentUser(c)
	if principal == nil {
		util.Fail(c, http.StatusUnauthorized, "You need to be logged in to do that.")
		return
	}

	var req updateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Invalid request body!")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if req.Name == "" && req.Username == "" && req.Email == "" && req.Password == "" {
		util.Fail(c, http.StatusBadRequest, "No changes were made!")
		return
	}

	if req.Username != "" || req.Email != "" {
		var count int64
		err := h.DB.Model(&models.User{}).
			Where("id <> ?", principal.ID).
			Where("username = ? OR email = ?", req.Username, req.Email).
			Count(&count).Error
		if err != nil {
			util.Fail(c, http.StatusInternalServerError, "Something went wrong!")
			return
		}
		if count > 0 {
			util.Fail(c, http.StatusConflict, "Email or username already in use!")
			return
		}
	}

	updates := map[string]any{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Username != "" {
		updates["username"] = req.Username
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Password != "" {
		hash, err := h.Verifier.HashPassword(req.Password)
		if err != nil {
			util.Fail(c, http.StatusInternalServerError, "Something went wrong!")
			return
		}
		updates["password_hash"] = hash
	}

	err := h.DB.Model(&models.User{}).Where("id = ?", principal.ID).Updates(updates).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			util.Fail(c, http.StatusConflict, "Email or username already in use!")
			return
		}
		util.Fail(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	util.OK(c, "Successfully updated user", nil)
}

// DeleteMe removes the account and everything it owns: likes, posts (with
// their likes), profile and outstanding sessions. The caller is logged out.
// DELETE /auth/user/me
func (h *UserHandler) DeleteMe(c *gin.Context) {
	principal := middleware.CurrentUser(c)
	if principal == nil {
		util.Fail(c, http.StatusUnauthorized, "You need to be logged in to do that.")
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var postIDs []uint
		if err := tx.Model(&models.Post{}).
			Where("author_id = ?", principal.ID).
			Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Like{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", principal.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", principal.ID).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", principal.ID).Delete(&models.Profile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", principal.ID).Delete(&models.AuditLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, principal.ID).Error
	})
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	// outstanding sessions on other devices must stop resolving now
	_ = h.Sessions.RevokeUser(principal.ID)
	_ = h.Sessions.Revoke(c)

	// the account is gone; an audit row for it would be an orphan
	middleware.SkipAudit(c)

	util.OK(c, "Successfully deleted account", nil)
}
