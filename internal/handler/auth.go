package handler

import (
	"errors"
	"net/http"
	"strings"

	"hacktivity/internal/auth"
	"hacktivity/internal/models"
	"hacktivity/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthHandler owns registration and the login/logout session flow.
type AuthHandler struct {
	DB       *gorm.DB
	Verifier *auth.Verifier
	Sessions *auth.SessionManager
}

func NewAuthHandler(db *gorm.DB, verifier *auth.Verifier, sessions *auth.SessionManager) *AuthHandler {
	return &AuthHandler{
		DB:       db,
		Verifier: verifier,
		Sessions: sessions,
	}
}

// registerReq is the declarative schema for account creation; the update
// schema in user.go mirrors it with optional fields.
type registerReq struct {
	Name     string `json:"name" binding:"required,max=64"`
	Username string `json:"username" binding:"required,alphanum,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new account.
// POST /account/register
func (h *AuthHandler) Register(c *gin.Context) {
	// an authenticated caller has nothing to register
	if _, err := h.Sessions.Resolve(c); err == nil {
		c.Redirect(http.StatusFound, "/auth/user/me")
		return
	}

	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest,
			"Please ensure all required fields are filled in with valid data. If issues persist, contact support.")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("username = ? OR email = ?", req.Username, req.Email).
		Count(&count).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}
	if count > 0 {
		util.Fail(c, http.StatusConflict, "User already exists!")
		return
	}

	hash, err := h.Verifier.HashPassword(req.Password)
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	user := models.User{
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		// two registrations can race past the count check; the unique
		// indexes settle it
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			util.Fail(c, http.StatusConflict, "User already exists!")
			return
		}
		util.Fail(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	util.OK(c, "Successfully registered user", nil)
}

// Login verifies credentials and issues a session.
// POST /auth/local/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		// malformed input gets the same generic rejection as a bad
		// password, so the response never hints which field was wrong
		util.Fail(c, http.StatusUnauthorized, auth.MsgBadLogin)
		return
	}

	principal, err := h.Verifier.Verify(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) || errors.Is(err, auth.ErrBadCredentials) {
			util.Fail(c, http.StatusUnauthorized, auth.MsgBadLogin)
			return
		}
		util.Fail(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	if _, err := h.Sessions.Issue(c, principal); err != nil {
		util.Fail(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	util.OK(c, "You've been logged in!", nil)
}

// Logout revokes the current session. Logging out without one is fine.
// GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Sessions.Revoke(c); err != nil {
		util.Fail(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}
	util.OK(c, "You've been logged out!", nil)
}

// FailedAuth is the static landing for failed authentication redirects.
// GET /failed/auth
func (h *AuthHandler) FailedAuth(c *gin.Context) {
	util.Fail(c, http.StatusUnauthorized, auth.MsgBadLogin)
}
