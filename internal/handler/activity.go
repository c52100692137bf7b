package handler

import (
	"net/http"
	"time"

	"hacktivity/internal/middleware"
	"hacktivity/internal/models"
	"hacktivity/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ActivityHandler exposes the caller's recent audit-log entries.
type ActivityHandler struct {
	DB *gorm.DB
}

func NewActivityHandler(db *gorm.DB) *ActivityHandler {
	return &ActivityHandler{DB: db}
}

type activityResp struct {
	Method string    `json:"method"`
	Path   string    `json:"path"`
	IP     string    `json:"ip"`
	At     time.Time `json:"at"`
}

// List returns the 50 most recent entries for the current user.
// GET /auth/user/activity
func (h *ActivityHandler) List(c *gin.Context) {
	principal := middleware.CurrentUser(c)

	var logs []models.AuditLog
	err := h.DB.Where("user_id = ?", principal.ID).
		Order("created_at DESC").
		Limit(50).
		Find(&logs).Error
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	out := make([]activityResp, 0, len(logs))
	for _, entry := range logs {
		out = append(out, activityResp{
			Method: entry.Method,
			Path:   entry.Path,
			IP:     entry.IP,
			At:     entry.CreatedAt,
		})
	}

	util.OK(c, "OK", out)
}
