package middleware

import (
	"net/http"

	"hacktivity/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ContextSkipAuditKey marks a request whose outcome must not be audited.
const ContextSkipAuditKey = "auditSkip"

// SkipAudit tells the audit middleware to drop this request. Used by account
// deletion, whose audit rows vanish with the account.
func SkipAudit(c *gin.Context) {
	c.Set(ContextSkipAuditKey, true)
}

// Audit records mutating requests of authenticated users into the audit log.
// Reads and anonymous requests are skipped.
func Audit(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == http.MethodGet {
			return
		}
		if c.GetBool(ContextSkipAuditKey) {
			return
		}
		principal := CurrentUser(c)
		if principal == nil {
			return
		}

		entry := models.AuditLog{
			UserID: principal.ID,
			Method: c.Request.Method,
			Path:   c.Request.URL.Path,
			IP:     c.ClientIP(),
		}
		// best effort; an audit failure must not fail the request
		_ = db.Create(&entry).Error
	}
}
