package middleware

import (
	"errors"
	"net/http"

	"hacktivity/internal/auth"
	"hacktivity/internal/util"

	"github.com/gin-gonic/gin"
)

// ContextUserKey is where the resolved principal is stored on the request
// context.
const ContextUserKey = "currentUser"

// Auth resolves the session cookie and puts the principal into the context.
// Stale sessions (account deleted) behave exactly like missing ones; the
// manager has already cleared the cookie by the time we answer.
func Auth(sm *auth.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := sm.Resolve(c)
		if err != nil {
			if errors.Is(err, auth.ErrUnauthenticated) || errors.Is(err, auth.ErrStaleSession) {
				util.Fail(c, http.StatusUnauthorized, "You need to be logged in to do that.")
			} else {
				util.Fail(c, http.StatusInternalServerError, "Something went wrong!")
			}
			c.Abort()
			return
		}

		c.Set(ContextUserKey, principal)
		c.Next()
	}
}

// CurrentUser returns the principal set by Auth, or nil if the request is
// anonymous.
func CurrentUser(c *gin.Context) *auth.Principal {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	p, ok := v.(*auth.Principal)
	if !ok {
		return nil
	}
	return p
}
