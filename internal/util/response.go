package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Every response uses the same envelope: {success, message, data?}.

// OK sends a success envelope. data may be nil, in which case the field is
// omitted.
func OK(c *gin.Context, message string, data any) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(http.StatusOK, body)
}

// Fail sends a failure envelope with the given HTTP status. message must be
// human-readable and must never carry raw internal error detail.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}
