package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"grading-backend/internal/shared/server/respond"
)

const userIDKey = "userId"

// open paths that need no caller identity.
var openPaths = map[string]struct{}{
	"/api/v1/health":  {},
	"/api/v1/metrics": {},
}

// Identity reads the caller identity forwarded by the application shell.
// Login and token exchange happen upstream; this service only needs an
// opaque owner id to namespace rubrics, videos, and reports.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		if _, ok := openPaths[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		userID := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if userID == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "X-User-Id header is required", nil)
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserIDFromContext fetches the user ID stored by Identity middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userIDKey)
}
