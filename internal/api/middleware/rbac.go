package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/raisa-SSTL/taskman-api/internal/models"
	"github.com/raisa-SSTL/taskman-api/internal/rbac"
)

// RequirePermission gates a route on a named permission. The check runs
// before the handler, so a denied request never reaches ownership checks or
// mutates state. Denial is a distinct 403, never a 404.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := c.Get("user")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			c.Abort()
			return
		}

		userID := user.(*models.User).ID
		allowed, err := rbac.HasPermission(userID, permission)
		if err != nil || !allowed {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You do not have permission to perform this action."})
			c.Abort()
			return
		}

		c.Next()
	}
}
