package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gamestore-backend/internal/shared/response"
)

// RequireAdmin allows only users with the admin role.
// Must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("userRole")
		if !exists || role != "admin" {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Admin access required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
