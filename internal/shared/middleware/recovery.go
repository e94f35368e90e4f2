package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"gamestore-backend/internal/shared/response"
)

// Recovery recovers from panics and returns 500
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Interface("panic", r).
					Str("path", c.Request.URL.Path).
					Str("method", c.Request.Method).
					Msg("panic recovered")

				response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
				c.Abort()
			}
		}()
		c.Next()
	}
}
