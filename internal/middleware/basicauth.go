package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medsecure/medsecure-api/internal/config"
	"github.com/medsecure/medsecure-api/internal/models"
)

// BasicAuthMiddleware enforces basic authentication against the configured
// user list
func BasicAuthMiddleware(cfg *config.SecurityConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok || !cfg.ValidateUser(username, password) {
			c.Header("WWW-Authenticate", `Basic realm="medsecure"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Code:    models.ErrCodeUnauthorized,
				Message: "Authentication required",
			})
			return
		}
		c.Next()
	}
}
