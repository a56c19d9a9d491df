package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	portssvc "github.com/safinah-app/clearance_billing_app/internal/core/ports/services"
)

// APITokenAuth authenticates requests carrying an x-api-key header. A valid
// token short-circuits JWT auth; a missing or invalid one falls through to it.
func APITokenAuth(tokenSvc portssvc.APITokenSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("x-api-key")
		if apiKey == "" {
			c.Next()
			return
		}

		user, err := tokenSvc.ValidateToken(c.Request.Context(), apiKey)
		if err != nil {
			GetLoggerFromCtx(c.Request.Context()).Warn("API token validation failed")
			c.Next()
			return
		}

		ctx := context.WithValue(c.Request.Context(), userIDKey, user.UserID)
		c.Request = c.Request.WithContext(ctx)
		c.Set("authMethod", "api_token")
		c.Next()
	}
}
