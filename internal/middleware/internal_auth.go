package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InternalAuthHeader carries the static token for the owner-facing lead
// listing routes.
const InternalAuthHeader = "x-internal-api-auth-token"

// timingSafeCompare compares two strings in constant time
func timingSafeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// InternalAuthMiddleware validates the internal API token. Routes guarded by
// it are only registered when a token is configured, so validToken is never
// empty here.
func InternalAuthMiddleware(validToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(InternalAuthHeader)

		if token == "" || !timingSafeCompare(token, validToken) {
			logger.Warn("Invalid internal API token",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing internal API token"})
			c.Abort()
			return
		}

		c.Next()
	}
}
