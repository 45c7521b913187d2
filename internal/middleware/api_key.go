package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// APIKeyUserID is the user_id set for requests authorized by the ingestion key
const APIKeyUserID = "api-key"

// APIKeyMiddleware handles API key authentication for machine callers
type APIKeyMiddleware struct {
	apiKey []byte
}

// NewAPIKeyMiddleware creates a new API key middleware. An empty key disables API key authentication.
func NewAPIKeyMiddleware(apiKey string) *APIKeyMiddleware {
	return &APIKeyMiddleware{
		apiKey: []byte(apiKey),
	}
}

// APIKeyAuthMiddleware validates an "ApiKey <key>" header and sets the caller context.
// Other authorization schemes are passed through to the next middleware.
func (m *APIKeyMiddleware) APIKeyAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Authorization header is required",
			})
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "ApiKey ") {
			c.Next()
			return
		}

		apiKey := strings.TrimSpace(strings.TrimPrefix(authHeader, "ApiKey "))
		if apiKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Invalid API key format",
			})
			c.Abort()
			return
		}

		if len(m.apiKey) == 0 || subtle.ConstantTimeCompare([]byte(apiKey), m.apiKey) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Invalid API key",
			})
			c.Abort()
			return
		}

		c.Set("user_id", APIKeyUserID)
		c.Set("is_admin", false)
		c.Set("auth_type", "api_key")

		c.Next()
	}
}
