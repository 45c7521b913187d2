package middleware

import (
	"net/http"
	"strings"

	"github.com/onegreenvn/campaign-mailer-backend/internal/models"

	"github.com/gin-gonic/gin"
)

// TokenValidator is implemented by auth.AuthService
type TokenValidator interface {
	ValidateToken(tokenString string) (*models.TokenInfo, error)
	GetUser(userID string) (*models.User, error)
}

type BearerTokenMiddleware struct {
	authService TokenValidator
}

func NewBearerTokenMiddleware(authService TokenValidator) *BearerTokenMiddleware {
	return &BearerTokenMiddleware{authService: authService}
}

// BearerTokenAuthMiddleware validates JWT token and sets user info in context
func (m *BearerTokenMiddleware) BearerTokenAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Already authorized by the API key middleware
		if _, exists := c.Get("user_id"); exists {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		tokenInfo, err := m.authService.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		user, err := m.authService.GetUser(tokenInfo.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Set("is_admin", user.IsAdmin)
		c.Set("token_info", tokenInfo)
		c.Set("auth_type", "bearer")

		c.Next()
	}
}
