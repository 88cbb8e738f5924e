package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"planboard/internal/auth"
	"planboard/internal/identity"
)

// CallerKey is the gin context key holding the resolved identity.Caller.
const CallerKey = "caller"

// JWTAuthMiddleware resolves the bearer token into a Caller and aborts
// with 401 when the assertion is missing or invalid.
func JWTAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format"})
			c.Abort()
			return
		}

		caller, err := auth.ParseToken(parts[1], jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(CallerKey, caller)
		c.Next()
	}
}

// CallerFrom extracts the resolved caller from the gin context.
func CallerFrom(c *gin.Context) (identity.Caller, bool) {
	value, exists := c.Get(CallerKey)
	if !exists {
		return identity.Caller{}, false
	}
	caller, ok := value.(identity.Caller)
	return caller, ok
}
