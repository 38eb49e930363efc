package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hotel/internal/domain"
	"hotel/internal/pkg/jwt"
	"hotel/internal/pkg/response"
)

// JWTAuth requires a valid bearer token and exposes its claims to handlers as
// "user_id" (int64), "email" and "role" (string).
func JWTAuth(tokens *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			response.AbortError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimSpace(raw))
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// CurrentRole returns the role JWTAuth stored on the context.
func CurrentRole(c *gin.Context) domain.UserRole {
	return domain.UserRole(c.GetString("role"))
}
