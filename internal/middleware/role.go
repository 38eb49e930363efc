package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel/internal/domain"
	"hotel/internal/pkg/response"
)

// RequireRole lets the request through when the authenticated user holds one
// of roles.
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("role"); !exists {
			response.AbortError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			return
		}

		current := CurrentRole(c)
		for _, r := range roles {
			if current == r {
				c.Next()
				return
			}
		}
		response.AbortError(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
	}
}

func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}

// EmployeesOnly admits admins, receptionists and cleaning staff.
func EmployeesOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin, domain.RoleReceptionist, domain.RoleCleaningStaff)
}
