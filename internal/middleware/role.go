package middleware

import (
	"net/http"

	"nerdsociety/internal/domain/auth"
	"nerdsociety/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole ensures that the authenticated user has one of the given roles
func RequireRole(roles ...auth.Role) gin.HandlerFunc {
	allowed := make(map[auth.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			return
		}

		if !allowed[auth.Role(role.(string))] {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			return
		}

		c.Next()
	}
}

// RequirePermission checks the role -> permission table.
func RequirePermission(perm auth.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if role == "" {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			return
		}

		if !auth.Role(role).Can(perm) {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Missing permission "+string(perm))
			return
		}

		c.Next()
	}
}

// StaffOnly admits every admin console role.
func StaffOnly() gin.HandlerFunc {
	return RequireRole(auth.RoleStaff, auth.RoleManager, auth.RoleAdmin)
}
