package middleware

import (
	"context"
	"net/http"
	"strings"

	"nerdsociety/internal/pkg/applog"
	"nerdsociety/internal/pkg/jwt"
	"nerdsociety/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// JWTAuth requires a valid bearer token and stores user_id and role in the context.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be Bearer <token>")
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalJWTAuth attaches the identity when a valid token is present and
// lets anonymous requests through. Guest bookings rely on it.
func OptionalJWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := jwtService.ValidateToken(token); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

type ActiveChecker interface {
	IsActive(ctx context.Context, userID int64) (bool, error)
}

// RequireActiveUser rejects tokens that belong to deactivated accounts.
func RequireActiveUser(checker ActiveChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		active, err := checker.IsActive(c.Request.Context(), c.GetInt64(ContextUserID))
		if err != nil || !active {
			response.Abort(c, http.StatusForbidden, "ACCOUNT_DISABLED", "Account is disabled")
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func setIdentity(c *gin.Context, claims *jwt.Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextRole, claims.Role)

	entry := applog.FromContext(c.Request.Context()).WithField("user_id", claims.UserID).WithField("role", claims.Role)
	c.Request = c.Request.WithContext(applog.ToContext(c.Request.Context(), entry))
}
