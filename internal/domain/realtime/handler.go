package realtime

import (
	"context"
	"net/http"
	"strings"

	"nerdsociety/internal/domain/auth"
	"nerdsociety/internal/pkg/jwt"
	"nerdsociety/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

type ActiveChecker interface {
	IsActive(ctx context.Context, userID int64) (bool, error)
}

type Handler struct {
	hub      *Hub
	tokens   TokenValidator
	users    ActiveChecker
	upgrader websocket.Upgrader
}

// NewHandler accepts browser origins from allowedOrigins; an empty list
// accepts any origin (local development).
func NewHandler(hub *Hub, tokens TokenValidator, users ActiveChecker, allowedOrigins []string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(o, "/")] = true
	}
	return &Handler{
		hub:    hub,
		tokens: tokens,
		users:  users,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed[origin]
			},
		},
	}
}

// ServeWS authenticates with ?token= since browsers cannot set headers on
// websocket requests.
func (h *Handler) ServeWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token is required")
		return
	}
	claims, err := h.tokens.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
		return
	}
	if !auth.Role(claims.Role).IsStaff() {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Staff only")
		return
	}
	if h.users != nil {
		active, err := h.users.IsActive(c.Request.Context(), claims.UserID)
		if err != nil || !active {
			response.Error(c, http.StatusForbidden, "ACCOUNT_DISABLED", "Account is disabled")
			return
		}
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).WithField("user_id", claims.UserID).Warn("websocket upgrade failed")
		return
	}
	h.hub.ServeConn(conn, claims.UserID, claims.Role)
}
