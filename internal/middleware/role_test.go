package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"nerdsociety/internal/domain/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func routerWithRole(role string, guard gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if role != "" {
			c.Set(ContextRole, role)
		}
		c.Next()
	})
	router.Use(guard)
	router.GET("/admin", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestRequirePermission(t *testing.T) {
	cases := []struct {
		role   string
		perm   auth.Permission
		status int
	}{
		{role: "", perm: auth.PermBookingsView, status: http.StatusUnauthorized},
		{role: "CUSTOMER", perm: auth.PermBookingsView, status: http.StatusForbidden},
		{role: "STAFF", perm: auth.PermBookingsCheckIn, status: http.StatusOK},
		{role: "STAFF", perm: auth.PermSettingsManage, status: http.StatusForbidden},
		{role: "ADMIN", perm: auth.PermSettingsManage, status: http.StatusOK},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		routerWithRole(tc.role, RequirePermission(tc.perm)).ServeHTTP(w, httptest.NewRequest("GET", "/admin", nil))
		assert.Equal(t, tc.status, w.Code, "%s/%s", tc.role, tc.perm)
	}
}

func TestStaffOnly(t *testing.T) {
	w := httptest.NewRecorder()
	routerWithRole("MANAGER", StaffOnly()).ServeHTTP(w, httptest.NewRequest("GET", "/admin", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	routerWithRole("CUSTOMER", StaffOnly()).ServeHTTP(w, httptest.NewRequest("GET", "/admin", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}
