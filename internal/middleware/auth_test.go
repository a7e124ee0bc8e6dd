package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nerdsociety/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestJWTAuth_ValidToken(t *testing.T) {
	// Arrange
	jwtService := jwt.New("test-secret-123", 1*time.Hour)
	validToken, _ := jwtService.GenerateToken(42, "CUSTOMER")

	router := gin.New()
	router.Use(JWTAuth(jwtService))
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetInt64(ContextUserID),
			"role":    c.GetString(ContextRole),
		})
	})

	// Act
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+validToken)
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "42")
	assert.Contains(t, w.Body.String(), "CUSTOMER")
}

func TestJWTAuth_Rejections(t *testing.T) {
	jwtService := jwt.New("secret", 1*time.Hour)

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{name: "missing", header: "", code: "AUTH_HEADER_MISSING"},
		{name: "basic", header: "Basic dGVzdA==", code: "INVALID_AUTH_FORMAT"},
		{name: "empty bearer", header: "Bearer ", code: "INVALID_AUTH_FORMAT"},
		{name: "garbage", header: "Bearer invalid-jwt-here", code: "INVALID_TOKEN"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.Use(JWTAuth(jwtService))
			router.GET("/protected", func(c *gin.Context) {
				t.Fatal("handler should not be reached")
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tc.code)
		})
	}
}

func TestOptionalJWTAuth(t *testing.T) {
	jwtService := jwt.New("secret", 1*time.Hour)
	token, _ := jwtService.GenerateToken(9, "CUSTOMER")

	router := gin.New()
	router.Use(OptionalJWTAuth(jwtService))
	router.GET("/bookings", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt64(ContextUserID)})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/bookings", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":0}`, w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	assert.JSONEq(t, `{"user_id":9}`, w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/bookings", nil)
	req.Header.Set("Authorization", "Bearer broken")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":0}`, w.Body.String())
}

type stubActive map[int64]bool

func (s stubActive) IsActive(_ context.Context, id int64) (bool, error) {
	return s[id], nil
}

func TestRequireActiveUser(t *testing.T) {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		userID := int64(1)
		if c.GetHeader("X-User") == "on" {
			userID = 2
		}
		c.Set(ContextUserID, userID)
		c.Next()
	})
	router.Use(RequireActiveUser(stubActive{2: true}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("X-User", "on")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "ACCOUNT_DISABLED")
}
