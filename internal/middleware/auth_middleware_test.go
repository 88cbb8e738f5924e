package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"planboard/internal/auth"
	"planboard/internal/identity"
	"planboard/internal/middleware"
	"planboard/internal/model"
)

const jwtSecret = "test-secret-key"

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	protected := r.Group("/protected")
	protected.Use(middleware.JWTAuthMiddleware(jwtSecret))
	protected.GET("/resource", func(c *gin.Context) {
		caller, ok := middleware.CallerFrom(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "caller not in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": caller.ID, "role": caller.Role})
	})

	return r
}

func generateTestToken(t *testing.T, role model.Role, expiry time.Duration) string {
	t.Helper()
	caller := identity.Caller{ID: uuid.New(), Role: role}
	token, err := auth.GenerateToken(caller, jwtSecret, expiry)
	assert.NoError(t, err)
	return token
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	router := setupRouter()
	token := generateTestToken(t, model.RoleEmployee, time.Hour)

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), string(model.RoleEmployee))
}

func TestJWTAuthMiddleware_MissingHeader(t *testing.T) {
	router := setupRouter()

	req, _ := http.NewRequest("GET", "/protected/resource", nil)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestJWTAuthMiddleware_MalformedHeader(t *testing.T) {
	router := setupRouter()

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "Token abcdef")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestJWTAuthMiddleware_ExpiredToken(t *testing.T) {
	router := setupRouter()
	token := generateTestToken(t, model.RoleEmployee, -time.Minute)

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
