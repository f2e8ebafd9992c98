package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replaygear/replay_api/internal/middleware"
	"github.com/replaygear/replay_api/internal/utils"
)

const testSecret = "test-secret"

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtMw := middleware.NewJWTMiddleware(testSecret)
	router := gin.New()
	router.GET("/me", jwtMw.Handle(), func(c *gin.Context) {
		c.JSON(200, gin.H{"userId": middleware.UserID(c)})
	})
	router.GET("/admin", jwtMw.RequireAdmin(), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	return router
}

func doRequest(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	router := setupRouter(t)
	w := doRequest(router, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMalformedHeaderIsUnauthorized(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidTokenPasses(t *testing.T) {
	router := setupRouter(t)

	token, err := utils.GenerateJWT(testSecret, "user-1", "a@example.com", "user")
	require.NoError(t, err)

	w := doRequest(router, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestNonAdminIsForbidden(t *testing.T) {
	router := setupRouter(t)

	token, err := utils.GenerateJWT(testSecret, "user-1", "a@example.com", "user")
	require.NoError(t, err)

	w := doRequest(router, "/admin", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminIsAllowed(t *testing.T) {
	router := setupRouter(t)

	token, err := utils.GenerateJWT(testSecret, "admin-1", "ops@example.com", "admin")
	require.NoError(t, err)

	w := doRequest(router, "/admin", token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTamperedTokenIsRejected(t *testing.T) {
	router := setupRouter(t)

	token, err := utils.GenerateJWT("another-secret", "user-1", "a@example.com", "admin")
	require.NoError(t, err)

	w := doRequest(router, "/admin", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
