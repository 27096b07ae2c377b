package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netflix-catalog-backend/pkg/jwt"
)

func authTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString(CtxUserID),
		})
	})
	return r
}

func get(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	manager := jwt.NewManager("test-secret", 30*time.Minute)
	r := authTestRouter(Auth(manager))

	t.Run("valid bearer token", func(t *testing.T) {
		token, err := manager.GenerateAccessToken("user-123", "alice")
		require.NoError(t, err)

		w := get(r, "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "user-123")
	})

	t.Run("missing header", func(t *testing.T) {
		w := get(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		w := get(r, "Basic dXNlcjpwYXNz")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("tampered token", func(t *testing.T) {
		other := jwt.NewManager("other-secret", 30*time.Minute)
		token, err := other.GenerateAccessToken("user-123", "alice")
		require.NoError(t, err)

		w := get(r, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthOrAPIKey(t *testing.T) {
	manager := jwt.NewManager("test-secret", 30*time.Minute)
	r := authTestRouter(AuthOrAPIKey(manager, "general-key"))

	t.Run("bearer token accepted", func(t *testing.T) {
		token, err := manager.GenerateAccessToken("user-123", "alice")
		require.NoError(t, err)

		w := get(r, "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("api key accepted", func(t *testing.T) {
		w := get(r, "Token general-key")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wrong api key rejected", func(t *testing.T) {
		w := get(r, "Token wrong-key")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("no credentials rejected", func(t *testing.T) {
		w := get(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("api key disabled when unconfigured", func(t *testing.T) {
		noKey := authTestRouter(AuthOrAPIKey(manager, ""))
		w := get(noKey, "Token general-key")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
