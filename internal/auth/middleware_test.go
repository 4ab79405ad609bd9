package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pairplay/backend/internal/config"
	"pairplay/backend/pkg/jwt"
)

func setup(t *testing.T, mw gin.HandlerFunc) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	prev := config.AppConfig
	config.AppConfig = &config.Config{JWTSecret: "test-secret", TokenTTL: time.Hour}
	t.Cleanup(func() { config.AppConfig = prev })

	r := gin.New()
	r.GET("/whoami", mw, func(c *gin.Context) {
		id, ok := UserID(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok, "id": id.String(), "email": Email(c)})
	})
	return r
}

func call(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := setup(t, AuthMiddleware())
	id := uuid.New()
	token, err := jwt.GenerateToken(id, "a@example.com")
	require.NoError(t, err)

	t.Run("Passes a valid token through", func(t *testing.T) {
		w := call(r, "Bearer "+token)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), id.String())
		assert.Contains(t, w.Body.String(), "a@example.com")
	})

	t.Run("Rejects a missing header", func(t *testing.T) {
		w := call(r, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Rejects a malformed header", func(t *testing.T) {
		w := call(r, "Token "+token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Rejects a tampered token", func(t *testing.T) {
		w := call(r, "Bearer "+token+"x")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOptionalAuthMiddleware(t *testing.T) {
	r := setup(t, OptionalAuthMiddleware())

	t.Run("Anonymous requests still reach the handler", func(t *testing.T) {
		w := call(r, "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"authenticated":false`)
	})

	t.Run("Invalid tokens are ignored", func(t *testing.T) {
		w := call(r, "Bearer nope")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"authenticated":false`)
	})

	t.Run("Valid tokens set the user", func(t *testing.T) {
		token, err := jwt.GenerateToken(uuid.New(), "b@example.com")
		require.NoError(t, err)

		w := call(r, "Bearer "+token)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"authenticated":true`)
	})
}
