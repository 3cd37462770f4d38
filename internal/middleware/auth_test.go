package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/foodgram/backend/internal/types"
)

func authTestRouter(validator middleware.TokenValidator, optional bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	mw := middleware.AuthMiddleware(validator)
	if optional {
		mw = middleware.OptionalAuthMiddleware(validator)
	}
	r.GET("/protected", mw, func(c *gin.Context) {
		id, _ := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	return r
}

func doAuth(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	valid := &testhelpers.MockTokenValidator{
		Claims: &types.TokenClaims{UserID: userID, Username: "tester"},
	}
	broken := &testhelpers.MockTokenValidator{Error: errors.New("expired")}

	t.Run("missing header", func(t *testing.T) {
		w := doAuth(authTestRouter(valid, false), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		w := doAuth(authTestRouter(valid, false), "Token abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		w := doAuth(authTestRouter(broken, false), "Bearer abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		w := doAuth(authTestRouter(valid, false), "Bearer abc")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})
}

func TestOptionalAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	valid := &testhelpers.MockTokenValidator{
		Claims: &types.TokenClaims{UserID: userID, Username: "tester"},
	}
	broken := &testhelpers.MockTokenValidator{Error: errors.New("expired")}

	t.Run("anonymous passes through", func(t *testing.T) {
		w := doAuth(authTestRouter(valid, true), "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid token treated as anonymous", func(t *testing.T) {
		w := doAuth(authTestRouter(broken, true), "Bearer abc")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), userID.String())
	})

	t.Run("valid token resolves the viewer", func(t *testing.T) {
		w := doAuth(authTestRouter(valid, true), "Bearer abc")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})
}
