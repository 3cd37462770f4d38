package api_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/api"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/router"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/foodgram/backend/internal/types"
)

type testServer struct {
	engine *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
}

func newTestServer(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)

	db := testhelpers.OpenTestDB(t)
	auth := service.NewAuthService(db, "test-jwt-secret")
	recipes := service.NewRecipeService(db, nil)
	subscriptions := service.NewSubscriptionService(db)

	engine := router.SetupRouter(
		api.NewAuthHandler(auth),
		api.NewUserHandler(db, auth, subscriptions, recipes),
		api.NewTagHandler(db),
		api.NewIngredientHandler(db),
		api.NewRecipeHandler(recipes, subscriptions, auth, nil),
	)
	return &testServer{engine: engine, db: db, auth: auth}
}

// tokenFor issues a token for an already-created user.
func (s *testServer) tokenFor(t *testing.T, user *models.User) string {
	token, err := s.auth.GenerateToken(&types.TokenClaims{UserID: user.ID, Username: user.Username})
	require.NoError(t, err)
	return token
}

// do performs a request against the test router. A non-empty token goes
// into the Authorization header; a non-nil body is sent as JSON.
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst),
		"body: %s", w.Body.String())
}
