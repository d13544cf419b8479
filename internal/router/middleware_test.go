package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/quickcart-grocery/api/pkg/auth"
	"github.com/quickcart-grocery/api/pkg/global"
	"github.com/quickcart-grocery/api/pkg/models"
	"github.com/quickcart-grocery/api/pkg/mongo"
)

const testSecret = "test-secret"

func setupAuthTest(t *testing.T, user *models.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	previousCfg := cfg
	previousLookup := lookupUser
	t.Cleanup(func() {
		cfg = previousCfg
		lookupUser = previousLookup
	})

	cfg = &global.Config{JWTSecret: testSecret}
	lookupUser = func(ctx context.Context, id bson.ObjectID) (*models.User, error) {
		if user != nil && user.ID == id {
			return user, nil
		}
		return nil, mongo.ErrUserNotFound
	}
}

func authTestRouter(handler gin.HandlerFunc, middleware ...gin.HandlerFunc) *gin.Engine {
	engine := gin.New()
	engine.GET("/protected", append(middleware, handler)...)
	return engine
}

func signedToken(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := auth.Sign(user.ID.Hex(), user.Role, testSecret)
	require.NoError(t, err)
	return token
}

func TestAuthRejectsMissingToken(t *testing.T) {
	setupAuthTest(t, nil)
	engine := authTestRouter(func(c *gin.Context) { c.Status(http.StatusOK) }, Auth())

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	engine.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "No token, authorization denied")
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	setupAuthTest(t, nil)
	engine := authTestRouter(func(c *gin.Context) { c.Status(http.StatusOK) }, Auth())

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	request.Header.Set("Authorization", "Bearer not-a-jwt")
	engine.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Token is not valid")
}

func TestAuthRejectsTokenForDeletedUser(t *testing.T) {
	ghost := &models.User{ID: bson.NewObjectID(), Role: models.RoleCustomer}
	// Registry resolves nobody: the account behind the token is gone.
	setupAuthTest(t, nil)
	engine := authTestRouter(func(c *gin.Context) { c.Status(http.StatusOK) }, Auth())

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	request.Header.Set("Authorization", "Bearer "+signedToken(t, ghost))
	engine.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthPassesValidTokenAndSetsUser(t *testing.T) {
	user := &models.User{ID: bson.NewObjectID(), Name: "Jamie", Role: models.RoleCustomer}
	setupAuthTest(t, user)

	engine := authTestRouter(func(c *gin.Context) {
		current := CurrentUser(c)
		require.NotNil(t, current)
		assert.Equal(t, user.ID, current.ID)
		c.Status(http.StatusOK)
	}, Auth())

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	request.Header.Set("Authorization", "Bearer "+signedToken(t, user))
	engine.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestAdminAuthRejectsCustomer(t *testing.T) {
	user := &models.User{ID: bson.NewObjectID(), Role: models.RoleCustomer}
	setupAuthTest(t, user)
	engine := authTestRouter(func(c *gin.Context) { c.Status(http.StatusOK) }, Auth(), AdminAuth())

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	request.Header.Set("Authorization", "Bearer "+signedToken(t, user))
	engine.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Access denied. Admin only.")
}

func TestAdminAuthPassesAdmin(t *testing.T) {
	user := &models.User{ID: bson.NewObjectID(), Role: models.RoleAdmin}
	setupAuthTest(t, user)
	engine := authTestRouter(func(c *gin.Context) { c.Status(http.StatusOK) }, Auth(), AdminAuth())

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	request.Header.Set("Authorization", "Bearer "+signedToken(t, user))
	engine.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestCurrentUserNilWithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := authTestRouter(func(c *gin.Context) {
		assert.Nil(t, CurrentUser(c))
		c.Status(http.StatusOK)
	})

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
}
