package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/quickcart-grocery/api/pkg/auth"
	"github.com/quickcart-grocery/api/pkg/global"
	"github.com/quickcart-grocery/api/pkg/models"
	"github.com/quickcart-grocery/api/pkg/mongo"
)

const userContextKey = "currentUser"

// lookupUser resolves token claims back to a live account, so tokens for
// deleted users stop working immediately. Overridable in tests.
var lookupUser = func(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	return mongo.GetUserByID(ctx, id)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		global.Log().WithFields(map[string]interface{}{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Debug("request handled")
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, global.ErrorResponse(message, nil))
}

// resolveToken authenticates a raw bearer token string into a user.
func resolveToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := auth.Verify(token, cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	userID, err := bson.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}

	user, err := lookupUser(ctx, userID)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	return user, nil
}

// Auth gates a route behind a valid bearer token.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			abortUnauthorized(c, "No token, authorization denied")
			return
		}

		user, err := resolveToken(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c, "Token is not valid")
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// AdminAuth requires the admin role on top of Auth.
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, global.ErrorResponse("Access denied. Admin only.", nil))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by Auth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
