package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/quickcart-grocery/api/pkg/auth"
	"github.com/quickcart-grocery/api/pkg/global"
	"github.com/quickcart-grocery/api/pkg/models"
	"github.com/quickcart-grocery/api/pkg/mongo"
)

// Register creates a customer account and returns it with a signed token.
func Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid registration payload: "+err.Error(), nil))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		global.Log().WithError(err).Error("failed to hash password")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to create account", nil))
		return
	}

	user, err := mongo.CreateUser(c.Request.Context(), &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Role:     models.RoleCustomer,
	})
	if err != nil {
		if errors.Is(err, mongo.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, global.ErrorResponse("Email already in use", nil))
			return
		}
		global.Log().WithError(err).Error("failed to create user")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to create account", nil))
		return
	}

	token, err := auth.Sign(user.ID.Hex(), user.Role, cfg.JWTSecret)
	if err != nil {
		global.Log().WithError(err).Error("failed to sign token")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to create account", nil))
		return
	}

	c.JSON(http.StatusCreated, global.SuccessResponse(gin.H{"user": user, "token": token}))
}

// Login authenticates email and password. Unknown email and wrong password
// produce the same response so the endpoint cannot be used to probe accounts.
func Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid login payload: "+err.Error(), nil))
		return
	}

	user, err := mongo.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, global.ErrorResponse("Invalid email or password", nil))
			return
		}
		global.Log().WithError(err).Error("failed to look up user")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Login failed", nil))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, global.ErrorResponse("Invalid email or password", nil))
		return
	}

	token, err := auth.Sign(user.ID.Hex(), user.Role, cfg.JWTSecret)
	if err != nil {
		global.Log().WithError(err).Error("failed to sign token")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Login failed", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(gin.H{"user": user, "token": token}))
}

// Me returns the account behind the presented token.
func Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, global.ErrorResponse("Token is not valid", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(user))
}
