package router

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/quickcart-grocery/api/internal/push"
	"github.com/quickcart-grocery/api/pkg/global"
	"github.com/quickcart-grocery/api/pkg/models"
	"github.com/quickcart-grocery/api/pkg/mongo"
)

var errItemNotFound = errors.New("item not in cart")

// cartView resolves a cart against the live catalog. Totals are always
// derived from current prices, never stored.
func cartView(ctx context.Context, cart *models.Cart) (models.CartView, error) {
	products, err := mongo.GetProductsByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return models.CartView{}, err
	}
	return models.BuildCartView(cart, products), nil
}

// publishCart pushes the refreshed cart to the owner's connected clients.
func publishCart(userID bson.ObjectID, view models.CartView) {
	hub.Publish(userID.Hex(), push.EventCartUpdated, view)
}

// GetCart returns the user's cart, or an empty projection when none exists.
// This endpoint never 404s: no cart and an empty cart look the same.
func GetCart(c *gin.Context) {
	user := CurrentUser(c)

	cart, err := mongo.GetCartByUser(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, mongo.ErrCartNotFound) {
			c.JSON(http.StatusOK, global.SuccessResponse(models.EmptyCartView()))
			return
		}
		global.Log().WithError(err).Error("failed to fetch cart")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch cart", nil))
		return
	}

	view, err := cartView(c.Request.Context(), cart)
	if err != nil {
		global.Log().WithError(err).Error("failed to resolve cart products")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch cart", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(view))
}

// AddToCart adds quantity of a product, creating the cart on first use.
// Repeated adds of the same product sum their quantities.
func AddToCart(c *gin.Context) {
	user := CurrentUser(c)

	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid cart payload: "+err.Error(), nil))
		return
	}

	productID, err := bson.ObjectIDFromHex(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid product id", nil))
		return
	}

	if _, err := mongo.GetProductByID(c.Request.Context(), productID); err != nil {
		if errors.Is(err, mongo.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", nil))
			return
		}
		global.Log().WithError(err).Error("failed to fetch product")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to add to cart", nil))
		return
	}

	cart, err := mongo.MutateCart(c.Request.Context(), user.ID, func(cart *models.Cart) error {
		cart.AddItem(productID, req.Quantity)
		return nil
	})
	if err != nil {
		global.Log().WithError(err).Error("failed to add to cart")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to add to cart", nil))
		return
	}

	respondWithCart(c, user.ID, cart)
}

// UpdateCartItem sets a line's quantity exactly. Quantities below 1 are
// rejected; removal goes through DELETE.
func UpdateCartItem(c *gin.Context) {
	user := CurrentUser(c)

	productID, err := bson.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid product id", nil))
		return
	}

	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Quantity must be at least 1", nil))
		return
	}

	cart, err := mongo.MutateExistingCart(c.Request.Context(), user.ID, func(cart *models.Cart) error {
		if !cart.SetItemQuantity(productID, req.Quantity) {
			return errItemNotFound
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrCartNotFound):
			c.JSON(http.StatusNotFound, global.ErrorResponse("Cart not found", nil))
		case errors.Is(err, errItemNotFound):
			c.JSON(http.StatusNotFound, global.ErrorResponse("Item not found in cart", nil))
		default:
			global.Log().WithError(err).Error("failed to update cart item")
			c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to update cart", nil))
		}
		return
	}

	respondWithCart(c, user.ID, cart)
}

// RemoveFromCart deletes a line. Removing an absent product is a no-op, not
// an error.
func RemoveFromCart(c *gin.Context) {
	user := CurrentUser(c)

	productID, err := bson.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid product id", nil))
		return
	}

	cart, err := mongo.MutateExistingCart(c.Request.Context(), user.ID, func(cart *models.Cart) error {
		cart.RemoveItem(productID)
		return nil
	})
	if err != nil {
		if errors.Is(err, mongo.ErrCartNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Cart not found", nil))
			return
		}
		global.Log().WithError(err).Error("failed to remove cart item")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to update cart", nil))
		return
	}

	respondWithCart(c, user.ID, cart)
}

// ClearCart empties every line while keeping the cart document.
func ClearCart(c *gin.Context) {
	user := CurrentUser(c)

	cart, err := mongo.MutateExistingCart(c.Request.Context(), user.ID, func(cart *models.Cart) error {
		cart.Items = []models.CartItem{}
		return nil
	})
	if err != nil {
		if errors.Is(err, mongo.ErrCartNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Cart not found", nil))
			return
		}
		global.Log().WithError(err).Error("failed to clear cart")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to clear cart", nil))
		return
	}

	respondWithCart(c, user.ID, cart)
}

func respondWithCart(c *gin.Context, userID bson.ObjectID, cart *models.Cart) {
	view, err := cartView(c.Request.Context(), cart)
	if err != nil {
		global.Log().WithError(err).Error("failed to resolve cart products")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch cart", nil))
		return
	}

	publishCart(userID, view)
	c.JSON(http.StatusOK, global.SuccessResponse(view))
}
