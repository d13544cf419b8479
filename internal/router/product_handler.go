package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/quickcart-grocery/api/internal/push"
	"github.com/quickcart-grocery/api/pkg/global"
	"github.com/quickcart-grocery/api/pkg/models"
	"github.com/quickcart-grocery/api/pkg/mongo"
	"github.com/quickcart-grocery/api/pkg/redis"
)

// GetAllProducts lists the active catalog. Inactive products are hidden from
// customers but stay referenced by historical carts and orders.
func GetAllProducts(c *gin.Context) {
	products, err := mongo.GetActiveProducts(c.Request.Context())
	if err != nil {
		global.Log().WithError(err).Error("failed to list products")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch products", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(products))
}

// GetProductByID serves a single product, cache first.
func GetProductByID(c *gin.Context) {
	id, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid product id", nil))
		return
	}

	if cached, err := redis.GetProductFromCache(c.Request.Context(), id.Hex()); err == nil {
		c.Header("X-Cache", "HIT")
		c.JSON(http.StatusOK, global.SuccessResponse(cached))
		return
	}

	product, err := mongo.GetProductByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", nil))
			return
		}
		global.Log().WithError(err).Error("failed to fetch product")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch product", nil))
		return
	}

	if err := redis.CacheProduct(c.Request.Context(), product); err != nil {
		global.Log().WithError(err).Warn("failed to cache product")
	}

	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, global.SuccessResponse(product))
}

// CreateProduct adds a catalog entry. Admin only.
func CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid product payload: "+err.Error(), nil))
		return
	}

	product, err := mongo.CreateProduct(c.Request.Context(), req.ToProduct())
	if err != nil {
		global.Log().WithError(err).Error("failed to create product")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to create product", nil))
		return
	}

	if err := redis.CacheProduct(c.Request.Context(), product); err != nil {
		global.Log().WithError(err).Warn("failed to cache product")
	}

	c.JSON(http.StatusCreated, global.SuccessResponse(product))
}

// UpdateProduct applies a partial edit. A stock change is broadcast to every
// connected client so open storefronts refresh availability.
func UpdateProduct(c *gin.Context) {
	id, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid product id", nil))
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid product payload: "+err.Error(), nil))
		return
	}

	updates := bson.D{}
	if req.Name != nil {
		updates = append(updates, bson.E{Key: "name", Value: *req.Name})
	}
	if req.Description != nil {
		updates = append(updates, bson.E{Key: "description", Value: *req.Description})
	}
	if req.Price != nil {
		updates = append(updates, bson.E{Key: "price", Value: *req.Price})
	}
	if req.Category != nil {
		updates = append(updates, bson.E{Key: "category", Value: *req.Category})
	}
	if req.Stock != nil {
		updates = append(updates, bson.E{Key: "stock", Value: *req.Stock})
	}
	if req.Image != nil {
		updates = append(updates, bson.E{Key: "image", Value: *req.Image})
	}
	if req.IsActive != nil {
		updates = append(updates, bson.E{Key: "is_active", Value: *req.IsActive})
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("No fields to update", nil))
		return
	}

	product, err := mongo.UpdateProduct(c.Request.Context(), id, updates)
	if err != nil {
		if errors.Is(err, mongo.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", nil))
			return
		}
		global.Log().WithError(err).Error("failed to update product")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to update product", nil))
		return
	}

	if err := redis.CacheProduct(c.Request.Context(), product); err != nil {
		global.Log().WithError(err).Warn("failed to refresh product cache")
	}

	if req.Stock != nil {
		hub.Broadcast(push.EventStockUpdated, models.StockUpdate{
			ProductID: product.ID.Hex(),
			Stock:     product.Stock,
		})
	}

	c.JSON(http.StatusOK, global.SuccessResponse(product))
}

// DeleteProduct removes a catalog entry. Admin only. Existing carts and orders
// keep their references; reads skip or null out the vanished product.
func DeleteProduct(c *gin.Context) {
	id, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid product id", nil))
		return
	}

	product, err := mongo.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", nil))
			return
		}
		global.Log().WithError(err).Error("failed to delete product")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to delete product", nil))
		return
	}

	if err := redis.RemoveProductFromCache(c.Request.Context(), product); err != nil {
		global.Log().WithError(err).Warn("failed to evict product cache")
	}

	c.JSON(http.StatusOK, global.SuccessResponse(gin.H{"message": "Product deleted"}))
}
