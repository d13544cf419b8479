package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/quickcart-grocery/api/internal/push"
	"github.com/quickcart-grocery/api/internal/receipt"
	"github.com/quickcart-grocery/api/pkg/global"
	"github.com/quickcart-grocery/api/pkg/models"
	"github.com/quickcart-grocery/api/pkg/mongo"
	"github.com/quickcart-grocery/api/pkg/payments"
)

// CreateOrder snapshots the requested items into an immutable order. Prices
// are frozen from the live catalog; the client's claimed total is only
// accepted when it matches the server-computed one. Razorpay orders must
// carry a provider signature that verifies against our secret.
func CreateOrder(c *gin.Context) {
	user := CurrentUser(c)

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid order payload: "+err.Error(), nil))
		return
	}

	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("No items in order", nil))
		return
	}
	if req.TotalAmount <= 0 {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid total amount", nil))
		return
	}

	ids := make([]bson.ObjectID, 0, len(req.Items))
	for _, item := range req.Items {
		id, err := bson.ObjectIDFromHex(item.Product)
		if err != nil {
			c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid product id: "+item.Product, nil))
			return
		}
		ids = append(ids, id)
	}

	products, err := mongo.GetProductsByIDs(c.Request.Context(), ids)
	if err != nil {
		global.Log().WithError(err).Error("failed to resolve order products")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to create order", nil))
		return
	}

	items, missing := models.FreezeOrderItems(req.Items, products)
	if missing != "" {
		c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found: "+missing, nil))
		return
	}

	computed := models.OrderTotal(models.Subtotal(items))
	if !models.AmountMatches(req.TotalAmount, computed) {
		global.Log().WithFields(map[string]interface{}{
			"claimed":  req.TotalAmount,
			"computed": computed,
			"user":     user.ID.Hex(),
		}).Warn("order total mismatch")
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Order total does not match current prices", nil))
		return
	}

	paymentStatus := models.PaymentStatusPending
	if req.PaymentMethod == models.PaymentMethodRazorpay {
		err := payments.VerifyPayment(payments.PaymentConfirmation{
			OrderID:   req.RazorpayOrderID,
			PaymentID: req.RazorpayPaymentID,
			Signature: req.RazorpaySignature,
		})
		if err != nil {
			global.Log().WithError(err).WithField("user", user.ID.Hex()).Warn("payment verification failed")
			c.JSON(http.StatusBadRequest, global.ErrorResponse("Payment verification failed", nil))
			return
		}
		paymentStatus = models.PaymentStatusPaid
	}

	order, err := mongo.CreateOrder(c.Request.Context(), &models.Order{
		User:              user.ID,
		Items:             items,
		ShippingAddress:   req.ShippingAddress,
		PaymentMethod:     req.PaymentMethod,
		PaymentStatus:     paymentStatus,
		Status:            models.OrderStatusPending,
		TotalAmount:       computed,
		RazorpayPaymentID: req.RazorpayPaymentID,
		Notes:             req.Notes,
	})
	if err != nil {
		global.Log().WithError(err).Error("failed to create order")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to create order", nil))
		return
	}

	// Receipt rendering is slow enough to keep off the request path. The
	// download endpoint regenerates on demand if this write loses the race.
	go func(order models.Order, products map[string]models.Product) {
		if _, err := receipt.Generate(&order, products, cfg.ReceiptsDir); err != nil {
			global.Log().WithError(err).WithField("order", order.ID.Hex()).Warn("failed to pre-render receipt")
		}
	}(*order, products)

	view := models.BuildOrderView(*order, products)
	hub.Publish(user.ID.Hex(), push.EventOrderUpdated, view)

	c.JSON(http.StatusCreated, global.SuccessResponse(gin.H{
		"order":      view,
		"receiptUrl": fmt.Sprintf("/api/orders/receipt/%s", order.ID.Hex()),
	}))
}

// orderViews batch-resolves products (and optionally owners) across a page
// of orders so listings cost a constant number of queries.
func orderViews(ctx context.Context, orders []models.Order, withOwners bool) ([]models.OrderView, error) {
	productIDs := make([]bson.ObjectID, 0)
	userIDs := make([]bson.ObjectID, 0)
	seenProducts := make(map[string]bool)
	seenUsers := make(map[string]bool)

	for _, order := range orders {
		for _, item := range order.Items {
			if !seenProducts[item.Product.Hex()] {
				seenProducts[item.Product.Hex()] = true
				productIDs = append(productIDs, item.Product)
			}
		}
		if withOwners && !seenUsers[order.User.Hex()] {
			seenUsers[order.User.Hex()] = true
			userIDs = append(userIDs, order.User)
		}
	}

	products, err := mongo.GetProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	var owners map[string]models.User
	if withOwners {
		owners, err = mongo.GetUsersByIDs(ctx, userIDs)
		if err != nil {
			return nil, err
		}
	}

	views := make([]models.OrderView, 0, len(orders))
	for _, order := range orders {
		view := models.BuildOrderView(order, products)
		if withOwners {
			if owner, ok := owners[order.User.Hex()]; ok {
				view.Owner = &models.OrderOwner{
					ID:    owner.ID.Hex(),
					Name:  owner.Name,
					Email: owner.Email,
				}
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// GetMyOrders lists the caller's orders, newest first.
func GetMyOrders(c *gin.Context) {
	user := CurrentUser(c)

	orders, err := mongo.GetOrdersByUser(c.Request.Context(), user.ID)
	if err != nil {
		global.Log().WithError(err).Error("failed to list orders")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch orders", nil))
		return
	}

	views, err := orderViews(c.Request.Context(), orders, false)
	if err != nil {
		global.Log().WithError(err).Error("failed to resolve order products")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch orders", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(views))
}

// GetAllOrders lists every order with owner identity attached. Admin only.
func GetAllOrders(c *gin.Context) {
	orders, err := mongo.GetAllOrders(c.Request.Context())
	if err != nil {
		global.Log().WithError(err).Error("failed to list orders")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch orders", nil))
		return
	}

	views, err := orderViews(c.Request.Context(), orders, true)
	if err != nil {
		global.Log().WithError(err).Error("failed to resolve order details")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch orders", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(views))
}

// UpdateOrderStatus advances an order through the fulfilment pipeline. Only
// transitions on the forward path (or to cancelled from a non-terminal
// state) are accepted.
func UpdateOrderStatus(c *gin.Context) {
	orderID, err := bson.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid order id", nil))
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid status payload: "+err.Error(), nil))
		return
	}

	order, err := mongo.GetOrderByID(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, mongo.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Order not found", nil))
			return
		}
		global.Log().WithError(err).Error("failed to fetch order")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to update order", nil))
		return
	}

	if !models.CanTransition(order.Status, req.Status) {
		allowed := models.AllowedTransitions(order.Status)
		message := fmt.Sprintf("Cannot change status from %s to %s", order.Status, req.Status)
		if len(allowed) > 0 {
			message += "; allowed: " + strings.Join(allowed, ", ")
		}
		c.JSON(http.StatusBadRequest, global.ErrorResponse(message, nil))
		return
	}

	updated, err := mongo.SetOrderStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		global.Log().WithError(err).Error("failed to update order status")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to update order", nil))
		return
	}

	hub.Publish(updated.User.Hex(), push.EventOrderUpdated, gin.H{
		"orderId": updated.ID.Hex(),
		"status":  updated.Status,
	})

	c.JSON(http.StatusOK, global.SuccessResponse(updated))
}

// DownloadReceipt streams the order's PDF receipt. Receipts are private to
// the order's owner; even admins go through the orders listing instead.
func DownloadReceipt(c *gin.Context) {
	user := CurrentUser(c)

	orderID, err := bson.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid order id", nil))
		return
	}

	order, err := mongo.GetOrderByID(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, mongo.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Order not found", nil))
			return
		}
		global.Log().WithError(err).Error("failed to fetch order")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch receipt", nil))
		return
	}

	if order.User != user.ID {
		c.JSON(http.StatusForbidden, global.ErrorResponse("Access denied", nil))
		return
	}

	productIDs := make([]bson.ObjectID, 0, len(order.Items))
	for _, item := range order.Items {
		productIDs = append(productIDs, item.Product)
	}
	products, err := mongo.GetProductsByIDs(c.Request.Context(), productIDs)
	if err != nil {
		global.Log().WithError(err).Error("failed to resolve receipt products")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch receipt", nil))
		return
	}

	path, err := receipt.Generate(order, products, cfg.ReceiptsDir)
	if err != nil {
		global.Log().WithError(err).Error("failed to render receipt")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch receipt", nil))
		return
	}

	c.FileAttachment(path, fmt.Sprintf("receipt-%s.pdf", order.ID.Hex()))
}
