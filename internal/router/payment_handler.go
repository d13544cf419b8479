package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quickcart-grocery/api/pkg/global"
	"github.com/quickcart-grocery/api/pkg/payments"
)

type createPaymentOrderRequest struct {
	// Amount is in the provider's smallest currency unit (paise).
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// CreateRazorpayOrder mints a provider-side order for the checkout widget.
func CreateRazorpayOrder(c *gin.Context) {
	var req createPaymentOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid or missing amount", nil))
		return
	}

	order, err := payments.CreatePaymentOrder(req.Amount)
	if err != nil {
		if errors.Is(err, payments.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, global.ErrorResponse("Payment provider not configured", nil))
			return
		}
		global.Log().WithError(err).Error("failed to create payment order")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to create Razorpay order", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(order))
}
