package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quickcart-grocery/api/pkg/ai"
	"github.com/quickcart-grocery/api/pkg/global"
	"github.com/quickcart-grocery/api/pkg/mongo"
)

// GetSalesAnalytics returns the per-day sales aggregation. Admin only.
func GetSalesAnalytics(c *gin.Context) {
	analytics, err := mongo.GetSalesAnalytics(c.Request.Context())
	if err != nil {
		global.Log().WithError(err).Error("failed to aggregate sales")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch sales analytics", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(analytics))
}

// GetAISalesReport returns the sales aggregation with AI-generated insights
// when the AI service is configured, raw data otherwise.
func GetAISalesReport(c *gin.Context) {
	report, err := ai.GenerateSalesReport(c.Request.Context())
	if err != nil {
		global.Log().WithError(err).Error("failed to generate sales report")
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to generate sales report", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(report))
}
