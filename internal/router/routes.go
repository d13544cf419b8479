package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quickcart-grocery/api/internal/telemetry"
	"github.com/quickcart-grocery/api/pkg/global"
	"github.com/quickcart-grocery/api/pkg/mongo"
)

func InitializeRoutes() {
	Router.GET("/ws", WebSocket)
	Router.GET("/metrics", gin.WrapH(telemetry.MetricsHandler()))

	api := Router.Group("/api")
	{
		api.GET("/health", HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/register", Register)
			auth.POST("/login", Login)
			auth.GET("/me", Auth(), Me)
		}

		products := api.Group("/products")
		{
			products.GET("", GetAllProducts)
			products.GET("/:id", GetProductByID)
			products.POST("", Auth(), AdminAuth(), CreateProduct)
			products.PUT("/:id", Auth(), AdminAuth(), UpdateProduct)
			products.DELETE("/:id", Auth(), AdminAuth(), DeleteProduct)
		}

		cart := api.Group("/cart")
		cart.Use(Auth())
		{
			cart.GET("", GetCart)
			cart.POST("", AddToCart)
			cart.PUT("/:productId", UpdateCartItem)
			cart.DELETE("/:productId", RemoveFromCart)
			cart.DELETE("", ClearCart)
		}

		orders := api.Group("/orders")
		orders.Use(Auth())
		{
			orders.GET("", GetMyOrders)
			orders.GET("/all", AdminAuth(), GetAllOrders)
			orders.POST("", CreateOrder)
			orders.PUT("/:orderId/status", AdminAuth(), UpdateOrderStatus)
			orders.GET("/receipt/:orderId", DownloadReceipt)
		}

		payments := api.Group("/payments")
		payments.Use(Auth())
		{
			payments.POST("/razorpay-order", CreateRazorpayOrder)
		}

		admin := api.Group("/admin")
		admin.Use(Auth(), AdminAuth())
		{
			admin.GET("/analytics/sales", GetSalesAnalytics)
			admin.GET("/analytics/ai/sales-report", GetAISalesReport)
		}
	}
}

func HealthCheck(c *gin.Context) {
	db := mongo.GetDatabase()
	if err := db.Client().Ping(c.Request.Context(), nil); err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Database connection failed", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"status": "OK", "database": "Connected"}))
}
