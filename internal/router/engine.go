package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/quickcart-grocery/api/internal/push"
	"github.com/quickcart-grocery/api/internal/telemetry"
	"github.com/quickcart-grocery/api/pkg/global"
)

var (
	Router *gin.Engine
	hub    *push.Hub
	cfg    *global.Config
)

func InitEngine(config *global.Config, pushHub *push.Hub) {
	cfg = config
	hub = pushHub

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	Router = gin.New()
	Router.Use(gin.Recovery())
	Router.Use(requestLogger())
	Router.Use(telemetry.Middleware())

	Router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.ClientURL, "http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
