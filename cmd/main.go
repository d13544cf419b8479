package main

import (
	"github.com/quickcart-grocery/api/internal/push"
	"github.com/quickcart-grocery/api/internal/router"
	"github.com/quickcart-grocery/api/pkg/ai"
	"github.com/quickcart-grocery/api/pkg/global"
	"github.com/quickcart-grocery/api/pkg/mongo"
)

func main() {
	cfg, err := global.LoadConfig()
	if err != nil {
		global.Log().Fatalf("Failed to load configuration: %v", err)
	}

	global.InitLogger(cfg.LogLevel)

	mongo.InitMongoDB(cfg)
	mongo.EnsureIndexesOnStartup()

	ctx, cancel := global.GetDefaultTimer()
	if err := mongo.SeedDemoData(ctx); err != nil {
		global.Log().Warnf("Failed to seed demo data: %v", err)
	}
	cancel()

	ai.InitializeAIService(cfg)

	hub := push.NewHub()
	router.InitEngine(cfg, hub)
	router.InitializeRoutes()

	global.Log().Infof("Server starting on port %s", cfg.Port)
	if err := router.Router.Run(":" + cfg.Port); err != nil {
		global.Log().Fatalf("Failed to start server: %v", err)
	}
}
