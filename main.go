package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Akas679/Inventory-web/src/config"
	"github.com/Akas679/Inventory-web/src/handlers"
	"github.com/Akas679/Inventory-web/src/logger"
	"github.com/Akas679/Inventory-web/src/metrics"
	"github.com/Akas679/Inventory-web/src/middleware"
	"github.com/Akas679/Inventory-web/src/models"
	"github.com/Akas679/Inventory-web/src/repositories"
	"github.com/Akas679/Inventory-web/src/routes"
	"github.com/Akas679/Inventory-web/src/services"
)

func main() {
	cfg := config.Load()
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	defer log.Sync()

	metrics.InitMetrics(cfg)

	db := config.InitDB(cfg)
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.StockTransaction{},
		&models.WeeklyStockPlan{},
		&models.LowStockAlert{},
	); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	// Backstop for the alert engine's plan-row lock: the database itself
	// refuses a second unresolved alert for the same (product, plan).
	if err := db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_alert_open_pair ON low_stock_alerts (product_id, weekly_plan_id) WHERE NOT resolved",
	).Error; err != nil {
		log.Fatal("Failed to create alert uniqueness index", zap.Error(err))
	}

	// Repositories
	productRepo := &repositories.ProductRepository{DB: db}
	ledgerRepo := &repositories.LedgerRepository{DB: db}
	planRepo := &repositories.PlanRepository{DB: db}
	alertRepo := &repositories.AlertRepository{DB: db}
	userRepo := &repositories.UserRepository{DB: db}

	// Services
	productService := &services.ProductService{DB: db, Products: productRepo, Logger: log}
	stockService := &services.StockService{DB: db, Products: productRepo, Ledger: ledgerRepo, Logger: log}
	planService := &services.PlanService{DB: db, Products: productRepo, Ledger: ledgerRepo, Plans: planRepo, Logger: log}
	alertService := &services.AlertService{DB: db, Products: productRepo, Plans: planRepo, Alerts: alertRepo, Logger: log}
	userService := &services.UserService{DB: db, Users: userRepo, Ledger: ledgerRepo, Logger: log}

	// Router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.EnableJsonDecoderDisallowUnknownFields()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(logger.Middleware(log))
	router.Use(metrics.Middleware())

	router.GET("/metrics", metrics.Handler())
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(router.Group("/api"), &routes.Handlers{
		Products: &handlers.ProductHandler{Service: productService},
		Stock:    &handlers.StockHandler{Service: stockService},
		Plans:    &handlers.PlanHandler{Service: planService},
		Alerts:   &handlers.AlertHandler{Service: alertService},
		Users:    &handlers.UserHandler{Service: userService},
	})

	addr := ":" + cfg.Server.Port
	log.Info("Starting server", zap.String("addr", addr), zap.String("env", cfg.Server.Env))
	if err := router.Run(addr); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
