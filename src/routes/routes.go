package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Akas679/Inventory-web/src/handlers"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Products *handlers.ProductHandler
	Stock    *handlers.StockHandler
	Plans    *handlers.PlanHandler
	Alerts   *handlers.AlertHandler
	Users    *handlers.UserHandler
}

// RegisterRoutes mounts the API surface on the /api group.
func RegisterRoutes(api *gin.RouterGroup, h *Handlers) {
	// Product registry
	api.POST("/products", h.Products.CreateProduct)
	api.GET("/products", h.Products.ListProducts)
	api.GET("/products/search", h.Products.SearchProducts)
	api.GET("/products/:id", h.Products.GetProduct)
	api.PUT("/products/:id", h.Products.UpdateProduct)
	api.DELETE("/products/:id", h.Products.DeleteProduct)

	// Single movements
	api.POST("/transactions/stock-in", h.Stock.StockIn)
	api.POST("/transactions/stock-out", h.Stock.StockOut)
	api.GET("/transactions", h.Stock.GetTransactions)

	// Batch movements (one document, many products)
	api.POST("/stock-transactions/stock-in", h.Stock.BatchStockIn)
	api.POST("/stock-transactions/stock-out", h.Stock.BatchStockOut)

	// Weekly consumption report
	api.GET("/stock-outs", h.Plans.GetWeeklyStockOuts)

	// Weekly stock plans
	api.POST("/weekly-stock-plans", h.Plans.CreatePlans)
	api.GET("/weekly-stock-plans", h.Plans.ListPlans)
	api.GET("/weekly-stock-plans/current", h.Plans.CurrentWeekPlans)
	api.PUT("/weekly-stock-plans/:id", h.Plans.UpdatePlan)
	api.DELETE("/weekly-stock-plans/:id", h.Plans.DeletePlan)

	// Low stock alerts
	api.GET("/alerts/low-stock", h.Alerts.GetLowStockAlerts)
	api.POST("/alerts/check-low-stock", h.Alerts.CheckLowStock)
	api.PUT("/alerts/low-stock/:id/resolve", h.Alerts.ResolveAlert)

	// Users (audit attribution)
	api.POST("/users", h.Users.CreateUser)
	api.GET("/users", h.Users.ListUsers)
	api.GET("/users/:id", h.Users.GetUser)
	api.DELETE("/users/:id", h.Users.DeleteUser)
}
