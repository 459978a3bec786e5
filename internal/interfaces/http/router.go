package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/flowforge/flowforge-api/internal/application/analytics"
	"github.com/flowforge/flowforge-api/internal/application/auth"
	"github.com/flowforge/flowforge-api/internal/application/bom"
	"github.com/flowforge/flowforge-api/internal/application/orders"
	"github.com/flowforge/flowforge-api/internal/application/products"
	"github.com/flowforge/flowforge-api/internal/application/stock"
	"github.com/flowforge/flowforge-api/internal/application/workcenters"
	"github.com/flowforge/flowforge-api/internal/application/workorders"
	"github.com/flowforge/flowforge-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	StockUC      *stock.StockUseCase
	MovementUC   *stock.PostMovementUseCase
	ProductUC    *products.ProductUseCase
	BOMUC        *bom.BOMUseCase
	OrderUC      *orders.OrderUseCase
	SheetUC      *orders.SheetUseCase
	WorkOrderUC  *workorders.WorkOrderUseCase
	WorkCenterUC *workcenters.WorkCenterUseCase
	AnalyticsUC  *analytics.AnalyticsUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
// Las rutas de escritura sobre catálogos (stock, productos, BOMs, centros)
// requieren admin o manager; la operación de planta (movimientos,
// transiciones, progreso) está abierta a cualquier usuario autenticado.
func Router(app *fiber.App, deps RouterDeps) {
	manage := RequireRole(entity.RoleAdmin, entity.RoleManager)

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	protected.Get("/auth/profile", authHandler.Profile)

	// Stock + ledger de movimientos (protegido)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC, deps.MovementUC)
	stockGroup.Post("/", manage, stockHandler.Create)
	stockGroup.Get("/", stockHandler.List)
	stockGroup.Get("/low", stockHandler.ListLow)
	stockGroup.Post("/movements", stockHandler.PostMovement)
	stockGroup.Get("/movements", stockHandler.ListMovements)
	stockGroup.Get("/:id", stockHandler.GetByID)
	stockGroup.Put("/:id", manage, stockHandler.Update)
	stockGroup.Post("/:id/archive", manage, stockHandler.Archive)

	// Products (protegido)
	productGroup := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	productGroup.Post("/", manage, productHandler.Create)
	productGroup.Get("/", productHandler.List)
	productGroup.Get("/:id", productHandler.GetByID)
	productGroup.Put("/:id", manage, productHandler.Update)
	productGroup.Delete("/:id", manage, productHandler.Delete)

	// BOMs (protegido)
	bomGroup := protected.Group("/boms")
	bomHandler := NewBOMHandler(deps.BOMUC)
	bomGroup.Post("/", manage, bomHandler.Create)
	bomGroup.Get("/", bomHandler.List)
	bomGroup.Post("/calculate-requirements", bomHandler.CalculateRequirements)
	bomGroup.Get("/:id", bomHandler.GetByID)
	bomGroup.Put("/:id", manage, bomHandler.Update)
	bomGroup.Post("/:id/activate", manage, bomHandler.Activate)

	// Manufacturing orders (protegido)
	orderGroup := protected.Group("/manufacturing-orders")
	orderHandler := NewOrderHandler(deps.OrderUC, deps.SheetUC)
	orderGroup.Post("/", manage, orderHandler.Create)
	orderGroup.Get("/", orderHandler.List)
	orderGroup.Get("/:id", orderHandler.GetByID)
	orderGroup.Put("/:id/status", orderHandler.Transition)
	orderGroup.Put("/:id/progress", orderHandler.UpdateProgress)
	orderGroup.Get("/:id/sheet", orderHandler.Sheet)

	// Work orders (protegido)
	woGroup := protected.Group("/work-orders")
	woHandler := NewWorkOrderHandler(deps.WorkOrderUC)
	woGroup.Post("/", manage, woHandler.Create)
	woGroup.Get("/", woHandler.List)
	woGroup.Get("/:id", woHandler.GetByID)
	woGroup.Put("/:id/status", woHandler.Transition)

	// Work centers (protegido)
	wcGroup := protected.Group("/work-centers")
	wcHandler := NewWorkCenterHandler(deps.WorkCenterUC)
	wcGroup.Post("/", manage, wcHandler.Create)
	wcGroup.Get("/", wcHandler.List)
	wcGroup.Get("/:id", wcHandler.GetByID)
	wcGroup.Put("/:id", manage, wcHandler.Update)

	// Reports (protegido)
	reportGroup := protected.Group("/reports")
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsUC)
	reportGroup.Get("/dashboard", analyticsHandler.Dashboard)
	reportGroup.Get("/movements", analyticsHandler.Movements)
	reportGroup.Get("/top-consumed", analyticsHandler.TopConsumed)
}
