package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/flowforge/flowforge-api/internal/application/analytics"
	"github.com/flowforge/flowforge-api/internal/application/auth"
	"github.com/flowforge/flowforge-api/internal/application/bom"
	"github.com/flowforge/flowforge-api/internal/application/orders"
	"github.com/flowforge/flowforge-api/internal/application/products"
	"github.com/flowforge/flowforge-api/internal/application/stock"
	"github.com/flowforge/flowforge-api/internal/application/workcenters"
	"github.com/flowforge/flowforge-api/internal/application/workorders"
	infrapdf "github.com/flowforge/flowforge-api/internal/infrastructure/pdf"
	"github.com/flowforge/flowforge-api/internal/infrastructure/postgres"
	httpRouter "github.com/flowforge/flowforge-api/internal/interfaces/http"
	"github.com/flowforge/flowforge-api/pkg/config"
	"github.com/flowforge/flowforge-api/pkg/jwt"
	"github.com/flowforge/flowforge-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios sobre el pool (las operaciones transaccionales usan
	// repos ligados a la tx vía TxRunner).
	userRepo := postgres.NewUserRepository(pool)
	itemRepo := postgres.NewStockItemRepository(pool)
	movRepo := postgres.NewStockMovementRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	bomRepo := postgres.NewBOMRepository(pool)
	orderRepo := postgres.NewManufacturingOrderRepository(pool)
	woRepo := postgres.NewWorkOrderRepository(pool)
	wcRepo := postgres.NewWorkCenterRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)

	authUC := auth.NewAuthUseCase(userRepo, jwtManager)
	stockUC := stock.NewStockUseCase(itemRepo, movRepo)
	movementUC := stock.NewPostMovementUseCase(txRunner)
	productUC := products.NewProductUseCase(productRepo, bomRepo)
	bomUC := bom.NewBOMUseCase(txRunner, bomRepo, productRepo, itemRepo)
	orderUC := orders.NewOrderUseCase(txRunner, orderRepo, bomRepo, itemRepo, productRepo, movementUC)
	sheetGenerator := infrapdf.NewMarotoSheetGenerator()
	sheetUC := orders.NewSheetUseCase(orderRepo, productRepo, bomRepo, itemRepo, woRepo, wcRepo, sheetGenerator)
	workOrderUC := workorders.NewWorkOrderUseCase(txRunner, woRepo, orderRepo, wcRepo)
	workCenterUC := workcenters.NewWorkCenterUseCase(wcRepo)
	analyticsUC := analytics.NewAnalyticsUseCase(analyticsRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "FlowForge API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		StockUC:      stockUC,
		MovementUC:   movementUC,
		ProductUC:    productUC,
		BOMUC:        bomUC,
		OrderUC:      orderUC,
		SheetUC:      sheetUC,
		WorkOrderUC:  workOrderUC,
		WorkCenterUC: workCenterUC,
		AnalyticsUC:  analyticsUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("apagando servidor")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("apagado del servidor HTTP")
	}
}
