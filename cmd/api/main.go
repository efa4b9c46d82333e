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
	"github.com/tu-usuario/tienda-pos/internal/application/closing"
	"github.com/tu-usuario/tienda-pos/internal/application/discount"
	"github.com/tu-usuario/tienda-pos/internal/application/inventory"
	"github.com/tu-usuario/tienda-pos/internal/application/sales"
	infrapdf "github.com/tu-usuario/tienda-pos/internal/infrastructure/pdf"
	"github.com/tu-usuario/tienda-pos/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/tienda-pos/internal/interfaces/http"
	"github.com/tu-usuario/tienda-pos/pkg/config"
	"github.com/tu-usuario/tienda-pos/pkg/logger"
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
		Str("app", cfg.App.Name).
		Bool("allow_backorders", cfg.Ledger.AllowBackorders).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	storeRepo := postgres.NewStoreRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	listingRepo := postgres.NewListingRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	periodRepo := postgres.NewPeriodRepository(pool)
	settlementRepo := postgres.NewSettlementRepository(pool)
	ruleRepo := postgres.NewDiscountRuleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	registerBatchUC := inventory.NewRegisterBatchMovementsUseCase(txRunner, storeRepo, productRepo)
	historyUC := inventory.NewMovementHistoryUseCase(storeRepo, listingRepo, movementRepo)
	computeDiscountUC := discount.NewComputeDiscountsUseCase(storeRepo, listingRepo, productRepo, ruleRepo)
	ruleUC := discount.NewRuleUseCase(ruleRepo)
	recordSaleUC := sales.NewRecordSaleUseCase(txRunner, storeRepo, cfg.Ledger.AllowBackorders)
	cancelSaleUC := sales.NewCancelSaleUseCase(txRunner, saleRepo, storeRepo)
	openPeriodUC := closing.NewOpenPeriodUseCase(txRunner, storeRepo)
	closePeriodUC := closing.NewClosePeriodUseCase(txRunner, storeRepo)
	summaryUC := closing.NewPeriodSummaryUseCase(storeRepo, periodRepo, saleRepo, listingRepo)

	// PDF: representación gráfica del cierre de período
	reportGenerator := infrapdf.NewMarotoReportGenerator()
	reportUC := closing.NewSettlementReportUseCase(storeRepo, periodRepo, settlementRepo, reportGenerator)
	liquidateUC := closing.NewLiquidateSettlementUseCase(storeRepo, periodRepo, settlementRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Tienda POS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		RegisterBatch:   registerBatchUC,
		MovementHistory: historyUC,
		ComputeDiscount: computeDiscountUC,
		DiscountRules:   ruleUC,
		RecordSale:      recordSaleUC,
		CancelSale:      cancelSaleUC,
		OpenPeriod:      openPeriodUC,
		ClosePeriod:     closePeriodUC,
		PeriodSummary:   summaryUC,
		PeriodReport:    reportUC,
		Liquidate:       liquidateUC,
		JWTSecret:       cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
