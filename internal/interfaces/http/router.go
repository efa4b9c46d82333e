package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/tienda-pos/internal/application/closing"
	"github.com/tu-usuario/tienda-pos/internal/application/discount"
	"github.com/tu-usuario/tienda-pos/internal/application/inventory"
	"github.com/tu-usuario/tienda-pos/internal/application/sales"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RegisterBatch   *inventory.RegisterBatchMovementsUseCase
	MovementHistory *inventory.MovementHistoryUseCase
	ComputeDiscount *discount.ComputeDiscountsUseCase
	DiscountRules   *discount.RuleUseCase
	RecordSale      *sales.RecordSaleUseCase
	CancelSale      *sales.CancelSaleUseCase
	OpenPeriod      *closing.OpenPeriodUseCase
	ClosePeriod     *closing.ClosePeriodUseCase
	PeriodSummary   *closing.PeriodSummaryUseCase
	PeriodReport    *closing.SettlementReportUseCase
	Liquidate       *closing.LiquidateSettlementUseCase
	JWTSecret       string
}

// Router registra las rutas de la API. Todas requieren Bearer Token; las
// operaciones de administración (reglas, cierre, liquidaciones) además
// exigen rol admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Inventory (admin y cajero)
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterBatch, deps.MovementHistory)
	inv.Post("/movements", RequireRole("admin", "cajero"), inventoryHandler.RegisterBatch)
	inv.Get("/listings/:id/movements", inventoryHandler.ListMovements)

	// Discounts
	discounts := api.Group("/discounts")
	discountHandler := NewDiscountHandler(deps.ComputeDiscount, deps.DiscountRules)
	discounts.Post("/compute", discountHandler.Compute)
	discounts.Post("/rules", RequireRole("admin"), discountHandler.CreateRule)
	discounts.Get("/rules", discountHandler.ListRules)
	discounts.Delete("/rules/:id", RequireRole("admin"), discountHandler.DeactivateRule)

	// Sales (admin y cajero)
	salesGroup := api.Group("/sales")
	salesHandler := NewSalesHandler(deps.ComputeDiscount, deps.RecordSale, deps.CancelSale)
	salesGroup.Post("/", RequireRole("admin", "cajero"), salesHandler.Create)
	salesGroup.Delete("/:id", RequireRole("admin", "cajero"), salesHandler.Cancel)

	// Periods y settlements (cierre y pagos: solo admin)
	periods := api.Group("/periods")
	periodHandler := NewPeriodHandler(deps.OpenPeriod, deps.ClosePeriod, deps.PeriodSummary, deps.PeriodReport, deps.Liquidate)
	periods.Post("/open", RequireRole("admin"), periodHandler.Open)
	periods.Post("/:id/close", RequireRole("admin"), periodHandler.Close)
	periods.Get("/:id/summary", periodHandler.Summary)
	periods.Get("/:id/report.pdf", periodHandler.Report)

	settlements := api.Group("/settlements")
	settlements.Put("/:id/liquidate", RequireRole("admin"), periodHandler.Liquidate)
}
