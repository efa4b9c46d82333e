package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/tienda-pos/internal/application/closing"
	"github.com/tu-usuario/tienda-pos/internal/application/dto"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
)

// PeriodHandler maneja las peticiones HTTP de períodos contables y
// liquidaciones (protegido).
type PeriodHandler struct {
	open      *closing.OpenPeriodUseCase
	close     *closing.ClosePeriodUseCase
	summary   *closing.PeriodSummaryUseCase
	report    *closing.SettlementReportUseCase
	liquidate *closing.LiquidateSettlementUseCase
}

// NewPeriodHandler construye el handler.
func NewPeriodHandler(
	open *closing.OpenPeriodUseCase,
	closeUC *closing.ClosePeriodUseCase,
	summary *closing.PeriodSummaryUseCase,
	report *closing.SettlementReportUseCase,
	liquidate *closing.LiquidateSettlementUseCase,
) *PeriodHandler {
	return &PeriodHandler{
		open:      open,
		close:     closeUC,
		summary:   summary,
		report:    report,
		liquidate: liquidate,
	}
}

type openPeriodRequest struct {
	StoreID string `json:"store_id"`
}

// Open godoc
// @Summary      Abrir período contable
// @Description  Crea el período abierto de la tienda. Falla si ya hay uno.
// @Tags         periods
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  openPeriodRequest  true  "store_id"
// @Success      201   {object}  dto.PeriodResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/periods/open [post]
func (h *PeriodHandler) Open(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in openPeriodRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	period, err := h.open.Open(c.Context(), businessID, in.StoreID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(periodToDTO(period))
}

type closePeriodRequest struct {
	StoreID string `json:"store_id"`
}

// Close godoc
// @Summary      Cerrar período contable
// @Description  Agrega las ventas del período, genera liquidaciones de
//
//	consignación y abre el período sucesor. El id debe ser el del período
//	abierto actual.
//
// @Tags         periods
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del período"
// @Param        body  body  closePeriodRequest true  "store_id"
// @Success      200   {object}  dto.ClosePeriodResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/periods/{id}/close [post]
func (h *PeriodHandler) Close(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	userID := GetUserID(c)
	if businessID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in closePeriodRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	period, settlements, err := h.close.Close(c.Context(), businessID, in.StoreID, c.Params("id"), userID)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := dto.ClosePeriodResponse{Period: periodToDTO(period)}
	for _, s := range settlements {
		out.Settlements = append(out.Settlements, settlementToDTO(s))
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen de período
// @Description  Cifras brutas y netas del período (abierto o cerrado), con el
//
//	descuento total prorrateado entre mercancía propia y consignación.
//
// @Tags         periods
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true  "ID del período"
// @Param        store_id  query  string  true  "ID de la tienda"
// @Success      200  {object}  dto.PeriodSummaryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/periods/{id}/summary [get]
func (h *PeriodHandler) Summary(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	s, err := h.summary.Summarize(c.Context(), businessID, c.Query("store_id"), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.PeriodSummaryResponse{
		Period:               periodToDTO(s.Period),
		GrossSales:           s.GrossSales,
		DiscountTotal:        s.DiscountTotal,
		NetSales:             s.NetSales,
		OwnSales:             s.OwnSales,
		ConsignmentSales:     s.ConsignmentSales,
		OwnNetProfit:         s.OwnNetProfit,
		ConsignmentNetProfit: s.ConsignmentNetProfit,
		SaleCount:            s.SaleCount,
	})
}

// Report godoc
// @Summary      Reporte PDF del cierre
// @Description  PDF con los totales del período cerrado y las liquidaciones
//
//	a proveedores de consignación.
//
// @Tags         periods
// @Security     Bearer
// @Produce      application/pdf
// @Param        id        path   string  true  "ID del período"
// @Param        store_id  query  string  true  "ID de la tienda"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/periods/{id}/report.pdf [get]
func (h *PeriodHandler) Report(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	data, err := h.report.Generate(c.Context(), businessID, c.Query("store_id"), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="cierre-`+c.Params("id")+`.pdf"`)
	return c.Send(data)
}

// Liquidate godoc
// @Summary      Marcar liquidación como pagada
// @Tags         settlements
// @Security     Bearer
// @Param        id  path  string  true  "ID de la liquidación"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/settlements/{id}/liquidate [put]
func (h *PeriodHandler) Liquidate(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.liquidate.Liquidate(c.Context(), businessID, c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func periodToDTO(p *entity.AccountingPeriod) dto.PeriodResponse {
	out := dto.PeriodResponse{
		ID:                     p.ID,
		StoreID:                p.StoreID,
		StartedAt:              p.StartedAt.Format(time.RFC3339),
		TotalSales:             p.TotalSales,
		TotalInvestment:        p.TotalInvestment,
		TotalProfit:            p.TotalProfit,
		TotalTransfer:          p.TotalTransfer,
		TotalOwnSales:          p.TotalOwnSales,
		TotalOwnProfit:         p.TotalOwnProfit,
		TotalConsignmentSales:  p.TotalConsignmentSales,
		TotalConsignmentProfit: p.TotalConsignmentProfit,
	}
	if p.ClosedAt != nil {
		s := p.ClosedAt.Format(time.RFC3339)
		out.ClosedAt = &s
	}
	return out
}

func settlementToDTO(s *entity.SupplierSettlement) dto.SettlementResponse {
	out := dto.SettlementResponse{
		ID:           s.ID,
		PeriodID:     s.PeriodID,
		SupplierID:   s.SupplierID,
		ProductID:    s.ProductID,
		QuantitySold: s.QuantitySold,
		GrossAmount:  s.GrossAmount,
		UnitCost:     s.UnitCost,
		UnitPrice:    s.UnitPrice,
		ListingQty:   s.ListingQty,
	}
	if s.LiquidatedAt != nil {
		t := s.LiquidatedAt.Format(time.RFC3339)
		out.LiquidatedAt = &t
	}
	return out
}
