package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/tienda-pos/internal/application/discount"
	"github.com/tu-usuario/tienda-pos/internal/application/dto"
	"github.com/tu-usuario/tienda-pos/internal/application/sales"
)

// SalesHandler maneja las peticiones HTTP de ventas (protegido).
type SalesHandler struct {
	compute *discount.ComputeDiscountsUseCase
	record  *sales.RecordSaleUseCase
	cancel  *sales.CancelSaleUseCase
}

// NewSalesHandler construye el handler.
func NewSalesHandler(
	compute *discount.ComputeDiscountsUseCase,
	record *sales.RecordSaleUseCase,
	cancel *sales.CancelSaleUseCase,
) *SalesHandler {
	return &SalesHandler{compute: compute, record: record, cancel: cancel}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Evalúa descuentos, descuenta existencias, escribe el libro y
//
//	persiste la venta en el período abierto. Todo o nada.
//
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordSaleRequest  true  "store_id, lines, codes, pagos"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SalesHandler) Create(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	userID := GetUserID(c)
	if businessID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RecordSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	// El desglose de descuentos se calcula aquí y viaja ya resuelto al
	// registro: la venta persiste exactamente lo que el motor decidió.
	result, err := h.compute.Compute(c.Context(), businessID, in.StoreID, in.Lines, in.Codes)
	if err != nil {
		return respondDomainError(c, err)
	}
	sale, err := h.record.Record(
		c.Context(), businessID, in.StoreID, userID,
		in.Lines, result,
		in.TotalCash, in.TotalTransfer, in.TransferDestinationID,
	)
	if err != nil {
		return respondDomainError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SaleResponse{
		ID:            sale.ID,
		StoreID:       sale.StoreID,
		PeriodID:      sale.PeriodID,
		Total:         sale.Total,
		TotalCash:     sale.TotalCash,
		TotalTransfer: sale.TotalTransfer,
		DiscountTotal: sale.DiscountTotal,
		Discounts:     discount.ToDTO(result),
		CreatedAt:     sale.CreatedAt.Format(time.RFC3339),
	})
}

// Cancel godoc
// @Summary      Cancelar venta
// @Description  Revierte las existencias con movimientos compensatorios y
//
//	elimina la venta. Solo mientras su período siga abierto.
//
// @Tags         sales
// @Security     Bearer
// @Param        id        path   string  true  "ID de la venta"
// @Param        store_id  query  string  true  "ID de la tienda"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SalesHandler) Cancel(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	userID := GetUserID(c)
	if businessID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	saleID := c.Params("id")
	storeID := c.Query("store_id")
	if err := h.cancel.Cancel(c.Context(), businessID, storeID, saleID, userID); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
