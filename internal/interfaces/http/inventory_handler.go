package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/tienda-pos/internal/application/dto"
	"github.com/tu-usuario/tienda-pos/internal/application/inventory"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP del libro de inventario
// (protegido).
type InventoryHandler struct {
	batch   *inventory.RegisterBatchMovementsUseCase
	history *inventory.MovementHistoryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(batch *inventory.RegisterBatchMovementsUseCase, history *inventory.MovementHistoryUseCase) *InventoryHandler {
	return &InventoryHandler{batch: batch, history: history}
}

// RegisterBatch godoc
// @Summary      Registrar movimientos de inventario en lote
// @Description  Aplica una lista de movimientos (compra, ajuste, traspaso,
//
//	desagregación, consignación) en una sola transacción. Un renglón sin
//	listing_id crea el listing del producto en la tienda.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordBatchMovementsRequest  true  "store_id e items"
// @Success      201   {array}   dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterBatch(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	userID := GetUserID(c)
	if businessID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RecordBatchMovementsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	movements, err := h.batch.RegisterBatch(c.Context(), businessID, in.StoreID, userID, in.Items)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, movementToDTO(m))
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos de un listing
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del listing"
// @Param        limit   query  int     false  "Máximo de filas (default 50)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.MovementResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/listings/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	listingID := c.Params("id")
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	movements, err := h.history.List(c.Context(), businessID, listingID, limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, movementToDTO(m))
	}
	return c.JSON(out)
}

func movementToDTO(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		Type:           m.Type,
		Quantity:       m.Quantity,
		QuantityBefore: m.QuantityBefore,
		ListingID:      m.ListingID,
		ReferenceID:    m.ReferenceID,
		Reason:         m.Reason,
		UnitCost:       m.UnitCost,
		CostBefore:     m.CostBefore,
		CostAfter:      m.CostAfter,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
}
