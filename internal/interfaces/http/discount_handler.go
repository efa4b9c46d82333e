package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/tienda-pos/internal/application/discount"
	"github.com/tu-usuario/tienda-pos/internal/application/dto"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
)

// DiscountHandler maneja las peticiones HTTP de descuentos (protegido).
type DiscountHandler struct {
	compute *discount.ComputeDiscountsUseCase
	rules   *discount.RuleUseCase
}

// NewDiscountHandler construye el handler.
func NewDiscountHandler(compute *discount.ComputeDiscountsUseCase, rules *discount.RuleUseCase) *DiscountHandler {
	return &DiscountHandler{compute: compute, rules: rules}
}

// Compute godoc
// @Summary      Evaluar descuentos para una venta prospectiva
// @Description  Devuelve el desglose (base, descuento, final, reglas que
//
//	aplicaron) sin tocar inventario ni persistir nada.
//
// @Tags         discounts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ComputeDiscountsRequest  true  "store_id, lines, codes"
// @Success      200   {object}  dto.DiscountResultDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/discounts/compute [post]
func (h *DiscountHandler) Compute(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ComputeDiscountsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.compute.Compute(c.Context(), businessID, in.StoreID, in.Lines, in.Codes)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(discount.ToDTO(res))
}

// CreateRule godoc
// @Summary      Crear regla de descuento
// @Tags         discounts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDiscountRuleRequest  true  "regla"
// @Success      201   {object}  dto.DiscountRuleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/discounts/rules [post]
func (h *DiscountHandler) CreateRule(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateDiscountRuleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rule, err := h.rules.Create(c.Context(), businessID, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ruleToDTO(rule))
}

// ListRules godoc
// @Summary      Listar reglas de descuento del negocio
// @Tags         discounts
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Máximo de filas (default 50)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}  dto.DiscountRuleResponse
// @Router       /api/discounts/rules [get]
func (h *DiscountHandler) ListRules(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	rules, err := h.rules.List(c.Context(), businessID, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.DiscountRuleResponse, 0, len(rules))
	for _, r := range rules {
		out = append(out, ruleToDTO(r))
	}
	return c.JSON(out)
}

// DeactivateRule godoc
// @Summary      Desactivar regla de descuento
// @Description  La regla deja de aplicar a ventas futuras; las ventas pasadas
//
//	conservan su referencia.
//
// @Tags         discounts
// @Security     Bearer
// @Param        id  path  string  true  "ID de la regla"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/discounts/rules/{id} [delete]
func (h *DiscountHandler) DeactivateRule(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.rules.Deactivate(c.Context(), businessID, c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func ruleToDTO(r *entity.DiscountRule) dto.DiscountRuleResponse {
	out := dto.DiscountRuleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Type:        r.Type,
		Value:       r.Value,
		Scope:       r.Scope,
		Code:        r.Code,
		MinSubtotal: r.MinSubtotal,
		ProductIDs:  r.ProductIDs,
		CategoryIDs: r.CategoryIDs,
		CustomerIDs: r.CustomerIDs,
		Priority:    r.Priority,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}
	if r.StartDate != nil {
		s := r.StartDate.Format(time.RFC3339)
		out.StartDate = &s
	}
	if r.EndDate != nil {
		s := r.EndDate.Format(time.RFC3339)
		out.EndDate = &s
	}
	return out
}
