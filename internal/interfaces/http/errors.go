package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/tienda-pos/internal/application/dto"
	"github.com/tu-usuario/tienda-pos/internal/domain"
)

// respondDomainError traduce los errores de dominio a la respuesta HTTP
// uniforme. Todo lo no mapeado es un 500.
func respondDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el recurso ya existe"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "existencia insuficiente"})
	case errors.Is(err, domain.ErrNoOpenPeriod):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_OPEN_PERIOD", Message: "la tienda no tiene período abierto"})
	case errors.Is(err, domain.ErrOpenPeriodExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "OPEN_PERIOD_EXISTS", Message: "ya hay un período abierto"})
	case errors.Is(err, domain.ErrPeriodClosed):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PERIOD_CLOSED", Message: "el período ya está cerrado"})
	case errors.Is(err, domain.ErrPeriodMismatch):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PERIOD_MISMATCH", Message: "el período indicado no es el período abierto actual"})
	case errors.Is(err, domain.ErrSaleInClosedPeriod):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SALE_IN_CLOSED_PERIOD", Message: "la venta pertenece a un período cerrado"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto de estado"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
