package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Taxonomía: validación, no-encontrado, estado y conflicto. Los fallos de
// transacción se propagan envueltos desde infraestructura para que el caller
// decida el reintento.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("existencia insuficiente")

	// Estados del ciclo de períodos contables.
	ErrNoOpenPeriod       = errors.New("la tienda no tiene período abierto")
	ErrOpenPeriodExists   = errors.New("la tienda ya tiene un período abierto")
	ErrPeriodClosed       = errors.New("el período ya está cerrado")
	ErrPeriodMismatch     = errors.New("el período indicado no es el último abierto")
	ErrSaleInClosedPeriod = errors.New("la venta pertenece a un período cerrado")
)
