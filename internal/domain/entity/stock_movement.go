package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockMovement es un registro inmutable del libro de inventario. Quantity
// siempre es magnitud positiva; el signo lo determina la tabla de dirección
// del paquete ledger. Nunca se actualiza ni se borra: las cancelaciones
// agregan movimientos compensatorios.
type StockMovement struct {
	ID             string
	Type           string // ledger.MovementType
	Quantity       decimal.Decimal
	QuantityBefore decimal.Decimal // existencia del listing antes de aplicar
	ListingID      string
	StoreID        string
	ActorID        string
	ReferenceID    *string // venta u operación que lo originó
	Reason         *string
	UnitCost       *decimal.Decimal
	TotalCost      *decimal.Decimal
	CostBefore     *decimal.Decimal // costo del listing antes del write-back CPP
	CostAfter      *decimal.Decimal
	CreatedAt      time.Time
}
