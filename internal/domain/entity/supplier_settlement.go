package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplierSettlement es la liquidación a un proveedor de consignación por un
// período cerrado: una fila por (proveedor, producto, período). Se crea solo
// al cierre; LiquidatedAt queda nulo hasta que se paga.
type SupplierSettlement struct {
	ID           string
	PeriodID     string
	SupplierID   string
	ProductID    string
	QuantitySold decimal.Decimal
	GrossAmount  decimal.Decimal // costo*cantidad: lo adeudado al proveedor
	UnitCost     decimal.Decimal // promedio ponderado (GrossAmount/QuantitySold)
	UnitPrice    decimal.Decimal // último precio visto en el período
	ListingQty   decimal.Decimal // foto de la existencia del listing al cierre
	LiquidatedAt *time.Time
	CreatedAt    time.Time
}
