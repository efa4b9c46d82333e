package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Listing representa la presencia de un producto en una tienda: existencia
// (cantidad a mano), costo unitario y precio de venta. SupplierID no nulo
// marca el artículo como consignación (propiedad del proveedor).
// Nunca se elimina mientras existan movimientos o líneas de venta que la
// referencien.
type Listing struct {
	ID         string
	StoreID    string
	ProductID  string
	Quantity   decimal.Decimal // existencia
	Cost       decimal.Decimal // costo (promedio ponderado, base de utilidad)
	Price      decimal.Decimal // precio de venta
	SupplierID *string         // no nulo => consignación
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsConsignment indica si la mercancía pertenece a un proveedor externo.
func (l *Listing) IsConsignment() bool {
	return l.SupplierID != nil && *l.SupplierID != ""
}
