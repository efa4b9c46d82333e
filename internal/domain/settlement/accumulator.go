// Package settlement implementa el acumulador de liquidaciones a proveedores
// de consignación. Es un servicio de dominio puro: el motor de cierre lo
// alimenta línea a línea y al final persiste un SupplierSettlement por clave.
package settlement

import "github.com/shopspring/decimal"

// Key identifica una liquidación dentro de un período: (proveedor, producto).
type Key struct {
	SupplierID string
	ProductID  string
}

// Aggregate acumula las ventas en consignación de una clave. UnitCost es el
// promedio ponderado corrido: GrossAmount / QuantitySold tras cada aporte.
type Aggregate struct {
	Key          Key
	QuantitySold decimal.Decimal
	GrossAmount  decimal.Decimal // costo*cantidad adeudado al proveedor
	UnitCost     decimal.Decimal
	UnitPrice    decimal.Decimal // último precio de venta visto
	ListingQty   decimal.Decimal // foto de la existencia al cierre
}

// Accumulator agrupa líneas de venta en consignación por clave, en orden de
// primera aparición (orden estable para persistencia y tests).
type Accumulator struct {
	order []Key
	byKey map[Key]*Aggregate
}

// NewAccumulator construye un acumulador vacío.
func NewAccumulator() *Accumulator {
	return &Accumulator{byKey: make(map[Key]*Aggregate)}
}

// Add aporta una línea: qty unidades a costo unitario unitCost, vendidas a
// precio unitPrice. listingQty es la existencia actual del listing; se guarda
// la última vista.
func (a *Accumulator) Add(supplierID, productID string, qty, unitCost, unitPrice, listingQty decimal.Decimal) {
	k := Key{SupplierID: supplierID, ProductID: productID}
	agg, ok := a.byKey[k]
	if !ok {
		agg = &Aggregate{Key: k}
		a.byKey[k] = agg
		a.order = append(a.order, k)
	}
	agg.QuantitySold = agg.QuantitySold.Add(qty)
	agg.GrossAmount = agg.GrossAmount.Add(qty.Mul(unitCost))
	if agg.QuantitySold.IsPositive() {
		agg.UnitCost = agg.GrossAmount.Div(agg.QuantitySold)
	}
	agg.UnitPrice = unitPrice
	agg.ListingQty = listingQty
}

// Aggregates devuelve los acumulados en orden de primera aparición.
func (a *Accumulator) Aggregates() []Aggregate {
	out := make([]Aggregate, 0, len(a.order))
	for _, k := range a.order {
		out = append(out, *a.byKey[k])
	}
	return out
}

// Len devuelve el número de claves acumuladas.
func (a *Accumulator) Len() int { return len(a.order) }
