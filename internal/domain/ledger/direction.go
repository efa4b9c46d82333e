// Package ledger centraliza la tabla de dirección de los movimientos de
// inventario y el mapa de inversión usado por la cancelación de ventas.
// Es la única fuente de verdad del signo: ningún otro componente debe
// reimplementar esta lógica.
package ledger

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tienda-pos/internal/domain"
)

// MovementType enumera los tipos de movimiento del libro de inventario.
type MovementType string

const (
	Compra                 MovementType = "COMPRA"
	Venta                  MovementType = "VENTA"
	AjusteEntrada          MovementType = "AJUSTE_ENTRADA"
	AjusteSalida           MovementType = "AJUSTE_SALIDA"
	TraspasoEntrada        MovementType = "TRASPASO_ENTRADA"
	TraspasoSalida         MovementType = "TRASPASO_SALIDA"
	DesagregacionBaja      MovementType = "DESAGREGACION_BAJA"
	DesagregacionAlta      MovementType = "DESAGREGACION_ALTA"
	ConsignacionEntrada    MovementType = "CONSIGNACION_ENTRADA"
	ConsignacionDevolucion MovementType = "CONSIGNACION_DEVOLUCION"
)

// direction mapea cada tipo a su efecto sobre la existencia: +1 suma, -1 resta.
var direction = map[MovementType]int{
	Compra:                 +1,
	Venta:                  -1,
	AjusteEntrada:          +1,
	AjusteSalida:           -1,
	TraspasoEntrada:        +1,
	TraspasoSalida:         -1,
	DesagregacionBaja:      -1,
	DesagregacionAlta:      +1,
	ConsignacionEntrada:    +1,
	ConsignacionDevolucion: -1,
}

// Valid indica si el tipo pertenece a la tabla de dirección.
func (t MovementType) Valid() bool {
	_, ok := direction[t]
	return ok
}

// Direction devuelve +1 o -1 según la tabla. Error de validación si el tipo
// no existe.
func (t MovementType) Direction() (int, error) {
	d, ok := direction[t]
	if !ok {
		return 0, domain.ErrInvalidInput
	}
	return d, nil
}

// Delta devuelve la variación firmada de existencia para una magnitud
// positiva dada.
func (t MovementType) Delta(quantity decimal.Decimal) (decimal.Decimal, error) {
	d, err := t.Direction()
	if err != nil {
		return decimal.Zero, err
	}
	if d < 0 {
		return quantity.Neg(), nil
	}
	return quantity, nil
}

// Inverse devuelve el tipo compensatorio para revertir un movimiento de una
// venta: los tipos que restaron existencia (VENTA, DESAGREGACION_BAJA) se
// compensan con AJUSTE_ENTRADA; el resto con AJUSTE_SALIDA.
func (t MovementType) Inverse() MovementType {
	switch t {
	case Venta, DesagregacionBaja:
		return AjusteEntrada
	default:
		return AjusteSalida
	}
}

// IsInbound indica si el tipo suma existencia (entradas de mercancía con
// costo: COMPRA y CONSIGNACION_ENTRADA disparan el write-back de costo
// promedio ponderado).
func (t MovementType) IsInbound() bool {
	d, ok := direction[t]
	return ok && d > 0
}

// All devuelve los tipos en orden estable (útil para validación y tests).
func All() []MovementType {
	return []MovementType{
		Compra, Venta, AjusteEntrada, AjusteSalida,
		TraspasoEntrada, TraspasoSalida,
		DesagregacionBaja, DesagregacionAlta,
		ConsignacionEntrada, ConsignacionDevolucion,
	}
}
