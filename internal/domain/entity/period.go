package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountingPeriod es la ventana contable de una tienda. Invariante: a lo sumo
// un período abierto (ClosedAt == nil) por tienda. Lo cierra exactamente una
// vez el motor de cierre, que abre de inmediato el sucesor.
type AccountingPeriod struct {
	ID        string
	StoreID   string
	StartedAt time.Time
	ClosedAt  *time.Time

	// Agregados calculados al cierre (cero mientras el período está abierto).
	TotalSales             decimal.Decimal
	TotalInvestment        decimal.Decimal // costo de mercancía propia vendida
	TotalProfit            decimal.Decimal
	TotalTransfer          decimal.Decimal
	TotalOwnSales          decimal.Decimal
	TotalOwnProfit         decimal.Decimal
	TotalConsignmentSales  decimal.Decimal
	TotalConsignmentProfit decimal.Decimal
}

// IsOpen indica si el período sigue acumulando ventas.
func (p *AccountingPeriod) IsOpen() bool {
	return p.ClosedAt == nil
}
