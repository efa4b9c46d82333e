package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale representa una venta registrada. PeriodID es el período contable
// abierto al momento de crearla; la venta solo puede eliminarse (cancelarse)
// mientras ese período siga abierto.
type Sale struct {
	ID                    string
	StoreID               string
	ActorID               string
	PeriodID              string
	Total                 decimal.Decimal
	TotalCash             decimal.Decimal
	TotalTransfer         decimal.Decimal
	DiscountTotal         decimal.Decimal
	TransferDestinationID *string
	CreatedAt             time.Time

	Items []SaleLineItem
}

// SaleLineItem es una línea de venta. UnitCost es la foto del costo del
// listing al momento de vender; no se recalcula después.
type SaleLineItem struct {
	ID        string
	SaleID    string
	ListingID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	UnitCost  decimal.Decimal
}

// AppliedDiscount vincula una venta con la regla de descuento que aplicó y el
// monto resultante.
type AppliedDiscount struct {
	ID     string
	SaleID string
	RuleID string
	Amount decimal.Decimal
}
