package dto

import "github.com/shopspring/decimal"

// RecordSaleRequest solicitud de registro de venta. Codes alimenta el motor
// de descuentos; el desglose resultante se persiste con la venta. Si cash y
// transfer vienen en cero, el total se asume en efectivo.
type RecordSaleRequest struct {
	StoreID               string            `json:"store_id"`
	Lines                 []SaleLineRequest `json:"lines"`
	Codes                 []string          `json:"codes,omitempty"`
	TotalCash             decimal.Decimal   `json:"total_cash"`
	TotalTransfer         decimal.Decimal   `json:"total_transfer"`
	TransferDestinationID *string           `json:"transfer_destination_id,omitempty"`
}

// SaleResponse proyección de una venta registrada.
type SaleResponse struct {
	ID            string            `json:"id"`
	StoreID       string            `json:"store_id"`
	PeriodID      string            `json:"period_id"`
	Total         decimal.Decimal   `json:"total"`
	TotalCash     decimal.Decimal   `json:"total_cash"`
	TotalTransfer decimal.Decimal   `json:"total_transfer"`
	DiscountTotal decimal.Decimal   `json:"discount_total"`
	Discounts     DiscountResultDTO `json:"discounts"`
	CreatedAt     string            `json:"created_at"`
}
