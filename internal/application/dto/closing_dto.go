package dto

import "github.com/shopspring/decimal"

// PeriodResponse proyección de un período contable.
type PeriodResponse struct {
	ID                     string          `json:"id"`
	StoreID                string          `json:"store_id"`
	StartedAt              string          `json:"started_at"`
	ClosedAt               *string         `json:"closed_at,omitempty"`
	TotalSales             decimal.Decimal `json:"total_sales"`
	TotalInvestment        decimal.Decimal `json:"total_investment"`
	TotalProfit            decimal.Decimal `json:"total_profit"`
	TotalTransfer          decimal.Decimal `json:"total_transfer"`
	TotalOwnSales          decimal.Decimal `json:"total_own_sales"`
	TotalOwnProfit         decimal.Decimal `json:"total_own_profit"`
	TotalConsignmentSales  decimal.Decimal `json:"total_consignment_sales"`
	TotalConsignmentProfit decimal.Decimal `json:"total_consignment_profit"`
}

// SettlementResponse liquidación a proveedor de un período cerrado.
type SettlementResponse struct {
	ID           string          `json:"id"`
	PeriodID     string          `json:"period_id"`
	SupplierID   string          `json:"supplier_id"`
	ProductID    string          `json:"product_id"`
	QuantitySold decimal.Decimal `json:"quantity_sold"`
	GrossAmount  decimal.Decimal `json:"gross_amount"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	ListingQty   decimal.Decimal `json:"listing_quantity"`
	LiquidatedAt *string         `json:"liquidated_at,omitempty"`
}

// ClosePeriodResponse resultado del cierre: período cerrado + liquidaciones.
type ClosePeriodResponse struct {
	Period      PeriodResponse       `json:"period"`
	Settlements []SettlementResponse `json:"settlements"`
}

// PeriodSummaryResponse vista de solo lectura con cifras brutas y netas
// (prorrateo de descuentos por categoría propia/consignación).
type PeriodSummaryResponse struct {
	Period               PeriodResponse  `json:"period"`
	GrossSales           decimal.Decimal `json:"gross_sales"`
	DiscountTotal        decimal.Decimal `json:"discount_total"`
	NetSales             decimal.Decimal `json:"net_sales"`
	OwnSales             decimal.Decimal `json:"own_sales"`
	ConsignmentSales     decimal.Decimal `json:"consignment_sales"`
	OwnNetProfit         decimal.Decimal `json:"own_net_profit"`
	ConsignmentNetProfit decimal.Decimal `json:"consignment_net_profit"`
	SaleCount            int             `json:"sale_count"`
}
