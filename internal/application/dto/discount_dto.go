package dto

import "github.com/shopspring/decimal"

// SaleLineRequest línea prospectiva de venta. UnitPrice en cero toma el
// precio del listing.
type SaleLineRequest struct {
	ListingID string          `json:"listing_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ComputeDiscountsRequest solicitud de evaluación de descuentos.
type ComputeDiscountsRequest struct {
	StoreID string            `json:"store_id"`
	Lines   []SaleLineRequest `json:"lines"`
	Codes   []string          `json:"codes,omitempty"`
}

// AppliedDiscountDTO regla que aplicó y monto resultante.
type AppliedDiscountDTO struct {
	RuleID     string          `json:"rule_id"`
	RuleName   string          `json:"rule_name"`
	Amount     decimal.Decimal `json:"amount"`
	ListingIDs []string        `json:"listing_ids,omitempty"`
}

// DiscountResultDTO desglose de descuentos para una venta prospectiva.
type DiscountResultDTO struct {
	BaseTotal     decimal.Decimal      `json:"base_total"`
	DiscountTotal decimal.Decimal      `json:"discount_total"`
	FinalTotal    decimal.Decimal      `json:"final_total"`
	Applied       []AppliedDiscountDTO `json:"applied"`
}

// CreateDiscountRuleRequest alta de regla de descuento.
type CreateDiscountRuleRequest struct {
	Name        string           `json:"name"`
	Type        string           `json:"type"`  // PERCENTAGE | FIXED
	Value       decimal.Decimal  `json:"value"`
	Scope       string           `json:"scope"` // TICKET | PRODUCT | CATEGORY
	Code        *string          `json:"code,omitempty"`
	MinSubtotal *decimal.Decimal `json:"min_subtotal,omitempty"`
	ProductIDs  []string         `json:"product_ids,omitempty"`
	CategoryIDs []string         `json:"category_ids,omitempty"`
	CustomerIDs []string         `json:"customer_ids,omitempty"`
	Priority    int              `json:"priority"`
	StartDate   *string          `json:"start_date,omitempty"` // RFC 3339
	EndDate     *string          `json:"end_date,omitempty"`
}

// DiscountRuleResponse proyección de una regla de descuento.
type DiscountRuleResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Type        string           `json:"type"`
	Value       decimal.Decimal  `json:"value"`
	Scope       string           `json:"scope"`
	Code        *string          `json:"code,omitempty"`
	MinSubtotal *decimal.Decimal `json:"min_subtotal,omitempty"`
	ProductIDs  []string         `json:"product_ids,omitempty"`
	CategoryIDs []string         `json:"category_ids,omitempty"`
	CustomerIDs []string         `json:"customer_ids,omitempty"`
	Priority    int              `json:"priority"`
	IsActive    bool             `json:"is_active"`
	StartDate   *string          `json:"start_date,omitempty"`
	EndDate     *string          `json:"end_date,omitempty"`
	CreatedAt   string           `json:"created_at"`
}
