package dto

import "github.com/shopspring/decimal"

// BatchMovementItem es un renglón de una operación masiva de inventario
// (compra, ajuste, consignación). Si ListingID está vacío y ProductID no,
// se crea el listing de la tienda con Price/Cost iniciales (upsert).
type BatchMovementItem struct {
	ListingID string           `json:"listing_id"`
	ProductID string           `json:"product_id"`
	Type      string           `json:"type"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Reason    string           `json:"reason,omitempty"`
}

// RecordBatchMovementsRequest solicitud de registro masivo de movimientos.
type RecordBatchMovementsRequest struct {
	StoreID string              `json:"store_id"`
	Items   []BatchMovementItem `json:"items"`
}

// MovementResponse proyección de un movimiento del libro para la API.
type MovementResponse struct {
	ID             string           `json:"id"`
	Type           string           `json:"type"`
	Quantity       decimal.Decimal  `json:"quantity"`
	QuantityBefore decimal.Decimal  `json:"quantity_before"`
	ListingID      string           `json:"listing_id"`
	ReferenceID    *string          `json:"reference_id,omitempty"`
	Reason         *string          `json:"reason,omitempty"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
	CostBefore     *decimal.Decimal `json:"cost_before,omitempty"`
	CostAfter      *decimal.Decimal `json:"cost_after,omitempty"`
	CreatedAt      string           `json:"created_at"`
}
