package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de regla de descuento.
const (
	DiscountTypePercentage = "PERCENTAGE"
	DiscountTypeFixed      = "FIXED"
)

// Alcances de una regla de descuento.
const (
	DiscountScopeTicket   = "TICKET"
	DiscountScopeProduct  = "PRODUCT"
	DiscountScopeCategory = "CATEGORY"
)

// DiscountRule es una regla de descuento del negocio. Code único por negocio
// cuando no es nil. Priority define el orden de evaluación (contrato
// explícito: Priority asc, CreatedAt asc, ID asc); las reglas evaluadas antes
// consumen primero el total descontable restante.
type DiscountRule struct {
	ID          string
	BusinessID  string
	Name        string
	Type        string // PERCENTAGE | FIXED
	Value       decimal.Decimal
	Scope       string // TICKET | PRODUCT | CATEGORY
	Code        *string
	MinSubtotal *decimal.Decimal
	ProductIDs  []string
	CategoryIDs []string
	CustomerIDs []string
	Priority    int
	IsActive    bool
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
}

// InWindow indica si la regla está vigente en el instante dado (límite
// ausente = sin límite).
func (r *DiscountRule) InWindow(now time.Time) bool {
	if r.StartDate != nil && now.Before(*r.StartDate) {
		return false
	}
	if r.EndDate != nil && now.After(*r.EndDate) {
		return false
	}
	return true
}
