package repository

import "github.com/tu-usuario/tienda-pos/internal/domain/entity"

// DiscountRuleRepository define el puerto de reglas de descuento del negocio.
type DiscountRuleRepository interface {
	Create(rule *entity.DiscountRule) error
	GetByID(id string) (*entity.DiscountRule, error)
	// ListActiveByBusiness devuelve las reglas activas del negocio en el orden
	// de evaluación contractual: Priority asc, CreatedAt asc, ID asc.
	ListActiveByBusiness(businessID string) ([]*entity.DiscountRule, error)
	ListByBusiness(businessID string, limit, offset int) ([]*entity.DiscountRule, error)
	Deactivate(id string) error
}
