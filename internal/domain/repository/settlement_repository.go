package repository

import (
	"time"

	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
)

// SettlementRepository define el puerto de liquidaciones a proveedores.
// Las filas se crean solo en el cierre de período; después únicamente se
// estampa la fecha de pago.
type SettlementRepository interface {
	Create(settlement *entity.SupplierSettlement) error
	GetByID(id string) (*entity.SupplierSettlement, error)
	ListByPeriod(periodID string) ([]*entity.SupplierSettlement, error)
	MarkLiquidated(id string, at time.Time) error
}
