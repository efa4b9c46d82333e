package repository

import "github.com/tu-usuario/tienda-pos/internal/domain/entity"

// PeriodRepository define el puerto de períodos contables.
// GetLatestForUpdate bloquea la fila del último período de la tienda; es la
// guarda optimista que serializa dos cierres concurrentes.
type PeriodRepository interface {
	GetByID(id string) (*entity.AccountingPeriod, error)
	GetLatestByStore(storeID string) (*entity.AccountingPeriod, error)
	GetLatestForUpdate(storeID string) (*entity.AccountingPeriod, error)
	Create(period *entity.AccountingPeriod) error
	// Close persiste closedAt y todos los agregados calculados al cierre.
	Close(period *entity.AccountingPeriod) error
}
