package closing

import (
	"context"

	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
	"github.com/tu-usuario/tienda-pos/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando los
// repositorios atados a esa tx. El cierre de período es una unidad atómica:
// totales, liquidaciones y apertura del sucesor, o nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.TxRepos) error) error
}

// SettlementPDFGenerator genera la representación en PDF del cierre de un
// período (totales + liquidaciones a proveedores).
type SettlementPDFGenerator interface {
	GenerateSettlementReport(
		ctx context.Context,
		store *entity.Store,
		period *entity.AccountingPeriod,
		settlements []*entity.SupplierSettlement,
	) ([]byte, error)
}
