package sales

import (
	"context"
	"time"

	"github.com/tu-usuario/tienda-pos/internal/application/inventory"
	"github.com/tu-usuario/tienda-pos/internal/domain"
	"github.com/tu-usuario/tienda-pos/internal/domain/ledger"
	"github.com/tu-usuario/tienda-pos/internal/domain/repository"
)

// Motivo registrado en los movimientos compensatorios de una cancelación.
const cancellationReason = "sale cancellation"

// CancelSaleUseCase revierte una venta registrada: emite movimientos
// compensatorios por cada movimiento de la venta (mapa de inversión del
// paquete ledger) y elimina descuentos aplicados, líneas y venta. El libro
// nunca se edita: la cancelación misma queda auditada como entradas nuevas.
type CancelSaleUseCase struct {
	txRunner  TxRunner
	saleRepo  repository.SaleRepository
	storeRepo repository.StoreRepository
}

// NewCancelSaleUseCase construye el caso de uso.
func NewCancelSaleUseCase(txRunner TxRunner, saleRepo repository.SaleRepository, storeRepo repository.StoreRepository) *CancelSaleUseCase {
	return &CancelSaleUseCase{txRunner: txRunner, saleRepo: saleRepo, storeRepo: storeRepo}
}

// Cancel revierte la venta. Precondición: el período de la venta sigue
// abierto; las ventas de períodos cerrados son inmutables.
func (uc *CancelSaleUseCase) Cancel(ctx context.Context, businessID, storeID, saleID, actorID string) error {
	if storeID == "" || saleID == "" || actorID == "" {
		return domain.ErrInvalidInput
	}
	store, err := uc.storeRepo.GetByID(storeID)
	if err != nil || store == nil {
		return domain.ErrNotFound
	}
	if store.BusinessID != businessID {
		return domain.ErrForbidden
	}
	// Prechequeo fuera de la tx para rechazar rápido; se repite adentro con
	// bloqueo porque un cierre puede colarse en medio.
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return err
	}
	if sale == nil || sale.StoreID != storeID {
		return domain.ErrNotFound
	}

	now := time.Now()
	reason := cancellationReason

	return uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		sale, err := repos.Sales.GetByID(saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		// Bloquea el último período de la tienda: serializa contra el motor
		// de cierre, que toma el mismo bloqueo antes de agregar totales.
		latest, err := repos.Periods.GetLatestForUpdate(storeID)
		if err != nil {
			return err
		}
		if latest == nil || latest.ID != sale.PeriodID || !latest.IsOpen() {
			return domain.ErrSaleInClosedPeriod
		}

		movements, err := repos.Movements.ListByReference(saleID)
		if err != nil {
			return err
		}
		saleRef := saleID
		for _, mov := range movements {
			inverse := ledger.MovementType(mov.Type).Inverse()
			if _, err := inventory.ApplyMovement(repos, inventory.MovementInput{
				Type:        inverse,
				Quantity:    mov.Quantity,
				ListingID:   mov.ListingID,
				StoreID:     storeID,
				ActorID:     actorID,
				ReferenceID: &saleRef,
				Reason:      &reason,
				// La compensación debe poder ejecutarse siempre, incluso si
				// deja existencia negativa transitoria.
				AllowNegative: true,
			}, now); err != nil {
				return err
			}
		}

		if err := repos.Sales.DeleteAppliedDiscounts(saleID); err != nil {
			return err
		}
		if err := repos.Sales.DeleteItems(saleID); err != nil {
			return err
		}
		return repos.Sales.Delete(saleID)
	})
}
