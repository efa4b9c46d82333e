package closing

import (
	"context"
	"time"

	"github.com/tu-usuario/tienda-pos/internal/domain"
	"github.com/tu-usuario/tienda-pos/internal/domain/repository"
)

// SettlementReportUseCase genera el PDF de cierre de un período: totales del
// período y liquidaciones a proveedores de consignación.
type SettlementReportUseCase struct {
	storeRepo      repository.StoreRepository
	periodRepo     repository.PeriodRepository
	settlementRepo repository.SettlementRepository
	generator      SettlementPDFGenerator
}

// NewSettlementReportUseCase construye el caso de uso.
func NewSettlementReportUseCase(
	storeRepo repository.StoreRepository,
	periodRepo repository.PeriodRepository,
	settlementRepo repository.SettlementRepository,
	generator SettlementPDFGenerator,
) *SettlementReportUseCase {
	return &SettlementReportUseCase{
		storeRepo:      storeRepo,
		periodRepo:     periodRepo,
		settlementRepo: settlementRepo,
		generator:      generator,
	}
}

// Generate produce el PDF. Solo períodos cerrados tienen reporte.
func (uc *SettlementReportUseCase) Generate(ctx context.Context, businessID, storeID, periodID string) ([]byte, error) {
	store, err := uc.storeRepo.GetByID(storeID)
	if err != nil || store == nil {
		return nil, domain.ErrNotFound
	}
	if store.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}
	period, err := uc.periodRepo.GetByID(periodID)
	if err != nil {
		return nil, err
	}
	if period == nil || period.StoreID != storeID {
		return nil, domain.ErrNotFound
	}
	if period.IsOpen() {
		return nil, domain.ErrConflict
	}
	settlements, err := uc.settlementRepo.ListByPeriod(periodID)
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateSettlementReport(ctx, store, period, settlements)
}

// LiquidateSettlementUseCase estampa la fecha de pago de una liquidación.
type LiquidateSettlementUseCase struct {
	storeRepo      repository.StoreRepository
	periodRepo     repository.PeriodRepository
	settlementRepo repository.SettlementRepository
}

// NewLiquidateSettlementUseCase construye el caso de uso.
func NewLiquidateSettlementUseCase(
	storeRepo repository.StoreRepository,
	periodRepo repository.PeriodRepository,
	settlementRepo repository.SettlementRepository,
) *LiquidateSettlementUseCase {
	return &LiquidateSettlementUseCase{
		storeRepo:      storeRepo,
		periodRepo:     periodRepo,
		settlementRepo: settlementRepo,
	}
}

// Liquidate marca la liquidación como pagada. Pagarla dos veces es un
// conflicto de estado.
func (uc *LiquidateSettlementUseCase) Liquidate(ctx context.Context, businessID, settlementID string) error {
	settlement, err := uc.settlementRepo.GetByID(settlementID)
	if err != nil {
		return err
	}
	if settlement == nil {
		return domain.ErrNotFound
	}
	period, err := uc.periodRepo.GetByID(settlement.PeriodID)
	if err != nil || period == nil {
		return domain.ErrNotFound
	}
	store, err := uc.storeRepo.GetByID(period.StoreID)
	if err != nil || store == nil {
		return domain.ErrNotFound
	}
	if store.BusinessID != businessID {
		return domain.ErrForbidden
	}
	if settlement.LiquidatedAt != nil {
		return domain.ErrConflict
	}
	return uc.settlementRepo.MarkLiquidated(settlementID, time.Now())
}
