package closing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/tienda-pos/internal/domain"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
	"github.com/tu-usuario/tienda-pos/internal/domain/repository"
)

// OpenPeriodUseCase abre el primer período de una tienda (o el siguiente si
// el anterior ya cerró por fuera del flujo normal). Invariante: a lo sumo un
// período abierto por tienda.
type OpenPeriodUseCase struct {
	txRunner  TxRunner
	storeRepo repository.StoreRepository
}

// NewOpenPeriodUseCase construye el caso de uso.
func NewOpenPeriodUseCase(txRunner TxRunner, storeRepo repository.StoreRepository) *OpenPeriodUseCase {
	return &OpenPeriodUseCase{txRunner: txRunner, storeRepo: storeRepo}
}

// Open crea un período abierto para la tienda. Falla con conflicto de estado
// si ya hay uno abierto.
func (uc *OpenPeriodUseCase) Open(ctx context.Context, businessID, storeID string) (*entity.AccountingPeriod, error) {
	if storeID == "" {
		return nil, domain.ErrInvalidInput
	}
	store, err := uc.storeRepo.GetByID(storeID)
	if err != nil || store == nil {
		return nil, domain.ErrNotFound
	}
	if store.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}

	var period *entity.AccountingPeriod
	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		latest, err := repos.Periods.GetLatestForUpdate(storeID)
		if err != nil {
			return err
		}
		if latest != nil && latest.IsOpen() {
			return domain.ErrOpenPeriodExists
		}
		period = &entity.AccountingPeriod{
			ID:        uuid.New().String(),
			StoreID:   storeID,
			StartedAt: time.Now(),
		}
		return repos.Periods.Create(period)
	})
	if err != nil {
		return nil, err
	}
	return period, nil
}
