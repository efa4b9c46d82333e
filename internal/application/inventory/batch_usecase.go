package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tienda-pos/internal/application/dto"
	"github.com/tu-usuario/tienda-pos/internal/domain"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
	"github.com/tu-usuario/tienda-pos/internal/domain/ledger"
	"github.com/tu-usuario/tienda-pos/internal/domain/repository"
)

// RegisterBatchMovementsUseCase registra movimientos masivos (compras,
// ajustes, consignaciones) en una sola transacción, con upsert de listings
// para mercancía nueva en la tienda.
type RegisterBatchMovementsUseCase struct {
	txRunner    TxRunner
	storeRepo   repository.StoreRepository
	productRepo repository.ProductRepository
}

// NewRegisterBatchMovementsUseCase construye el caso de uso.
func NewRegisterBatchMovementsUseCase(
	txRunner TxRunner,
	storeRepo repository.StoreRepository,
	productRepo repository.ProductRepository,
) *RegisterBatchMovementsUseCase {
	return &RegisterBatchMovementsUseCase{
		txRunner:    txRunner,
		storeRepo:   storeRepo,
		productRepo: productRepo,
	}
}

// RegisterBatch valida y aplica todos los renglones; cualquier fallo revierte
// el lote completo. Las rutas de ajuste manual admiten existencia negativa
// transitoria; las demás no.
func (uc *RegisterBatchMovementsUseCase) RegisterBatch(
	ctx context.Context,
	businessID, storeID, actorID string,
	items []dto.BatchMovementItem,
) ([]*entity.StockMovement, error) {
	if storeID == "" || actorID == "" || len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	store, err := uc.storeRepo.GetByID(storeID)
	if err != nil || store == nil {
		return nil, domain.ErrNotFound
	}
	if store.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}

	// Validación previa a cualquier mutación (taxonomía: validación primero).
	for _, item := range items {
		t := ledger.MovementType(item.Type)
		if !t.Valid() || !item.Quantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		if item.ListingID == "" && item.ProductID == "" {
			return nil, domain.ErrInvalidInput
		}
		if item.ListingID == "" {
			// Alta de listing: solo tiene sentido en entradas de mercancía.
			if !t.IsInbound() || item.UnitCost == nil || item.Price == nil {
				return nil, domain.ErrInvalidInput
			}
			product, err := uc.productRepo.GetByID(item.ProductID)
			if err != nil || product == nil {
				return nil, domain.ErrNotFound
			}
			if product.BusinessID != businessID {
				return nil, domain.ErrForbidden
			}
		}
	}

	now := time.Now()
	var movements []*entity.StockMovement

	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		for _, item := range items {
			listingID := item.ListingID
			if listingID == "" {
				listing, err := repos.Listings.GetByStoreProduct(storeID, item.ProductID)
				if err != nil {
					return err
				}
				if listing == nil {
					listing = &entity.Listing{
						ID:        uuid.New().String(),
						StoreID:   storeID,
						ProductID: item.ProductID,
						Quantity:  decimal.Zero,
						Cost:      decimal.Zero,
						Price:     *item.Price,
						CreatedAt: now,
						UpdatedAt: now,
					}
					if err := repos.Listings.Create(listing); err != nil {
						return err
					}
				}
				listingID = listing.ID
			}

			var reason *string
			if item.Reason != "" {
				r := item.Reason
				reason = &r
			}
			t := ledger.MovementType(item.Type)
			mov, err := ApplyMovement(repos, MovementInput{
				Type:          t,
				Quantity:      item.Quantity,
				ListingID:     listingID,
				StoreID:       storeID,
				ActorID:       actorID,
				Reason:        reason,
				UnitCost:      item.UnitCost,
				AllowNegative: t == ledger.AjusteSalida || t == ledger.AjusteEntrada,
			}, now)
			if err != nil {
				return err
			}
			movements = append(movements, mov)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movements, nil
}
