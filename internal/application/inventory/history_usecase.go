package inventory

import (
	"context"

	"github.com/tu-usuario/tienda-pos/internal/domain"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
	"github.com/tu-usuario/tienda-pos/internal/domain/repository"
)

// MovementHistoryUseCase lista el historial del libro de un listing (solo
// lectura, más reciente primero).
type MovementHistoryUseCase struct {
	storeRepo    repository.StoreRepository
	listingRepo  repository.ListingRepository
	movementRepo repository.StockMovementRepository
}

// NewMovementHistoryUseCase construye el caso de uso.
func NewMovementHistoryUseCase(
	storeRepo repository.StoreRepository,
	listingRepo repository.ListingRepository,
	movementRepo repository.StockMovementRepository,
) *MovementHistoryUseCase {
	return &MovementHistoryUseCase{
		storeRepo:    storeRepo,
		listingRepo:  listingRepo,
		movementRepo: movementRepo,
	}
}

// List devuelve los movimientos de un listing, paginados.
func (uc *MovementHistoryUseCase) List(ctx context.Context, businessID, listingID string, limit, offset int) ([]*entity.StockMovement, error) {
	if listingID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	listing, err := uc.listingRepo.GetByID(listingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, domain.ErrNotFound
	}
	store, err := uc.storeRepo.GetByID(listing.StoreID)
	if err != nil || store == nil {
		return nil, domain.ErrNotFound
	}
	if store.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}
	return uc.movementRepo.ListByListing(listingID, limit, offset)
}
