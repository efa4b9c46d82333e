package repository

import "github.com/tu-usuario/tienda-pos/internal/domain/entity"

// StockMovementRepository define el puerto del libro de movimientos.
// Solo inserta y consulta: los movimientos nunca se actualizan ni se borran.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByReference(referenceID string) ([]*entity.StockMovement, error)
	ListByListing(listingID string, limit, offset int) ([]*entity.StockMovement, error)
}
