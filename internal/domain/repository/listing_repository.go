package repository

import "github.com/tu-usuario/tienda-pos/internal/domain/entity"

// ListingRepository define el puerto para los listings (producto por tienda).
// GetForUpdate se usa dentro de transacciones para serializar los ajustes de
// existencia (SELECT FOR UPDATE).
type ListingRepository interface {
	GetByID(id string) (*entity.Listing, error)
	GetForUpdate(id string) (*entity.Listing, error)
	GetByStoreProduct(storeID, productID string) (*entity.Listing, error)
	Create(listing *entity.Listing) error
	Update(listing *entity.Listing) error
	ListByStore(storeID string, limit, offset int) ([]*entity.Listing, error)
}
