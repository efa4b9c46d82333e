package repository

import "github.com/tu-usuario/tienda-pos/internal/domain/entity"

// StoreRepository define el puerto de tiendas.
type StoreRepository interface {
	GetByID(id string) (*entity.Store, error)
}
