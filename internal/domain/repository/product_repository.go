package repository

import "github.com/tu-usuario/tienda-pos/internal/domain/entity"

// ProductRepository define el puerto de productos del catálogo.
type ProductRepository interface {
	GetByID(id string) (*entity.Product, error)
	// ListByIDs devuelve los productos indicados (para resolver producto y
	// categoría de cada línea en el motor de descuentos).
	ListByIDs(ids []string) ([]*entity.Product, error)
}
