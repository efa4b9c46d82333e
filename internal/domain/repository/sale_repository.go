package repository

import "github.com/tu-usuario/tienda-pos/internal/domain/entity"

// SaleRepository define el puerto de ventas, líneas y descuentos aplicados.
// Los borrados existen solo para la cancelación (venta en período abierto).
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateItem(item *entity.SaleLineItem) error
	CreateAppliedDiscount(applied *entity.AppliedDiscount) error
	GetByID(id string) (*entity.Sale, error)
	GetItems(saleID string) ([]*entity.SaleLineItem, error)
	ListAppliedBySale(saleID string) ([]*entity.AppliedDiscount, error)
	// ListByPeriod devuelve las ventas de un período con sus líneas cargadas.
	ListByPeriod(periodID string) ([]*entity.Sale, error)
	DeleteAppliedDiscounts(saleID string) error
	DeleteItems(saleID string) error
	Delete(saleID string) error
}
