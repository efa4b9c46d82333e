package entity

import "time"

// Product representa un producto del catálogo del negocio (multi-tienda).
// El precio, costo y existencia por tienda viven en Listing; aquí solo va la
// identidad del producto y su categoría (usada por descuentos por categoría).
type Product struct {
	ID         string
	BusinessID string
	SKU        string // código único por negocio
	Name       string
	CategoryID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
