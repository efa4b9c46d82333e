package entity

import "time"

// Store representa una tienda (punto de venta) de un negocio.
type Store struct {
	ID         string
	BusinessID string
	Name       string
	CreatedAt  time.Time
}
