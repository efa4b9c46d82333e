package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
	"github.com/tu-usuario/tienda-pos/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, type, quantity, quantity_before, listing_id, store_id, actor_id,
	reference_id, reason, unit_cost, total_cost, cost_before, cost_after, created_at`

// StockMovementRepo implementación del libro de movimientos sobre PostgreSQL.
// Solo inserta y consulta; la tabla no admite UPDATE ni DELETE.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento del libro.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.Type, movement.Quantity, movement.QuantityBefore,
		movement.ListingID, movement.StoreID, movement.ActorID,
		movement.ReferenceID, movement.Reason,
		movement.UnitCost, movement.TotalCost, movement.CostBefore, movement.CostAfter,
		movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListByReference lista los movimientos originados por una operación (ej. los
// de una venta, para compensarlos al cancelar). Orden de inserción.
func (r *StockMovementRepo) ListByReference(referenceID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements WHERE reference_id = $1
		ORDER BY created_at ASC, id ASC`
	return r.list(query, referenceID)
}

// ListByListing lista el historial de un listing, más reciente primero.
func (r *StockMovementRepo) ListByListing(listingID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements WHERE listing_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	return r.list(query, listingID, limit, offset)
}

func (r *StockMovementRepo) list(query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(
			&m.ID, &m.Type, &m.Quantity, &m.QuantityBefore,
			&m.ListingID, &m.StoreID, &m.ActorID,
			&m.ReferenceID, &m.Reason,
			&m.UnitCost, &m.TotalCost, &m.CostBefore, &m.CostAfter,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
