package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/tienda-pos/internal/domain"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
	"github.com/tu-usuario/tienda-pos/internal/domain/repository"
)

var _ repository.SettlementRepository = (*SettlementRepo)(nil)

const settlementColumns = `id, period_id, supplier_id, product_id, quantity_sold,
	gross_amount, unit_cost, unit_price, listing_qty, liquidated_at, created_at`

// SettlementRepo implementación de SettlementRepository sobre PostgreSQL.
// Las filas nacen en el cierre de período; después solo se estampa el pago.
type SettlementRepo struct {
	q Querier
}

// NewSettlementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSettlementRepository(q Querier) *SettlementRepo {
	return &SettlementRepo{q: q}
}

func scanSettlement(row pgx.Row) (*entity.SupplierSettlement, error) {
	var s entity.SupplierSettlement
	err := row.Scan(
		&s.ID, &s.PeriodID, &s.SupplierID, &s.ProductID, &s.QuantitySold,
		&s.GrossAmount, &s.UnitCost, &s.UnitPrice, &s.ListingQty,
		&s.LiquidatedAt, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste una liquidación. (period_id, supplier_id, product_id) es
// único: el cierre genera a lo sumo una fila por combinación.
func (r *SettlementRepo) Create(settlement *entity.SupplierSettlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO supplier_settlements (` + settlementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		settlement.ID, settlement.PeriodID, settlement.SupplierID, settlement.ProductID,
		settlement.QuantitySold, settlement.GrossAmount, settlement.UnitCost,
		settlement.UnitPrice, settlement.ListingQty,
		settlement.LiquidatedAt, settlement.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create settlement: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("create settlement: %w", err)
	}
	return nil
}

// GetByID obtiene una liquidación por ID. Devuelve nil si no existe.
func (r *SettlementRepo) GetByID(id string) (*entity.SupplierSettlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM supplier_settlements WHERE id = $1`
	s, err := scanSettlement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settlement: %w", err)
	}
	return s, nil
}

// ListByPeriod lista las liquidaciones de un período.
func (r *SettlementRepo) ListByPeriod(periodID string) ([]*entity.SupplierSettlement, error) {
	query := `
		SELECT ` + settlementColumns + `
		FROM supplier_settlements WHERE period_id = $1
		ORDER BY supplier_id ASC, product_id ASC`
	rows, err := r.q.Query(context.Background(), query, periodID)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	defer rows.Close()
	var list []*entity.SupplierSettlement
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan settlement: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// MarkLiquidated estampa la fecha de pago. Solo prospera si aún está
// pendiente.
func (r *SettlementRepo) MarkLiquidated(id string, at time.Time) error {
	query := `UPDATE supplier_settlements SET liquidated_at = $2 WHERE id = $1 AND liquidated_at IS NULL`
	tag, err := r.q.Exec(context.Background(), query, id, at)
	if err != nil {
		return fmt.Errorf("mark settlement liquidated: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("mark settlement liquidated: %w", domain.ErrConflict)
	}
	return nil
}
