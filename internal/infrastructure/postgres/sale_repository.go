package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
	"github.com/tu-usuario/tienda-pos/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, store_id, actor_id, period_id, total, total_cash, total_transfer,
	discount_total, transfer_destination_id, created_at`

const saleItemColumns = `id, sale_id, listing_id, quantity, unit_price, unit_cost`

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool
// o tx). Los DELETE solo los invoca la cancelación de venta.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de una venta.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.StoreID, sale.ActorID, sale.PeriodID,
		sale.Total, sale.TotalCash, sale.TotalTransfer, sale.DiscountTotal,
		sale.TransferDestinationID, sale.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de venta.
func (r *SaleRepo) CreateItem(item *entity.SaleLineItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sale_line_items (` + saleItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SaleID, item.ListingID, item.Quantity, item.UnitPrice, item.UnitCost,
	)
	if err != nil {
		return fmt.Errorf("create sale item: %w", err)
	}
	return nil
}

// CreateAppliedDiscount persiste un descuento aplicado a la venta.
func (r *SaleRepo) CreateAppliedDiscount(applied *entity.AppliedDiscount) error {
	if applied.ID == "" {
		applied.ID = uuid.New().String()
	}
	query := `
		INSERT INTO applied_discounts (id, sale_id, rule_id, amount)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query,
		applied.ID, applied.SaleID, applied.RuleID, applied.Amount,
	)
	if err != nil {
		return fmt.Errorf("create applied discount: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una venta. Devuelve nil si no existe.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	var s entity.Sale
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.StoreID, &s.ActorID, &s.PeriodID,
		&s.Total, &s.TotalCash, &s.TotalTransfer, &s.DiscountTotal,
		&s.TransferDestinationID, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}

// GetItems obtiene las líneas de una venta.
func (r *SaleRepo) GetItems(saleID string) ([]*entity.SaleLineItem, error) {
	query := `SELECT ` + saleItemColumns + ` FROM sale_line_items WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	defer rows.Close()
	var items []*entity.SaleLineItem
	for rows.Next() {
		var it entity.SaleLineItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ListingID, &it.Quantity, &it.UnitPrice, &it.UnitCost); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// ListAppliedBySale obtiene los descuentos aplicados de una venta.
func (r *SaleRepo) ListAppliedBySale(saleID string) ([]*entity.AppliedDiscount, error) {
	query := `SELECT id, sale_id, rule_id, amount FROM applied_discounts WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list applied discounts: %w", err)
	}
	defer rows.Close()
	var list []*entity.AppliedDiscount
	for rows.Next() {
		var a entity.AppliedDiscount
		if err := rows.Scan(&a.ID, &a.SaleID, &a.RuleID, &a.Amount); err != nil {
			return nil, fmt.Errorf("scan applied discount: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// ListByPeriod devuelve las ventas de un período con sus líneas cargadas.
// Las líneas llegan en una sola consulta para no hacer N+1 en el cierre.
func (r *SaleRepo) ListByPeriod(periodID string) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE period_id = $1 ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, periodID)
	if err != nil {
		return nil, fmt.Errorf("list sales by period: %w", err)
	}
	defer rows.Close()
	var sales []*entity.Sale
	byID := make(map[string]*entity.Sale)
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(
			&s.ID, &s.StoreID, &s.ActorID, &s.PeriodID,
			&s.Total, &s.TotalCash, &s.TotalTransfer, &s.DiscountTotal,
			&s.TransferDestinationID, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, &s)
		byID[s.ID] = &s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return sales, nil
	}

	itemsQuery := `
		SELECT i.id, i.sale_id, i.listing_id, i.quantity, i.unit_price, i.unit_cost
		FROM sale_line_items i
		JOIN sales s ON s.id = i.sale_id
		WHERE s.period_id = $1
		ORDER BY i.id`
	itemRows, err := r.q.Query(context.Background(), itemsQuery, periodID)
	if err != nil {
		return nil, fmt.Errorf("list sale items by period: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var it entity.SaleLineItem
		if err := itemRows.Scan(&it.ID, &it.SaleID, &it.ListingID, &it.Quantity, &it.UnitPrice, &it.UnitCost); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		if s, ok := byID[it.SaleID]; ok {
			s.Items = append(s.Items, it)
		}
	}
	return sales, itemRows.Err()
}

// DeleteAppliedDiscounts borra los descuentos aplicados de una venta.
func (r *SaleRepo) DeleteAppliedDiscounts(saleID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM applied_discounts WHERE sale_id = $1`, saleID)
	if err != nil {
		return fmt.Errorf("delete applied discounts: %w", err)
	}
	return nil
}

// DeleteItems borra las líneas de una venta.
func (r *SaleRepo) DeleteItems(saleID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM sale_line_items WHERE sale_id = $1`, saleID)
	if err != nil {
		return fmt.Errorf("delete sale items: %w", err)
	}
	return nil
}

// Delete borra la cabecera de una venta.
func (r *SaleRepo) Delete(saleID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM sales WHERE id = $1`, saleID)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return nil
}
