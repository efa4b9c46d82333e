package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/tienda-pos/internal/domain"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
	"github.com/tu-usuario/tienda-pos/internal/domain/repository"
)

var _ repository.PeriodRepository = (*PeriodRepo)(nil)

const periodColumns = `id, store_id, started_at, closed_at, total_sales, total_investment,
	total_profit, total_transfer, total_own_sales, total_own_profit,
	total_consignment_sales, total_consignment_profit`

// PeriodRepo implementación de PeriodRepository sobre PostgreSQL (usable con
// pool o tx).
type PeriodRepo struct {
	q Querier
}

// NewPeriodRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPeriodRepository(q Querier) *PeriodRepo {
	return &PeriodRepo{q: q}
}

func scanPeriod(row pgx.Row) (*entity.AccountingPeriod, error) {
	var p entity.AccountingPeriod
	err := row.Scan(
		&p.ID, &p.StoreID, &p.StartedAt, &p.ClosedAt,
		&p.TotalSales, &p.TotalInvestment, &p.TotalProfit, &p.TotalTransfer,
		&p.TotalOwnSales, &p.TotalOwnProfit,
		&p.TotalConsignmentSales, &p.TotalConsignmentProfit,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID obtiene un período por ID. Devuelve nil si no existe.
func (r *PeriodRepo) GetByID(id string) (*entity.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE id = $1`
	p, err := scanPeriod(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get period: %w", err)
	}
	return p, nil
}

// GetLatestByStore obtiene el último período de la tienda (por inicio).
func (r *PeriodRepo) GetLatestByStore(storeID string) (*entity.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods WHERE store_id = $1
		ORDER BY started_at DESC, id DESC LIMIT 1`
	p, err := scanPeriod(r.q.QueryRow(context.Background(), query, storeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest period: %w", err)
	}
	return p, nil
}

// GetLatestForUpdate obtiene el último período de la tienda bloqueando la
// fila (SELECT FOR UPDATE). Es la guarda que serializa venta, cancelación y
// cierre: todas la toman antes de mutar.
func (r *PeriodRepo) GetLatestForUpdate(storeID string) (*entity.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods WHERE store_id = $1
		ORDER BY started_at DESC, id DESC LIMIT 1
		FOR UPDATE`
	p, err := scanPeriod(r.q.QueryRow(context.Background(), query, storeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest period for update: %w", err)
	}
	return p, nil
}

// Create persiste un período nuevo (abierto, agregados en cero).
func (r *PeriodRepo) Create(period *entity.AccountingPeriod) error {
	if period.ID == "" {
		period.ID = uuid.New().String()
	}
	query := `
		INSERT INTO accounting_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		period.ID, period.StoreID, period.StartedAt, period.ClosedAt,
		period.TotalSales, period.TotalInvestment, period.TotalProfit, period.TotalTransfer,
		period.TotalOwnSales, period.TotalOwnProfit,
		period.TotalConsignmentSales, period.TotalConsignmentProfit,
	)
	if err != nil {
		return fmt.Errorf("create period: %w", err)
	}
	return nil
}

// Close persiste closed_at y todos los agregados calculados al cierre.
func (r *PeriodRepo) Close(period *entity.AccountingPeriod) error {
	query := `
		UPDATE accounting_periods
		SET closed_at = $2, total_sales = $3, total_investment = $4,
			total_profit = $5, total_transfer = $6,
			total_own_sales = $7, total_own_profit = $8,
			total_consignment_sales = $9, total_consignment_profit = $10
		WHERE id = $1 AND closed_at IS NULL`
	tag, err := r.q.Exec(context.Background(), query,
		period.ID, period.ClosedAt,
		period.TotalSales, period.TotalInvestment, period.TotalProfit, period.TotalTransfer,
		period.TotalOwnSales, period.TotalOwnProfit,
		period.TotalConsignmentSales, period.TotalConsignmentProfit,
	)
	if err != nil {
		return fmt.Errorf("close period: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("close period: %w", domain.ErrPeriodClosed)
	}
	return nil
}
