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

var _ repository.DiscountRuleRepository = (*DiscountRuleRepo)(nil)

const ruleColumns = `id, business_id, name, type, value, scope, code, min_subtotal,
	product_ids, category_ids, customer_ids, priority, is_active, start_date, end_date, created_at`

// DiscountRuleRepo implementación de DiscountRuleRepository sobre PostgreSQL.
// Los arreglos de alcance (product_ids, category_ids, customer_ids) se
// guardan como text[].
type DiscountRuleRepo struct {
	q Querier
}

// NewDiscountRuleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDiscountRuleRepository(q Querier) *DiscountRuleRepo {
	return &DiscountRuleRepo{q: q}
}

func scanRule(row pgx.Row) (*entity.DiscountRule, error) {
	var rule entity.DiscountRule
	err := row.Scan(
		&rule.ID, &rule.BusinessID, &rule.Name, &rule.Type, &rule.Value, &rule.Scope,
		&rule.Code, &rule.MinSubtotal,
		&rule.ProductIDs, &rule.CategoryIDs, &rule.CustomerIDs,
		&rule.Priority, &rule.IsActive, &rule.StartDate, &rule.EndDate, &rule.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// Create persiste una regla de descuento. El code es único por negocio; una
// colisión se reporta como duplicado.
func (r *DiscountRuleRepo) Create(rule *entity.DiscountRule) error {
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	query := `
		INSERT INTO discount_rules (` + ruleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		rule.ID, rule.BusinessID, rule.Name, rule.Type, rule.Value, rule.Scope,
		rule.Code, rule.MinSubtotal,
		rule.ProductIDs, rule.CategoryIDs, rule.CustomerIDs,
		rule.Priority, rule.IsActive, rule.StartDate, rule.EndDate, rule.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create discount rule: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("create discount rule: %w", err)
	}
	return nil
}

// GetByID obtiene una regla por ID. Devuelve nil si no existe.
func (r *DiscountRuleRepo) GetByID(id string) (*entity.DiscountRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM discount_rules WHERE id = $1`
	rule, err := scanRule(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get discount rule: %w", err)
	}
	return rule, nil
}

// ListActiveByBusiness devuelve las reglas activas del negocio en el orden de
// evaluación contractual: priority asc, created_at asc, id asc.
func (r *DiscountRuleRepo) ListActiveByBusiness(businessID string) ([]*entity.DiscountRule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM discount_rules WHERE business_id = $1 AND is_active = true
		ORDER BY priority ASC, created_at ASC, id ASC`
	return r.list(query, businessID)
}

// ListByBusiness lista todas las reglas del negocio, paginadas.
func (r *DiscountRuleRepo) ListByBusiness(businessID string, limit, offset int) ([]*entity.DiscountRule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM discount_rules WHERE business_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, businessID, limit, offset)
}

// Deactivate apaga la regla (las ventas pasadas conservan su referencia).
func (r *DiscountRuleRepo) Deactivate(id string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE discount_rules SET is_active = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate discount rule: %w", err)
	}
	return nil
}

func (r *DiscountRuleRepo) list(query string, args ...any) ([]*entity.DiscountRule, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list discount rules: %w", err)
	}
	defer rows.Close()
	var list []*entity.DiscountRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan discount rule: %w", err)
		}
		list = append(list, rule)
	}
	return list, rows.Err()
}
