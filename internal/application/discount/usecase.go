package discount

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/tienda-pos/internal/application/dto"
	"github.com/tu-usuario/tienda-pos/internal/domain"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
	"github.com/tu-usuario/tienda-pos/internal/domain/repository"
)

// ComputeDiscountsUseCase resuelve listings/productos de las líneas, carga
// las reglas activas del negocio y delega en Evaluate (cómputo puro, sin
// persistencia).
type ComputeDiscountsUseCase struct {
	storeRepo   repository.StoreRepository
	listingRepo repository.ListingRepository
	productRepo repository.ProductRepository
	ruleRepo    repository.DiscountRuleRepository
}

// NewComputeDiscountsUseCase construye el caso de uso.
func NewComputeDiscountsUseCase(
	storeRepo repository.StoreRepository,
	listingRepo repository.ListingRepository,
	productRepo repository.ProductRepository,
	ruleRepo repository.DiscountRuleRepository,
) *ComputeDiscountsUseCase {
	return &ComputeDiscountsUseCase{
		storeRepo:   storeRepo,
		listingRepo: listingRepo,
		productRepo: productRepo,
		ruleRepo:    ruleRepo,
	}
}

// Compute evalúa los descuentos para una venta prospectiva. UnitPrice en cero
// toma el precio del listing.
func (uc *ComputeDiscountsUseCase) Compute(
	ctx context.Context,
	businessID, storeID string,
	reqLines []dto.SaleLineRequest,
	codes []string,
) (*Result, error) {
	lines, err := uc.ResolveLines(ctx, businessID, storeID, reqLines)
	if err != nil {
		return nil, err
	}
	rules, err := uc.ruleRepo.ListActiveByBusiness(businessID)
	if err != nil {
		return nil, err
	}
	res := Evaluate(rules, lines, codes, time.Now())
	return &res, nil
}

// ResolveLines valida las líneas y las enriquece con producto y categoría.
// Compartido con el registro de venta para que ambos evalúen idéntico.
func (uc *ComputeDiscountsUseCase) ResolveLines(
	ctx context.Context,
	businessID, storeID string,
	reqLines []dto.SaleLineRequest,
) ([]Line, error) {
	if storeID == "" || len(reqLines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	store, err := uc.storeRepo.GetByID(storeID)
	if err != nil || store == nil {
		return nil, domain.ErrNotFound
	}
	if store.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}

	lines := make([]Line, 0, len(reqLines))
	productIDs := make([]string, 0, len(reqLines))
	for _, rl := range reqLines {
		if rl.ListingID == "" || !rl.Quantity.IsPositive() || rl.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		listing, err := uc.listingRepo.GetByID(rl.ListingID)
		if err != nil {
			return nil, err
		}
		if listing == nil || listing.StoreID != storeID {
			return nil, domain.ErrNotFound
		}
		price := rl.UnitPrice
		if price.IsZero() {
			price = listing.Price
		}
		lines = append(lines, Line{
			ListingID: listing.ID,
			ProductID: listing.ProductID,
			Quantity:  rl.Quantity,
			UnitPrice: price,
		})
		productIDs = append(productIDs, listing.ProductID)
	}

	products, err := uc.productRepo.ListByIDs(productIDs)
	if err != nil {
		return nil, err
	}
	categoryByProduct := make(map[string]string, len(products))
	for _, p := range products {
		categoryByProduct[p.ID] = p.CategoryID
	}
	for i := range lines {
		lines[i].CategoryID = categoryByProduct[lines[i].ProductID]
	}
	return lines, nil
}

// ToDTO convierte el resultado del motor al DTO de la API.
func ToDTO(res *Result) dto.DiscountResultDTO {
	out := dto.DiscountResultDTO{
		BaseTotal:     res.BaseTotal,
		DiscountTotal: res.DiscountTotal,
		FinalTotal:    res.FinalTotal,
		Applied:       make([]dto.AppliedDiscountDTO, 0, len(res.Applied)),
	}
	for _, a := range res.Applied {
		out.Applied = append(out.Applied, dto.AppliedDiscountDTO{
			RuleID:     a.RuleID,
			RuleName:   a.RuleName,
			Amount:     a.Amount,
			ListingIDs: a.ListingIDs,
		})
	}
	return out
}

// ── Gestión de reglas ─────────────────────────────────────────────────────────

// RuleUseCase alta, consulta y baja lógica de reglas de descuento.
type RuleUseCase struct {
	ruleRepo repository.DiscountRuleRepository
}

// NewRuleUseCase construye el caso de uso.
func NewRuleUseCase(ruleRepo repository.DiscountRuleRepository) *RuleUseCase {
	return &RuleUseCase{ruleRepo: ruleRepo}
}

// Create valida y persiste una regla. Un código duplicado en el negocio
// retorna ErrDuplicate (constraint único en BD).
func (uc *RuleUseCase) Create(ctx context.Context, businessID string, in dto.CreateDiscountRuleRequest) (*entity.DiscountRule, error) {
	if businessID == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	switch in.Type {
	case entity.DiscountTypePercentage, entity.DiscountTypeFixed:
	default:
		return nil, domain.ErrInvalidInput
	}
	switch in.Scope {
	case entity.DiscountScopeTicket, entity.DiscountScopeProduct, entity.DiscountScopeCategory:
	default:
		return nil, domain.ErrInvalidInput
	}
	if in.Value.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	rule := &entity.DiscountRule{
		ID:          uuid.New().String(),
		BusinessID:  businessID,
		Name:        in.Name,
		Type:        in.Type,
		Value:       in.Value,
		Scope:       in.Scope,
		MinSubtotal: in.MinSubtotal,
		ProductIDs:  in.ProductIDs,
		CategoryIDs: in.CategoryIDs,
		CustomerIDs: in.CustomerIDs,
		Priority:    in.Priority,
		IsActive:    true,
		CreatedAt:   now,
	}
	if in.Code != nil && *in.Code != "" {
		code := NormalizeCode(*in.Code)
		rule.Code = &code
	}
	if in.StartDate != nil {
		t, err := time.Parse(time.RFC3339, *in.StartDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		rule.StartDate = &t
	}
	if in.EndDate != nil {
		t, err := time.Parse(time.RFC3339, *in.EndDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		rule.EndDate = &t
	}
	if rule.StartDate != nil && rule.EndDate != nil && rule.EndDate.Before(*rule.StartDate) {
		return nil, domain.ErrInvalidInput
	}

	if err := uc.ruleRepo.Create(rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// List devuelve las reglas del negocio paginadas.
func (uc *RuleUseCase) List(ctx context.Context, businessID string, limit, offset int) ([]*entity.DiscountRule, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return uc.ruleRepo.ListByBusiness(businessID, limit, offset)
}

// Deactivate apaga una regla (baja lógica; las ventas históricas conservan
// sus AppliedDiscount).
func (uc *RuleUseCase) Deactivate(ctx context.Context, businessID, ruleID string) error {
	rule, err := uc.ruleRepo.GetByID(ruleID)
	if err != nil || rule == nil {
		return domain.ErrNotFound
	}
	if rule.BusinessID != businessID {
		return domain.ErrForbidden
	}
	return uc.ruleRepo.Deactivate(ruleID)
}
