// Package discount implementa el motor de asignación de descuentos: una
// evaluación pura sobre reglas precargadas y líneas con precio; la carga de
// reglas y la resolución de productos/categorías viven en el caso de uso.
package discount

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
)

// Line es una línea prospectiva ya resuelta: listing, producto y categoría
// conocidos, precio unitario fijado.
type Line struct {
	ListingID  string
	ProductID  string
	CategoryID string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
}

// Subtotal devuelve cantidad × precio unitario.
func (l Line) Subtotal() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// Applied es una regla que aplicó, con el monto y las líneas afectadas.
type Applied struct {
	RuleID     string
	RuleName   string
	Amount     decimal.Decimal
	ListingIDs []string
}

// Result es el desglose de descuentos de una venta prospectiva.
// Invariantes: DiscountTotal <= BaseTotal y FinalTotal = BaseTotal −
// DiscountTotal >= 0.
type Result struct {
	BaseTotal     decimal.Decimal
	DiscountTotal decimal.Decimal
	FinalTotal    decimal.Decimal
	Applied       []Applied
}

var cien = decimal.NewFromInt(100)

// Evaluate aplica las reglas a las líneas. Orden de evaluación contractual:
// Priority asc, CreatedAt asc, ID asc; las reglas anteriores consumen primero
// el total descontable restante (clamp acumulativo).
func Evaluate(rules []*entity.DiscountRule, lines []Line, codes []string, now time.Time) Result {
	baseTotal := decimal.Zero
	for _, l := range lines {
		baseTotal = baseTotal.Add(l.Subtotal())
	}
	res := Result{BaseTotal: baseTotal, FinalTotal: baseTotal}
	if baseTotal.LessThanOrEqual(decimal.Zero) {
		res.FinalTotal = decimal.Zero
		return res
	}

	presented := codeSet(codes)

	ordered := make([]*entity.DiscountRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	remaining := baseTotal
	for _, rule := range ordered {
		if !qualifies(rule, presented, now) {
			continue
		}

		scopeSubtotal, affected := scopeSubtotal(rule, lines)
		if rule.MinSubtotal != nil && scopeSubtotal.LessThan(*rule.MinSubtotal) {
			continue
		}

		amount := rawAmount(rule, scopeSubtotal)
		// Clamp al total descontable restante: los descuentos acumulados
		// nunca exceden el total base.
		if amount.GreaterThan(remaining) {
			amount = remaining
		}
		if !amount.IsPositive() {
			continue
		}

		remaining = remaining.Sub(amount)
		res.DiscountTotal = res.DiscountTotal.Add(amount)
		res.Applied = append(res.Applied, Applied{
			RuleID:     rule.ID,
			RuleName:   rule.Name,
			Amount:     amount,
			ListingIDs: affected,
		})
	}

	res.FinalTotal = res.BaseTotal.Sub(res.DiscountTotal)
	if res.FinalTotal.IsNegative() {
		res.FinalTotal = decimal.Zero
	}
	return res
}

// qualifies: regla activa, vigente en la ventana de fechas, y con código
// presentado si la regla lo exige.
func qualifies(rule *entity.DiscountRule, presented map[string]struct{}, now time.Time) bool {
	if !rule.IsActive || !rule.InWindow(now) {
		return false
	}
	if rule.Code != nil && *rule.Code != "" {
		_, ok := presented[NormalizeCode(*rule.Code)]
		return ok
	}
	return true
}

// scopeSubtotal calcula el subtotal del alcance de la regla y las líneas
// afectadas. Alcances no soportados aportan cero.
func scopeSubtotal(rule *entity.DiscountRule, lines []Line) (decimal.Decimal, []string) {
	sum := decimal.Zero
	var affected []string
	switch rule.Scope {
	case entity.DiscountScopeTicket:
		for _, l := range lines {
			sum = sum.Add(l.Subtotal())
			affected = append(affected, l.ListingID)
		}
	case entity.DiscountScopeProduct:
		set := toSet(rule.ProductIDs)
		for _, l := range lines {
			if _, ok := set[l.ProductID]; ok {
				sum = sum.Add(l.Subtotal())
				affected = append(affected, l.ListingID)
			}
		}
	case entity.DiscountScopeCategory:
		set := toSet(rule.CategoryIDs)
		for _, l := range lines {
			if _, ok := set[l.CategoryID]; ok {
				sum = sum.Add(l.Subtotal())
				affected = append(affected, l.ListingID)
			}
		}
	}
	return sum, affected
}

// rawAmount: PERCENTAGE -> subtotal*clamp(valor,0,100)/100; FIXED ->
// min(valor, subtotal). Siempre no negativo.
func rawAmount(rule *entity.DiscountRule, scopeSubtotal decimal.Decimal) decimal.Decimal {
	switch rule.Type {
	case entity.DiscountTypePercentage:
		pct := rule.Value
		if pct.IsNegative() {
			pct = decimal.Zero
		}
		if pct.GreaterThan(cien) {
			pct = cien
		}
		return scopeSubtotal.Mul(pct).Div(cien)
	case entity.DiscountTypeFixed:
		v := rule.Value
		if v.IsNegative() {
			return decimal.Zero
		}
		if v.GreaterThan(scopeSubtotal) {
			return scopeSubtotal
		}
		return v
	}
	return decimal.Zero
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
