package discount_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/tienda-pos/internal/application/discount"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

var ahora = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func lineas() []discount.Line {
	// Ticket base: 2×15 + 1×20 = 50
	return []discount.Line{
		{ListingID: "l1", ProductID: "pX", CategoryID: "bebidas", Quantity: d("2"), UnitPrice: d("15")},
		{ListingID: "l2", ProductID: "pY", CategoryID: "snacks", Quantity: d("1"), UnitPrice: d("20")},
	}
}

func reglaPorcentaje(id string, valor string, prioridad int) *entity.DiscountRule {
	return &entity.DiscountRule{
		ID: id, BusinessID: "biz", Name: "regla-" + id,
		Type: entity.DiscountTypePercentage, Value: d(valor),
		Scope: entity.DiscountScopeTicket, Priority: prioridad,
		IsActive: true, CreatedAt: ahora.Add(-24 * time.Hour),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Evaluación
// ──────────────────────────────────────────────────────────────────────────────

func TestEvaluate_SinReglas(t *testing.T) {
	res := discount.Evaluate(nil, lineas(), nil, ahora)
	assert.True(t, res.BaseTotal.Equal(d("50")))
	assert.True(t, res.DiscountTotal.IsZero())
	assert.True(t, res.FinalTotal.Equal(d("50")))
	assert.Empty(t, res.Applied)
}

func TestEvaluate_PorcentajeSobreTicket(t *testing.T) {
	res := discount.Evaluate([]*entity.DiscountRule{reglaPorcentaje("r1", "10", 0)}, lineas(), nil, ahora)
	assert.True(t, res.DiscountTotal.Equal(d("5")), "10%% de 50: %s", res.DiscountTotal)
	assert.True(t, res.FinalTotal.Equal(d("45")))
	require.Len(t, res.Applied, 1)
	assert.Equal(t, "r1", res.Applied[0].RuleID)
}

func TestEvaluate_PorcentajeSeClampa0a100(t *testing.T) {
	res := discount.Evaluate([]*entity.DiscountRule{reglaPorcentaje("r1", "150", 0)}, lineas(), nil, ahora)
	// 150% se clampa a 100%: descuenta todo el ticket.
	assert.True(t, res.DiscountTotal.Equal(d("50")))
	assert.True(t, res.FinalTotal.IsZero())

	res = discount.Evaluate([]*entity.DiscountRule{reglaPorcentaje("r2", "-5", 0)}, lineas(), nil, ahora)
	assert.True(t, res.DiscountTotal.IsZero(), "porcentaje negativo no descuenta")
}

func TestEvaluate_FijoNoExcedeSubtotalDelAlcance(t *testing.T) {
	regla := &entity.DiscountRule{
		ID: "rf", BusinessID: "biz", Name: "fijo",
		Type: entity.DiscountTypeFixed, Value: d("100"),
		Scope: entity.DiscountScopeProduct, ProductIDs: []string{"pY"},
		IsActive: true, CreatedAt: ahora,
	}
	res := discount.Evaluate([]*entity.DiscountRule{regla}, lineas(), nil, ahora)
	// Subtotal del alcance (pY) = 20; el fijo de 100 se recorta a 20.
	assert.True(t, res.DiscountTotal.Equal(d("20")))
	assert.Equal(t, []string{"l2"}, res.Applied[0].ListingIDs)
}

func TestEvaluate_AlcancePorCategoria(t *testing.T) {
	regla := &entity.DiscountRule{
		ID: "rc", BusinessID: "biz", Name: "bebidas al 50",
		Type: entity.DiscountTypePercentage, Value: d("50"),
		Scope: entity.DiscountScopeCategory, CategoryIDs: []string{"bebidas"},
		IsActive: true, CreatedAt: ahora,
	}
	res := discount.Evaluate([]*entity.DiscountRule{regla}, lineas(), nil, ahora)
	// 50% de 30 (línea l1) = 15.
	assert.True(t, res.DiscountTotal.Equal(d("15")))
	assert.Equal(t, []string{"l1"}, res.Applied[0].ListingIDs)
}

func TestEvaluate_AlcanceNoSoportadoAportaCero(t *testing.T) {
	regla := reglaPorcentaje("r1", "10", 0)
	regla.Scope = "CLIENTE_VIP"
	res := discount.Evaluate([]*entity.DiscountRule{regla}, lineas(), nil, ahora)
	assert.True(t, res.DiscountTotal.IsZero())
}

func TestEvaluate_MinimoDeSubtotal(t *testing.T) {
	min := d("60")
	regla := reglaPorcentaje("r1", "10", 0)
	regla.MinSubtotal = &min
	res := discount.Evaluate([]*entity.DiscountRule{regla}, lineas(), nil, ahora)
	assert.True(t, res.DiscountTotal.IsZero(), "ticket de 50 no alcanza mínimo de 60")
}

func TestEvaluate_CodigoInsensibleAMayusculasYTildes(t *testing.T) {
	code := "VERANO"
	regla := reglaPorcentaje("r1", "10", 0)
	regla.Code = &code

	// Sin código presentado la regla no califica.
	res := discount.Evaluate([]*entity.DiscountRule{regla}, lineas(), nil, ahora)
	assert.True(t, res.DiscountTotal.IsZero())

	// "verÁno" normaliza a VERANO.
	res = discount.Evaluate([]*entity.DiscountRule{regla}, lineas(), []string{"verÁno"}, ahora)
	assert.True(t, res.DiscountTotal.Equal(d("5")))
}

func TestEvaluate_VentanaDeFechas(t *testing.T) {
	fin := ahora.Add(-time.Hour)
	regla := reglaPorcentaje("r1", "10", 0)
	regla.EndDate = &fin
	res := discount.Evaluate([]*entity.DiscountRule{regla}, lineas(), nil, ahora)
	assert.True(t, res.DiscountTotal.IsZero(), "regla vencida no aplica")

	inicio := ahora.Add(time.Hour)
	regla = reglaPorcentaje("r2", "10", 0)
	regla.StartDate = &inicio
	res = discount.Evaluate([]*entity.DiscountRule{regla}, lineas(), nil, ahora)
	assert.True(t, res.DiscountTotal.IsZero(), "regla futura no aplica")
}

func TestEvaluate_ReglaInactivaNoAplica(t *testing.T) {
	regla := reglaPorcentaje("r1", "10", 0)
	regla.IsActive = false
	res := discount.Evaluate([]*entity.DiscountRule{regla}, lineas(), nil, ahora)
	assert.True(t, res.DiscountTotal.IsZero())
}

// El acumulado nunca excede el total base: la segunda regla solo recibe lo
// que queda por descontar.
func TestEvaluate_ClampAcumulativoAlRestante(t *testing.T) {
	r1 := reglaPorcentaje("r1", "80", 1) // 40 de 50
	r2 := reglaPorcentaje("r2", "80", 2) // pediría 40, solo quedan 10
	res := discount.Evaluate([]*entity.DiscountRule{r1, r2}, lineas(), nil, ahora)

	require.Len(t, res.Applied, 2)
	assert.True(t, res.Applied[0].Amount.Equal(d("40")))
	assert.True(t, res.Applied[1].Amount.Equal(d("10")))
	assert.True(t, res.DiscountTotal.Equal(d("50")))
	assert.True(t, res.FinalTotal.IsZero())
}

// Orden contractual: Priority asc decide quién consume primero el restante.
func TestEvaluate_OrdenPorPrioridad(t *testing.T) {
	alta := reglaPorcentaje("zz-ultima-por-id", "100", 1)
	baja := reglaPorcentaje("aa-primera-por-id", "100", 2)
	// Se pasan desordenadas a propósito.
	res := discount.Evaluate([]*entity.DiscountRule{baja, alta}, lineas(), nil, ahora)

	require.Len(t, res.Applied, 1, "la de prioridad 1 consume todo; la otra queda en cero y no se registra")
	assert.Equal(t, "zz-ultima-por-id", res.Applied[0].RuleID)
}

// Empate de prioridad y fecha: desempata el ID (orden estable documentado).
func TestEvaluate_DesempatePorID(t *testing.T) {
	a := reglaPorcentaje("aaa", "100", 1)
	b := reglaPorcentaje("bbb", "100", 1)
	res := discount.Evaluate([]*entity.DiscountRule{b, a}, lineas(), nil, ahora)
	require.Len(t, res.Applied, 1)
	assert.Equal(t, "aaa", res.Applied[0].RuleID)
}

// Propiedades de §8: discountTotal <= baseTotal y finalTotal >= 0 siempre.
func TestEvaluate_InvariantesDeTotales(t *testing.T) {
	reglas := []*entity.DiscountRule{
		reglaPorcentaje("r1", "90", 1),
		reglaPorcentaje("r2", "90", 2),
		reglaPorcentaje("r3", "90", 3),
	}
	res := discount.Evaluate(reglas, lineas(), nil, ahora)
	assert.True(t, res.DiscountTotal.LessThanOrEqual(res.BaseTotal))
	assert.True(t, res.FinalTotal.GreaterThanOrEqual(decimal.Zero))
	assert.True(t, res.FinalTotal.Equal(res.BaseTotal.Sub(res.DiscountTotal)))
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "VERANO", discount.NormalizeCode("  verÁno "))
	assert.Equal(t, "PROMO10", discount.NormalizeCode("promo10"))
	assert.Equal(t, "", discount.NormalizeCode("   "))
}
