package closing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/tienda-pos/internal/application/closing"
	"github.com/tu-usuario/tienda-pos/internal/application/discount"
	"github.com/tu-usuario/tienda-pos/internal/application/dto"
	"github.com/tu-usuario/tienda-pos/internal/application/sales"
	"github.com/tu-usuario/tienda-pos/internal/domain"
	"github.com/tu-usuario/tienda-pos/internal/infrastructure/memory"
)

func newSummaryUC(mem *memory.Store) *closing.PeriodSummaryUseCase {
	return closing.NewPeriodSummaryUseCase(mem.Stores(), mem.Periods(), mem.Sales(), mem.Listings())
}

// Mismo escenario del cierre pero con un descuento de ticket: el neto
// prorratea el descuento entre propia y consignación por peso en ventas.
func TestSummarize_ProrrateaDescuentosPorCategoria(t *testing.T) {
	mem := newClosingFixture(t)

	// Venta 1 con descuento 9.5 sobre base 50: 2 propias a 10 + 2 consignación a 15.
	record := sales.NewRecordSaleUseCase(mem.TxRunner(), mem.Stores(), false)
	result := &discount.Result{
		BaseTotal:     d("50"),
		DiscountTotal: d("9.5"),
		FinalTotal:    d("40.5"),
		Applied:       []discount.Applied{{RuleID: "rule-1", Amount: d("9.5")}},
	}
	_, err := record.Record(context.Background(), bizID, storeID, actorID,
		[]dto.SaleLineRequest{
			{ListingID: "lst-own", Quantity: d("2")},
			{ListingID: "lst-cons", Quantity: d("2")},
		},
		result, decimal.Zero, decimal.Zero, nil,
	)
	require.NoError(t, err)

	// Venta 2 sin descuento: 3 consignación a 15 (costo ya en 12).
	cons, err := mem.Listings().GetByID("lst-cons")
	require.NoError(t, err)
	cons.Cost = d("12")
	require.NoError(t, mem.Listings().Update(cons))
	sell(t, mem, []dto.SaleLineRequest{{ListingID: "lst-cons", Quantity: d("3")}}, "45")

	s, err := newSummaryUC(mem).Summarize(context.Background(), bizID, storeID, periodID)
	require.NoError(t, err)

	assert.Equal(t, 2, s.SaleCount)
	assert.True(t, s.GrossSales.Equal(d("95")))
	assert.True(t, s.DiscountTotal.Equal(d("9.5")))
	assert.True(t, s.NetSales.Equal(d("85.5")))
	assert.True(t, s.OwnSales.Equal(d("20")))
	assert.True(t, s.ConsignmentSales.Equal(d("75")))

	// Utilidad bruta: propia 8, consignación 19. El descuento 9.5 se reparte
	// 20/95 y 75/95: propia 8 - 2 = 6; consignación 19 - 7.5 = 11.5.
	assert.True(t, s.OwnNetProfit.Equal(d("6")), "own: %s", s.OwnNetProfit)
	assert.True(t, s.ConsignmentNetProfit.Equal(d("11.5")), "cons: %s", s.ConsignmentNetProfit)
}

func TestSummarize_SinDescuentos_NetoIgualBruto(t *testing.T) {
	mem := newClosingFixture(t)
	sell(t, mem, []dto.SaleLineRequest{{ListingID: "lst-own", Quantity: d("2")}}, "20")

	s, err := newSummaryUC(mem).Summarize(context.Background(), bizID, storeID, periodID)
	require.NoError(t, err)

	assert.True(t, s.GrossSales.Equal(d("20")))
	assert.True(t, s.DiscountTotal.IsZero())
	assert.True(t, s.NetSales.Equal(d("20")))
	assert.True(t, s.OwnNetProfit.Equal(d("8")), "2 * (10 - 6)")
	assert.True(t, s.ConsignmentNetProfit.IsZero())
}

// Tras el cierre, el resumen usa las utilidades almacenadas en el período.
func TestSummarize_PeriodoCerrado_UsaTotalesAlmacenados(t *testing.T) {
	mem := newClosingFixture(t)
	sell(t, mem, []dto.SaleLineRequest{{ListingID: "lst-own", Quantity: d("2")}}, "20")

	closeUC := closing.NewClosePeriodUseCase(mem.TxRunner(), mem.Stores())
	_, _, err := closeUC.Close(context.Background(), bizID, storeID, periodID, actorID)
	require.NoError(t, err)

	s, err := newSummaryUC(mem).Summarize(context.Background(), bizID, storeID, periodID)
	require.NoError(t, err)
	require.NotNil(t, s.Period.ClosedAt)
	assert.True(t, s.OwnNetProfit.Equal(d("8")))
	assert.True(t, s.GrossSales.Equal(d("20")))
}

func TestSummarize_PeriodoDeOtroNegocio_Prohibido(t *testing.T) {
	mem := newClosingFixture(t)
	_, err := newSummaryUC(mem).Summarize(context.Background(), "otro-negocio", storeID, periodID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
