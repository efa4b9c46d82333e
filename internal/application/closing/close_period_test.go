package closing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/tienda-pos/internal/application/closing"
	"github.com/tu-usuario/tienda-pos/internal/application/discount"
	"github.com/tu-usuario/tienda-pos/internal/application/dto"
	"github.com/tu-usuario/tienda-pos/internal/application/sales"
	"github.com/tu-usuario/tienda-pos/internal/domain"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
	"github.com/tu-usuario/tienda-pos/internal/infrastructure/memory"
)

const (
	bizID      = "biz-1"
	storeID    = "store-1"
	actorID    = "user-1"
	periodID   = "period-1"
	supplierID = "prov-1"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// newClosingFixture arma una tienda con período abierto, un listing propio
// (costo 6, precio 10) y uno en consignación (costo 10, precio 15).
func newClosingFixture(t *testing.T) *memory.Store {
	t.Helper()
	mem := memory.NewStore()
	mem.PutStore(&entity.Store{ID: storeID, BusinessID: bizID, Name: "Tienda Centro"})
	mem.PutListing(&entity.Listing{
		ID: "lst-own", StoreID: storeID, ProductID: "prod-own",
		Quantity: d("20"), Cost: d("6"), Price: d("10"),
	})
	supplier := supplierID
	mem.PutListing(&entity.Listing{
		ID: "lst-cons", StoreID: storeID, ProductID: "prod-cons",
		Quantity: d("10"), Cost: d("10"), Price: d("15"),
		SupplierID: &supplier,
	})
	mem.PutPeriod(&entity.AccountingPeriod{ID: periodID, StoreID: storeID, StartedAt: time.Now().Add(-time.Hour)})
	return mem
}

func sell(t *testing.T, mem *memory.Store, lines []dto.SaleLineRequest, base string) *entity.Sale {
	t.Helper()
	record := sales.NewRecordSaleUseCase(mem.TxRunner(), mem.Stores(), false)
	sale, err := record.Record(context.Background(), bizID, storeID, actorID, lines,
		&discount.Result{BaseTotal: d(base), DiscountTotal: decimal.Zero, FinalTotal: d(base)},
		decimal.Zero, decimal.Zero, nil,
	)
	require.NoError(t, err)
	return sale
}

// ──────────────────────────────────────────────────────────────────────────────
// Cierre de período
// ──────────────────────────────────────────────────────────────────────────────

// Escenario completo: mercancía propia y en consignación con cambio de costo a
// mitad de período. La liquidación agrega por (proveedor, producto) con costo
// promedio ponderado.
func TestClose_AgregaTotalesYLiquidaConsignacion(t *testing.T) {
	mem := newClosingFixture(t)

	// Venta 1: 2 propias a 10 + 2 consignación a 15 (costo 10).
	sell(t, mem, []dto.SaleLineRequest{
		{ListingID: "lst-own", Quantity: d("2")},
		{ListingID: "lst-cons", Quantity: d("2")},
	}, "50")

	// El proveedor sube el costo a 12 antes de la segunda venta.
	cons, err := mem.Listings().GetByID("lst-cons")
	require.NoError(t, err)
	cons.Cost = d("12")
	require.NoError(t, mem.Listings().Update(cons))

	// Venta 2: 3 consignación a 15 (costo 12).
	sell(t, mem, []dto.SaleLineRequest{
		{ListingID: "lst-cons", Quantity: d("3")},
	}, "45")

	uc := closing.NewClosePeriodUseCase(mem.TxRunner(), mem.Stores())
	period, settlements, err := uc.Close(context.Background(), bizID, storeID, periodID, actorID)
	require.NoError(t, err)
	require.NotNil(t, period)
	require.NotNil(t, period.ClosedAt, "el período queda cerrado")

	// Totales del período.
	assert.True(t, period.TotalSales.Equal(d("95")), "50 + 45")
	assert.True(t, period.TotalOwnSales.Equal(d("20")), "2 propias a 10")
	assert.True(t, period.TotalInvestment.Equal(d("12")), "2 propias a costo 6")
	assert.True(t, period.TotalOwnProfit.Equal(d("8")), "20 - 12")
	assert.True(t, period.TotalConsignmentSales.Equal(d("75")), "5 consignación a 15")
	assert.True(t, period.TotalConsignmentProfit.Equal(d("19")), "75 - (2*10 + 3*12)")
	assert.True(t, period.TotalProfit.Equal(d("27")), "8 + 19")

	// Una sola liquidación por (proveedor, producto), con CPP.
	require.Len(t, settlements, 1)
	s := settlements[0]
	assert.Equal(t, supplierID, s.SupplierID)
	assert.Equal(t, "prod-cons", s.ProductID)
	assert.True(t, s.QuantitySold.Equal(d("5")))
	assert.True(t, s.GrossAmount.Equal(d("56")), "2*10 + 3*12")
	assert.True(t, s.UnitCost.Equal(d("11.2")), "56 / 5")
	assert.True(t, s.UnitPrice.Equal(d("15")), "último precio del período")
	assert.True(t, s.ListingQty.Equal(d("5")), "foto de existencia al cierre: 10 - 5")
	assert.Nil(t, s.LiquidatedAt, "nace pendiente de pago")

	// El sucesor abre de inmediato con totales en cero.
	latest, err := mem.Periods().GetLatestByStore(storeID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.NotEqual(t, periodID, latest.ID)
	assert.True(t, latest.IsOpen())
	assert.True(t, latest.TotalSales.IsZero())
}

func TestClose_SegundoCierreDelMismoPeriodo_Falla(t *testing.T) {
	mem := newClosingFixture(t)
	sell(t, mem, []dto.SaleLineRequest{{ListingID: "lst-cons", Quantity: d("1")}}, "15")

	uc := closing.NewClosePeriodUseCase(mem.TxRunner(), mem.Stores())
	_, first, err := uc.Close(context.Background(), bizID, storeID, periodID, actorID)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// El mismo id ya no es el período abierto actual.
	_, second, err := uc.Close(context.Background(), bizID, storeID, periodID, actorID)
	require.ErrorIs(t, err, domain.ErrPeriodMismatch)
	assert.Nil(t, second, "un segundo cierre no genera liquidaciones")

	all, err := mem.Settlements().ListByPeriod(periodID)
	require.NoError(t, err)
	assert.Len(t, all, 1, "las liquidaciones no se duplican")
}

func TestClose_PeriodoSinVentas_CierraEnCeroYSinLiquidaciones(t *testing.T) {
	mem := newClosingFixture(t)

	uc := closing.NewClosePeriodUseCase(mem.TxRunner(), mem.Stores())
	period, settlements, err := uc.Close(context.Background(), bizID, storeID, periodID, actorID)
	require.NoError(t, err)
	assert.Empty(t, settlements)
	assert.True(t, period.TotalSales.IsZero())
	assert.True(t, period.TotalProfit.IsZero())
}

func TestClose_IdObsoleto_Rechaza(t *testing.T) {
	mem := newClosingFixture(t)
	uc := closing.NewClosePeriodUseCase(mem.TxRunner(), mem.Stores())
	_, _, err := uc.Close(context.Background(), bizID, storeID, "otro-periodo", actorID)
	assert.ErrorIs(t, err, domain.ErrPeriodMismatch)
}

// ──────────────────────────────────────────────────────────────────────────────
// Apertura de período
// ──────────────────────────────────────────────────────────────────────────────

func TestOpen_ConPeriodoAbierto_Falla(t *testing.T) {
	mem := newClosingFixture(t)
	uc := closing.NewOpenPeriodUseCase(mem.TxRunner(), mem.Stores())
	_, err := uc.Open(context.Background(), bizID, storeID)
	assert.ErrorIs(t, err, domain.ErrOpenPeriodExists)
}

func TestOpen_PrimerPeriodoDeLaTienda(t *testing.T) {
	mem := memory.NewStore()
	mem.PutStore(&entity.Store{ID: storeID, BusinessID: bizID})
	uc := closing.NewOpenPeriodUseCase(mem.TxRunner(), mem.Stores())

	period, err := uc.Open(context.Background(), bizID, storeID)
	require.NoError(t, err)
	require.NotNil(t, period)
	assert.True(t, period.IsOpen())
	assert.Equal(t, storeID, period.StoreID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Liquidación de pagos
// ──────────────────────────────────────────────────────────────────────────────

func TestLiquidate_EstampaPago_YSegundoPagoConflicto(t *testing.T) {
	mem := newClosingFixture(t)
	sell(t, mem, []dto.SaleLineRequest{{ListingID: "lst-cons", Quantity: d("1")}}, "15")

	closeUC := closing.NewClosePeriodUseCase(mem.TxRunner(), mem.Stores())
	_, settlements, err := closeUC.Close(context.Background(), bizID, storeID, periodID, actorID)
	require.NoError(t, err)
	require.Len(t, settlements, 1)

	uc := closing.NewLiquidateSettlementUseCase(mem.Stores(), mem.Periods(), mem.Settlements())
	require.NoError(t, uc.Liquidate(context.Background(), bizID, settlements[0].ID))

	paid, err := mem.Settlements().GetByID(settlements[0].ID)
	require.NoError(t, err)
	require.NotNil(t, paid.LiquidatedAt)

	err = uc.Liquidate(context.Background(), bizID, settlements[0].ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}
