package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/tienda-pos/internal/application/discount"
	"github.com/tu-usuario/tienda-pos/internal/application/dto"
	"github.com/tu-usuario/tienda-pos/internal/application/sales"
	"github.com/tu-usuario/tienda-pos/internal/domain"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
	"github.com/tu-usuario/tienda-pos/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	bizID    = "biz-1"
	storeID  = "store-1"
	actorID  = "user-1"
	periodID = "period-1"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// newFixture arma una tienda con período abierto y un listing propio:
// existencia 10, costo 5, precio 20.
func newFixture(t *testing.T) (*memory.Store, *sales.RecordSaleUseCase) {
	t.Helper()
	mem := memory.NewStore()
	mem.PutStore(&entity.Store{ID: storeID, BusinessID: bizID, Name: "Tienda Centro"})
	mem.PutProduct(&entity.Product{ID: "prod-1", BusinessID: bizID, SKU: "SKU-1", Name: "Camisa"})
	mem.PutListing(&entity.Listing{
		ID: "lst-1", StoreID: storeID, ProductID: "prod-1",
		Quantity: d("10"), Cost: d("5"), Price: d("20"),
	})
	mem.PutPeriod(&entity.AccountingPeriod{ID: periodID, StoreID: storeID, StartedAt: time.Now().Add(-time.Hour)})
	uc := sales.NewRecordSaleUseCase(mem.TxRunner(), mem.Stores(), false)
	return mem, uc
}

func noDiscounts(base string) *discount.Result {
	return &discount.Result{
		BaseTotal:     d(base),
		DiscountTotal: decimal.Zero,
		FinalTotal:    d(base),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro de venta
// ──────────────────────────────────────────────────────────────────────────────

func TestRecord_VentaDescuentaExistenciaYEscribeLibro(t *testing.T) {
	mem, uc := newFixture(t)

	sale, err := uc.Record(context.Background(), bizID, storeID, actorID,
		[]dto.SaleLineRequest{{ListingID: "lst-1", Quantity: d("2")}},
		noDiscounts("40"), decimal.Zero, decimal.Zero, nil,
	)
	require.NoError(t, err)
	require.NotNil(t, sale)

	assert.Equal(t, periodID, sale.PeriodID, "la venta debe quedar en el período abierto")
	assert.True(t, sale.Total.Equal(d("40")))
	assert.True(t, sale.TotalCash.Equal(d("40")), "sin desglose de pago, todo es efectivo")
	require.Len(t, sale.Items, 1)
	assert.True(t, sale.Items[0].UnitPrice.Equal(d("20")), "precio en cero toma el del listing")
	assert.True(t, sale.Items[0].UnitCost.Equal(d("5")), "el costo se fotografía al vender")

	listing, err := mem.Listings().GetByID("lst-1")
	require.NoError(t, err)
	assert.True(t, listing.Quantity.Equal(d("8")), "existencia 10 - 2 = 8")

	movements, err := mem.Movements().ListByReference(sale.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, "VENTA", movements[0].Type)
	assert.True(t, movements[0].Quantity.Equal(d("2")), "la cantidad del libro es magnitud positiva")
	assert.True(t, movements[0].QuantityBefore.Equal(d("10")))
}

func TestRecord_ExistenciaInsuficiente_NoDejaEfectos(t *testing.T) {
	mem, uc := newFixture(t)

	_, err := uc.Record(context.Background(), bizID, storeID, actorID,
		[]dto.SaleLineRequest{{ListingID: "lst-1", Quantity: d("11")}},
		noDiscounts("220"), decimal.Zero, decimal.Zero, nil,
	)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Atómico: nada quedó a medias.
	listing, err := mem.Listings().GetByID("lst-1")
	require.NoError(t, err)
	assert.True(t, listing.Quantity.Equal(d("10")), "la existencia no debe cambiar")
	salesList, err := mem.Sales().ListByPeriod(periodID)
	require.NoError(t, err)
	assert.Empty(t, salesList, "no debe persistir ninguna venta")
}

func TestRecord_BackordersPermitenNegativo(t *testing.T) {
	mem := memory.NewStore()
	mem.PutStore(&entity.Store{ID: storeID, BusinessID: bizID})
	mem.PutListing(&entity.Listing{
		ID: "lst-1", StoreID: storeID, ProductID: "prod-1",
		Quantity: d("10"), Cost: d("5"), Price: d("20"),
	})
	mem.PutPeriod(&entity.AccountingPeriod{ID: periodID, StoreID: storeID, StartedAt: time.Now()})
	uc := sales.NewRecordSaleUseCase(mem.TxRunner(), mem.Stores(), true)

	_, err := uc.Record(context.Background(), bizID, storeID, actorID,
		[]dto.SaleLineRequest{{ListingID: "lst-1", Quantity: d("11")}},
		noDiscounts("220"), decimal.Zero, decimal.Zero, nil,
	)
	require.NoError(t, err)

	listing, err := mem.Listings().GetByID("lst-1")
	require.NoError(t, err)
	assert.True(t, listing.Quantity.Equal(d("-1")), "con backorders la existencia puede quedar negativa")
}

func TestRecord_SinPeriodoAbierto_Rechaza(t *testing.T) {
	mem := memory.NewStore()
	mem.PutStore(&entity.Store{ID: storeID, BusinessID: bizID})
	mem.PutListing(&entity.Listing{
		ID: "lst-1", StoreID: storeID, ProductID: "prod-1",
		Quantity: d("10"), Cost: d("5"), Price: d("20"),
	})
	closedAt := time.Now().Add(-time.Minute)
	mem.PutPeriod(&entity.AccountingPeriod{
		ID: periodID, StoreID: storeID,
		StartedAt: time.Now().Add(-time.Hour), ClosedAt: &closedAt,
	})
	uc := sales.NewRecordSaleUseCase(mem.TxRunner(), mem.Stores(), false)

	_, err := uc.Record(context.Background(), bizID, storeID, actorID,
		[]dto.SaleLineRequest{{ListingID: "lst-1", Quantity: d("1")}},
		noDiscounts("20"), decimal.Zero, decimal.Zero, nil,
	)
	assert.ErrorIs(t, err, domain.ErrNoOpenPeriod)
}

func TestRecord_PagoNoCuadra_Rechaza(t *testing.T) {
	_, uc := newFixture(t)

	_, err := uc.Record(context.Background(), bizID, storeID, actorID,
		[]dto.SaleLineRequest{{ListingID: "lst-1", Quantity: d("2")}},
		noDiscounts("40"), d("30"), d("5"), nil, // 35 != 40
	)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecord_DesgloseInconsistente_Rechaza(t *testing.T) {
	_, uc := newFixture(t)

	// FinalTotal no es Base - Descuento: el motor jamás produce esto.
	badResult := &discount.Result{
		BaseTotal:     d("40"),
		DiscountTotal: d("5"),
		FinalTotal:    d("40"),
	}
	_, err := uc.Record(context.Background(), bizID, storeID, actorID,
		[]dto.SaleLineRequest{{ListingID: "lst-1", Quantity: d("2")}},
		badResult, decimal.Zero, decimal.Zero, nil,
	)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecord_BaseDistintaALasLineas_Rechaza(t *testing.T) {
	mem, uc := newFixture(t)

	// El desglose dice base 100 pero las líneas suman 40.
	_, err := uc.Record(context.Background(), bizID, storeID, actorID,
		[]dto.SaleLineRequest{{ListingID: "lst-1", Quantity: d("2")}},
		noDiscounts("100"), decimal.Zero, decimal.Zero, nil,
	)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// La validación ocurre dentro de la tx: el rollback revierte la venta.
	listing, err := mem.Listings().GetByID("lst-1")
	require.NoError(t, err)
	assert.True(t, listing.Quantity.Equal(d("10")))
	salesList, err := mem.Sales().ListByPeriod(periodID)
	require.NoError(t, err)
	assert.Empty(t, salesList)
}

func TestRecord_TiendaDeOtroNegocio_Prohibido(t *testing.T) {
	_, uc := newFixture(t)

	_, err := uc.Record(context.Background(), "otro-negocio", storeID, actorID,
		[]dto.SaleLineRequest{{ListingID: "lst-1", Quantity: d("1")}},
		noDiscounts("20"), decimal.Zero, decimal.Zero, nil,
	)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
