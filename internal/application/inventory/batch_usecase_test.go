package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/tienda-pos/internal/application/dto"
	"github.com/tu-usuario/tienda-pos/internal/application/inventory"
	"github.com/tu-usuario/tienda-pos/internal/domain"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
	"github.com/tu-usuario/tienda-pos/internal/infrastructure/memory"
)

const (
	bizID   = "biz-1"
	storeID = "store-1"
	actorID = "user-1"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(v decimal.Decimal) *decimal.Decimal { return &v }

func newBatchFixture(t *testing.T) (*memory.Store, *inventory.RegisterBatchMovementsUseCase) {
	t.Helper()
	mem := memory.NewStore()
	mem.PutStore(&entity.Store{ID: storeID, BusinessID: bizID})
	mem.PutProduct(&entity.Product{ID: "prod-1", BusinessID: bizID, SKU: "SKU-1", Name: "Camisa"})
	mem.PutListing(&entity.Listing{
		ID: "lst-1", StoreID: storeID, ProductID: "prod-1",
		Quantity: d("5"), Cost: d("10"), Price: d("25"),
	})
	uc := inventory.NewRegisterBatchMovementsUseCase(mem.TxRunner(), mem.Stores(), mem.Products())
	return mem, uc
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro masivo
// ──────────────────────────────────────────────────────────────────────────────

// Compra con costo: la existencia sube y el costo promedio ponderado se
// reescribe en el listing, dejando la foto antes/después en el movimiento.
func TestRegisterBatch_CompraConCosto_RecalculaCPP(t *testing.T) {
	mem, uc := newBatchFixture(t)

	movements, err := uc.RegisterBatch(context.Background(), bizID, storeID, actorID,
		[]dto.BatchMovementItem{{
			ListingID: "lst-1", Type: "COMPRA", Quantity: d("5"), UnitCost: ptr(d("14")),
		}},
	)
	require.NoError(t, err)
	require.Len(t, movements, 1)

	m := movements[0]
	require.NotNil(t, m.CostBefore)
	require.NotNil(t, m.CostAfter)
	assert.True(t, m.CostBefore.Equal(d("10")))
	assert.True(t, m.CostAfter.Equal(d("12")), "(5*10 + 5*14) / 10")
	require.NotNil(t, m.TotalCost)
	assert.True(t, m.TotalCost.Equal(d("70")))

	listing, err := mem.Listings().GetByID("lst-1")
	require.NoError(t, err)
	assert.True(t, listing.Quantity.Equal(d("10")))
	assert.True(t, listing.Cost.Equal(d("12")), "write-back del CPP en el listing")
}

// Ajuste de salida sin costo: baja la existencia, no toca el costo.
func TestRegisterBatch_AjusteSalida_NoTocaCosto(t *testing.T) {
	mem, uc := newBatchFixture(t)

	_, err := uc.RegisterBatch(context.Background(), bizID, storeID, actorID,
		[]dto.BatchMovementItem{{
			ListingID: "lst-1", Type: "AJUSTE_SALIDA", Quantity: d("7"), Reason: "merma",
		}},
	)
	require.NoError(t, err)

	listing, err := mem.Listings().GetByID("lst-1")
	require.NoError(t, err)
	assert.True(t, listing.Quantity.Equal(d("-2")), "el ajuste manual admite negativo")
	assert.True(t, listing.Cost.Equal(d("10")), "el costo no cambia sin entrada con costo")
}

// Renglón sin listing: se crea el listing del producto con el precio y costo
// iniciales del renglón.
func TestRegisterBatch_AltaDeListingEnEntrada(t *testing.T) {
	mem, uc := newBatchFixture(t)
	mem.PutProduct(&entity.Product{ID: "prod-2", BusinessID: bizID, SKU: "SKU-2", Name: "Pantalón"})

	movements, err := uc.RegisterBatch(context.Background(), bizID, storeID, actorID,
		[]dto.BatchMovementItem{{
			ProductID: "prod-2", Type: "COMPRA", Quantity: d("3"),
			UnitCost: ptr(d("8")), Price: ptr(d("19")),
		}},
	)
	require.NoError(t, err)
	require.Len(t, movements, 1)

	listing, err := mem.Listings().GetByStoreProduct(storeID, "prod-2")
	require.NoError(t, err)
	require.NotNil(t, listing, "el listing debe crearse")
	assert.True(t, listing.Quantity.Equal(d("3")))
	assert.True(t, listing.Price.Equal(d("19")))
	assert.True(t, listing.Cost.Equal(d("8")), "CPP sobre existencia cero = costo de entrada")
}

func TestRegisterBatch_AltaDeListingEnSalida_Rechaza(t *testing.T) {
	_, uc := newBatchFixture(t)

	_, err := uc.RegisterBatch(context.Background(), bizID, storeID, actorID,
		[]dto.BatchMovementItem{{
			ProductID: "prod-1", Type: "AJUSTE_SALIDA", Quantity: d("1"),
			UnitCost: ptr(d("8")), Price: ptr(d("19")),
		}},
	)
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"un alta de listing solo tiene sentido en entradas")
}

func TestRegisterBatch_TipoDesconocido_Rechaza(t *testing.T) {
	_, uc := newBatchFixture(t)

	_, err := uc.RegisterBatch(context.Background(), bizID, storeID, actorID,
		[]dto.BatchMovementItem{{ListingID: "lst-1", Type: "REGALO", Quantity: d("1")}},
	)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Cualquier renglón inválido revierte el lote entero.
func TestRegisterBatch_FalloEnUnRenglon_RevierteTodo(t *testing.T) {
	mem, uc := newBatchFixture(t)

	_, err := uc.RegisterBatch(context.Background(), bizID, storeID, actorID,
		[]dto.BatchMovementItem{
			{ListingID: "lst-1", Type: "COMPRA", Quantity: d("5"), UnitCost: ptr(d("14"))},
			{ListingID: "no-existe", Type: "COMPRA", Quantity: d("1"), UnitCost: ptr(d("1"))},
		},
	)
	require.ErrorIs(t, err, domain.ErrNotFound)

	listing, err := mem.Listings().GetByID("lst-1")
	require.NoError(t, err)
	assert.True(t, listing.Quantity.Equal(d("5")), "el primer renglón también se revierte")
	assert.True(t, listing.Cost.Equal(d("10")))
}

func TestRegisterBatch_VentaBloqueadaPorExistencia(t *testing.T) {
	_, uc := newBatchFixture(t)

	// VENTA vía lote no es ruta de ajuste: sin AllowNegative.
	_, err := uc.RegisterBatch(context.Background(), bizID, storeID, actorID,
		[]dto.BatchMovementItem{{ListingID: "lst-1", Type: "VENTA", Quantity: d("9")}},
	)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}
