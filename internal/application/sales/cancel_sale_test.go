package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/tienda-pos/internal/application/dto"
	"github.com/tu-usuario/tienda-pos/internal/application/sales"
	"github.com/tu-usuario/tienda-pos/internal/domain"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
	"github.com/tu-usuario/tienda-pos/internal/infrastructure/memory"
)

// recordSampleSale registra una venta de 2 unidades del listing lst-1.
func recordSampleSale(t *testing.T, mem *memory.Store) *entity.Sale {
	t.Helper()
	record := sales.NewRecordSaleUseCase(mem.TxRunner(), mem.Stores(), false)
	sale, err := record.Record(context.Background(), bizID, storeID, actorID,
		[]dto.SaleLineRequest{{ListingID: "lst-1", Quantity: d("2")}},
		noDiscounts("40"), decimal.Zero, decimal.Zero, nil,
	)
	require.NoError(t, err)
	return sale
}

func TestCancel_RestauraExistenciaYCompensaLibro(t *testing.T) {
	mem, _ := newFixture(t)
	sale := recordSampleSale(t, mem)

	cancel := sales.NewCancelSaleUseCase(mem.TxRunner(), mem.Sales(), mem.Stores())
	require.NoError(t, cancel.Cancel(context.Background(), bizID, storeID, sale.ID, actorID))

	listing, err := mem.Listings().GetByID("lst-1")
	require.NoError(t, err)
	assert.True(t, listing.Quantity.Equal(d("10")), "la existencia vuelve a 10")

	gone, err := mem.Sales().GetByID(sale.ID)
	require.NoError(t, err)
	assert.Nil(t, gone, "la venta se elimina")

	// El libro nunca se edita: la venta original y su compensación conviven.
	movements, err := mem.Movements().ListByReference(sale.ID)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, "VENTA", movements[0].Type)
	assert.Equal(t, "AJUSTE_ENTRADA", movements[1].Type, "la salida de venta se compensa con ajuste de entrada")
	require.NotNil(t, movements[1].Reason)
	assert.Equal(t, "sale cancellation", *movements[1].Reason)
}

func TestCancel_PeriodoCerrado_Rechaza(t *testing.T) {
	mem, _ := newFixture(t)
	sale := recordSampleSale(t, mem)

	// Cierra el período de la venta y abre el sucesor.
	period, err := mem.Periods().GetByID(periodID)
	require.NoError(t, err)
	closedAt := time.Now()
	period.ClosedAt = &closedAt
	require.NoError(t, mem.Periods().Close(period))
	require.NoError(t, mem.Periods().Create(&entity.AccountingPeriod{
		ID: "period-2", StoreID: storeID, StartedAt: closedAt,
	}))

	cancel := sales.NewCancelSaleUseCase(mem.TxRunner(), mem.Sales(), mem.Stores())
	err = cancel.Cancel(context.Background(), bizID, storeID, sale.ID, actorID)
	require.ErrorIs(t, err, domain.ErrSaleInClosedPeriod)

	// La venta y su descuento de existencia quedan intactos.
	still, err := mem.Sales().GetByID(sale.ID)
	require.NoError(t, err)
	assert.NotNil(t, still)
	listing, err := mem.Listings().GetByID("lst-1")
	require.NoError(t, err)
	assert.True(t, listing.Quantity.Equal(d("8")))
}

func TestCancel_VentaInexistente_NotFound(t *testing.T) {
	mem, _ := newFixture(t)
	cancel := sales.NewCancelSaleUseCase(mem.TxRunner(), mem.Sales(), mem.Stores())
	err := cancel.Cancel(context.Background(), bizID, storeID, "no-existe", actorID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancel_DosVentas_SoloRevierteLaCancelada(t *testing.T) {
	mem, _ := newFixture(t)
	first := recordSampleSale(t, mem)
	second := recordSampleSale(t, mem)

	cancel := sales.NewCancelSaleUseCase(mem.TxRunner(), mem.Sales(), mem.Stores())
	require.NoError(t, cancel.Cancel(context.Background(), bizID, storeID, first.ID, actorID))

	listing, err := mem.Listings().GetByID("lst-1")
	require.NoError(t, err)
	assert.True(t, listing.Quantity.Equal(d("8")), "10 - 2 - 2 + 2 = 8")

	still, err := mem.Sales().GetByID(second.ID)
	require.NoError(t, err)
	assert.NotNil(t, still, "la otra venta sigue viva")
}
