package settlement_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/tienda-pos/internal/domain/settlement"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

// Vector de §8: líneas (qty=2, costo=10) y (qty=3, costo=12) para el mismo
// proveedor/producto deben liquidar costo promedio (2×10+3×12)/5 = 11.2 y
// GrossAmount = 56.
func TestAccumulator_PromedioPonderado(t *testing.T) {
	acc := settlement.NewAccumulator()
	acc.Add("prov-1", "prod-X", d("2"), d("10"), d("15"), d("8"))
	acc.Add("prov-1", "prod-X", d("3"), d("12"), d("15"), d("8"))

	aggs := acc.Aggregates()
	require.Len(t, aggs, 1)
	a := aggs[0]
	assert.True(t, a.QuantitySold.Equal(d("5")), "quantitySold: %s", a.QuantitySold)
	assert.True(t, a.GrossAmount.Equal(d("56")), "grossAmount: %s", a.GrossAmount)
	assert.True(t, a.UnitCost.Equal(d("11.2")), "unitCost: %s", a.UnitCost)
	assert.True(t, a.UnitPrice.Equal(d("15")))
	assert.True(t, a.ListingQty.Equal(d("8")))
}

// El promedio ponderado no depende del orden de los aportes.
func TestAccumulator_OrdenIndependiente(t *testing.T) {
	acc1 := settlement.NewAccumulator()
	acc1.Add("p", "x", d("2"), d("10"), d("15"), d("0"))
	acc1.Add("p", "x", d("3"), d("12"), d("15"), d("0"))

	acc2 := settlement.NewAccumulator()
	acc2.Add("p", "x", d("3"), d("12"), d("15"), d("0"))
	acc2.Add("p", "x", d("2"), d("10"), d("15"), d("0"))

	a1 := acc1.Aggregates()[0]
	a2 := acc2.Aggregates()[0]
	assert.True(t, a1.UnitCost.Equal(a2.UnitCost))
	assert.True(t, a1.GrossAmount.Equal(a2.GrossAmount))
	assert.True(t, a1.QuantitySold.Equal(a2.QuantitySold))
}

// Claves distintas no se mezclan y conservan orden de primera aparición.
func TestAccumulator_ClavesSeparadas(t *testing.T) {
	acc := settlement.NewAccumulator()
	acc.Add("prov-1", "prod-X", d("1"), d("10"), d("15"), d("4"))
	acc.Add("prov-2", "prod-X", d("2"), d("9"), d("14"), d("6"))
	acc.Add("prov-1", "prod-Y", d("1"), d("5"), d("8"), d("2"))

	aggs := acc.Aggregates()
	require.Len(t, aggs, 3)
	assert.Equal(t, settlement.Key{SupplierID: "prov-1", ProductID: "prod-X"}, aggs[0].Key)
	assert.Equal(t, settlement.Key{SupplierID: "prov-2", ProductID: "prod-X"}, aggs[1].Key)
	assert.Equal(t, settlement.Key{SupplierID: "prov-1", ProductID: "prod-Y"}, aggs[2].Key)
}

// El último precio visto gana (foto para la liquidación).
func TestAccumulator_UltimoPrecioVisto(t *testing.T) {
	acc := settlement.NewAccumulator()
	acc.Add("p", "x", d("1"), d("10"), d("15"), d("0"))
	acc.Add("p", "x", d("1"), d("10"), d("17"), d("0"))
	assert.True(t, acc.Aggregates()[0].UnitPrice.Equal(d("17")))
}
