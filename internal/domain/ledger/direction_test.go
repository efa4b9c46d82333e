package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/tienda-pos/internal/domain"
	"github.com/tu-usuario/tienda-pos/internal/domain/ledger"
)

// ──────────────────────────────────────────────────────────────────────────────
// La tabla de dirección es la única fuente de verdad del signo de cada
// movimiento. Estos tests fijan la tabla completa: si alguien cambia un signo
// inadvertidamente, fallan de inmediato.
// ──────────────────────────────────────────────────────────────────────────────

func TestDirection_TablaCompleta(t *testing.T) {
	esperado := map[ledger.MovementType]int{
		ledger.Compra:                 +1,
		ledger.Venta:                  -1,
		ledger.AjusteEntrada:          +1,
		ledger.AjusteSalida:           -1,
		ledger.TraspasoEntrada:        +1,
		ledger.TraspasoSalida:         -1,
		ledger.DesagregacionBaja:      -1,
		ledger.DesagregacionAlta:      +1,
		ledger.ConsignacionEntrada:    +1,
		ledger.ConsignacionDevolucion: -1,
	}
	require.Len(t, ledger.All(), len(esperado), "All() debe cubrir toda la tabla")
	for _, tipo := range ledger.All() {
		d, err := tipo.Direction()
		require.NoError(t, err, "tipo %s debe estar en la tabla", tipo)
		assert.Equal(t, esperado[tipo], d, "dirección de %s", tipo)
	}
}

func TestDirection_TipoDesconocido(t *testing.T) {
	_, err := ledger.MovementType("DEVOLUCION_CLIENTE").Direction()
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.False(t, ledger.MovementType("").Valid())
}

func TestDelta_AplicaSigno(t *testing.T) {
	cinco := decimal.NewFromInt(5)

	delta, err := ledger.Compra.Delta(cinco)
	require.NoError(t, err)
	assert.True(t, delta.Equal(cinco))

	delta, err = ledger.Venta.Delta(cinco)
	require.NoError(t, err)
	assert.True(t, delta.Equal(cinco.Neg()))
}

// Propiedad de §8: para cualquier secuencia de movimientos, la existencia
// final es la inicial más la suma firmada de las cantidades.
func TestDelta_SumaFirmadaDeSecuencia(t *testing.T) {
	secuencia := []struct {
		tipo ledger.MovementType
		qty  int64
	}{
		{ledger.Compra, 10},
		{ledger.Venta, 3},
		{ledger.AjusteSalida, 1},
		{ledger.ConsignacionEntrada, 5},
		{ledger.TraspasoSalida, 2},
		{ledger.DesagregacionAlta, 4},
		{ledger.DesagregacionBaja, 1},
	}
	existencia := decimal.NewFromInt(7) // valor inicial
	for _, m := range secuencia {
		delta, err := m.tipo.Delta(decimal.NewFromInt(m.qty))
		require.NoError(t, err)
		existencia = existencia.Add(delta)
	}
	// 7 +10 -3 -1 +5 -2 +4 -1 = 19
	assert.True(t, existencia.Equal(decimal.NewFromInt(19)),
		"existencia final debe ser la suma firmada: %s", existencia)
}

func TestInverse_MapaDeCancelacion(t *testing.T) {
	// Los tipos que restaron existencia en la venta se restauran con
	// AJUSTE_ENTRADA; cualquier otro tipo observado se compensa con
	// AJUSTE_SALIDA.
	assert.Equal(t, ledger.AjusteEntrada, ledger.Venta.Inverse())
	assert.Equal(t, ledger.AjusteEntrada, ledger.DesagregacionBaja.Inverse())
	assert.Equal(t, ledger.AjusteSalida, ledger.Compra.Inverse())
	assert.Equal(t, ledger.AjusteSalida, ledger.DesagregacionAlta.Inverse())
	assert.Equal(t, ledger.AjusteSalida, ledger.ConsignacionEntrada.Inverse())
}

// Para los tipos que una venta puede emitir (salidas de mercancía), la
// inversa siempre mueve la existencia en sentido contrario.
func TestInverse_CompensaSalidasDeVenta(t *testing.T) {
	for _, tipo := range []ledger.MovementType{ledger.Venta, ledger.DesagregacionBaja} {
		d, err := tipo.Direction()
		require.NoError(t, err)
		di, err := tipo.Inverse().Direction()
		require.NoError(t, err)
		assert.Equal(t, -d, di, "inversa de %s debe cambiar el signo", tipo)
	}
}
