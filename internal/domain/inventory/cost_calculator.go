package inventory

import "github.com/shopspring/decimal"

// CostCalculator implementa el costo promedio ponderado (servicio de dominio)
// usado por el write-back de costo en entradas de mercancía (COMPRA,
// CONSIGNACION_ENTRADA).
// NuevoCosto = ((ExistenciaActual * CostoActual) + (CantEntrada * CostoEntrada)) / (ExistenciaActual + CantEntrada)
func CostCalculator(existenciaActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := existenciaActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := existenciaActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum)
}
