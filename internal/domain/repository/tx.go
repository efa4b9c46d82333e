package repository

// TxRepos agrupa los repositorios atados a una misma transacción. El TxRunner
// de infraestructura construye este paquete sobre la tx y lo entrega al
// callback del caso de uso; todo lo que el callback haga con él es atómico.
type TxRepos struct {
	Movements   StockMovementRepository
	Listings    ListingRepository
	Sales       SaleRepository
	Periods     PeriodRepository
	Settlements SettlementRepository
}
