package closing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/tienda-pos/internal/domain"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
	"github.com/tu-usuario/tienda-pos/internal/domain/repository"
	domsett "github.com/tu-usuario/tienda-pos/internal/domain/settlement"
)

// ClosePeriodUseCase cierra el período abierto de una tienda: agrega todas
// sus ventas en totales propios/consignación, genera una liquidación por
// (proveedor, producto) con costo promedio ponderado y abre el sucesor.
// Un solo cierre puede prosperar por id de período: la relectura con bloqueo
// del último período dentro de la tx actúa como guarda optimista.
type ClosePeriodUseCase struct {
	txRunner  TxRunner
	storeRepo repository.StoreRepository
}

// NewClosePeriodUseCase construye el caso de uso.
func NewClosePeriodUseCase(txRunner TxRunner, storeRepo repository.StoreRepository) *ClosePeriodUseCase {
	return &ClosePeriodUseCase{txRunner: txRunner, storeRepo: storeRepo}
}

// Close ejecuta el cierre. periodID debe ser el último período abierto de la
// tienda (protege contra referencias obsoletas y contra un segundo cierre
// concurrente).
func (uc *ClosePeriodUseCase) Close(
	ctx context.Context,
	businessID, storeID, periodID, actorID string,
) (*entity.AccountingPeriod, []*entity.SupplierSettlement, error) {
	if storeID == "" || periodID == "" || actorID == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	store, err := uc.storeRepo.GetByID(storeID)
	if err != nil || store == nil {
		return nil, nil, domain.ErrNotFound
	}
	if store.BusinessID != businessID {
		return nil, nil, domain.ErrForbidden
	}

	now := time.Now()
	var closed *entity.AccountingPeriod
	var settlements []*entity.SupplierSettlement

	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		// 1) Guarda optimista: el último período de la tienda, bloqueado.
		period, err := repos.Periods.GetLatestForUpdate(storeID)
		if err != nil {
			return err
		}
		if period == nil {
			return domain.ErrNoOpenPeriod
		}
		if !period.IsOpen() {
			return domain.ErrPeriodClosed
		}
		if period.ID != periodID {
			return domain.ErrPeriodMismatch
		}

		// 2) Ventas del período con sus líneas.
		sales, err := repos.Sales.ListByPeriod(periodID)
		if err != nil {
			return err
		}

		// Cache de listings: resuelve proveedor y foto de existencia.
		listingByID := make(map[string]*entity.Listing)
		lookup := func(id string) (*entity.Listing, error) {
			if l, ok := listingByID[id]; ok {
				return l, nil
			}
			l, err := repos.Listings.GetByID(id)
			if err != nil {
				return nil, err
			}
			if l == nil {
				return nil, domain.ErrNotFound
			}
			listingByID[id] = l
			return l, nil
		}

		acc := domsett.NewAccumulator()
		for _, sale := range sales {
			period.TotalSales = period.TotalSales.Add(sale.Total)
			period.TotalTransfer = period.TotalTransfer.Add(sale.TotalTransfer)

			for _, item := range sale.Items {
				listing, err := lookup(item.ListingID)
				if err != nil {
					return err
				}
				lineRevenue := item.UnitPrice.Mul(item.Quantity)
				lineCost := item.UnitCost.Mul(item.Quantity)
				lineProfit := lineRevenue.Sub(lineCost)

				if listing.IsConsignment() {
					period.TotalConsignmentSales = period.TotalConsignmentSales.Add(lineRevenue)
					period.TotalConsignmentProfit = period.TotalConsignmentProfit.Add(lineProfit)
					acc.Add(*listing.SupplierID, listing.ProductID,
						item.Quantity, item.UnitCost, item.UnitPrice, listing.Quantity)
				} else {
					period.TotalInvestment = period.TotalInvestment.Add(lineCost)
					period.TotalOwnSales = period.TotalOwnSales.Add(lineRevenue)
					period.TotalOwnProfit = period.TotalOwnProfit.Add(lineProfit)
				}
			}
		}
		period.TotalProfit = period.TotalOwnProfit.Add(period.TotalConsignmentProfit)

		// 3) Cierra el período con los agregados.
		closedAt := now
		period.ClosedAt = &closedAt
		if err := repos.Periods.Close(period); err != nil {
			return err
		}
		closed = period

		// 4) Una liquidación por (proveedor, producto), pendiente de pago.
		for _, agg := range acc.Aggregates() {
			s := &entity.SupplierSettlement{
				ID:           uuid.New().String(),
				PeriodID:     period.ID,
				SupplierID:   agg.Key.SupplierID,
				ProductID:    agg.Key.ProductID,
				QuantitySold: agg.QuantitySold,
				GrossAmount:  agg.GrossAmount,
				UnitCost:     agg.UnitCost,
				UnitPrice:    agg.UnitPrice,
				ListingQty:   agg.ListingQty,
				CreatedAt:    now,
			}
			if err := repos.Settlements.Create(s); err != nil {
				return err
			}
			settlements = append(settlements, s)
		}

		// 5) Abre el sucesor con totales en cero.
		next := &entity.AccountingPeriod{
			ID:        uuid.New().String(),
			StoreID:   storeID,
			StartedAt: now,
		}
		return repos.Periods.Create(next)
	})
	if err != nil {
		return nil, nil, err
	}
	return closed, settlements, nil
}
