package closing

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tienda-pos/internal/domain"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
	"github.com/tu-usuario/tienda-pos/internal/domain/repository"
)

// PeriodSummary cifras de un período para despliegue. Los netos prorratean
// el descuento total entre las categorías propia/consignación según su peso
// en las ventas brutas; es una conveniencia de reporte, nunca una mutación
// del libro.
type PeriodSummary struct {
	Period               *entity.AccountingPeriod
	GrossSales           decimal.Decimal
	DiscountTotal        decimal.Decimal
	NetSales             decimal.Decimal
	OwnSales             decimal.Decimal
	ConsignmentSales     decimal.Decimal
	OwnNetProfit         decimal.Decimal
	ConsignmentNetProfit decimal.Decimal
	SaleCount            int
}

// PeriodSummaryUseCase vista de solo lectura sobre un período (abierto o
// cerrado); recalcula brutos y descuentos directamente de líneas y
// descuentos aplicados.
type PeriodSummaryUseCase struct {
	storeRepo   repository.StoreRepository
	periodRepo  repository.PeriodRepository
	saleRepo    repository.SaleRepository
	listingRepo repository.ListingRepository
}

// NewPeriodSummaryUseCase construye el caso de uso.
func NewPeriodSummaryUseCase(
	storeRepo repository.StoreRepository,
	periodRepo repository.PeriodRepository,
	saleRepo repository.SaleRepository,
	listingRepo repository.ListingRepository,
) *PeriodSummaryUseCase {
	return &PeriodSummaryUseCase{
		storeRepo:   storeRepo,
		periodRepo:  periodRepo,
		saleRepo:    saleRepo,
		listingRepo: listingRepo,
	}
}

// Summarize calcula la vista del período.
func (uc *PeriodSummaryUseCase) Summarize(ctx context.Context, businessID, storeID, periodID string) (*PeriodSummary, error) {
	if storeID == "" || periodID == "" {
		return nil, domain.ErrInvalidInput
	}
	store, err := uc.storeRepo.GetByID(storeID)
	if err != nil || store == nil {
		return nil, domain.ErrNotFound
	}
	if store.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}
	period, err := uc.periodRepo.GetByID(periodID)
	if err != nil {
		return nil, err
	}
	if period == nil || period.StoreID != storeID {
		return nil, domain.ErrNotFound
	}

	sales, err := uc.saleRepo.ListByPeriod(periodID)
	if err != nil {
		return nil, err
	}

	s := &PeriodSummary{Period: period, SaleCount: len(sales)}
	listingByID := make(map[string]*entity.Listing)
	ownProfit := decimal.Zero
	consProfit := decimal.Zero

	for _, sale := range sales {
		applied, err := uc.saleRepo.ListAppliedBySale(sale.ID)
		if err != nil {
			return nil, err
		}
		for _, a := range applied {
			s.DiscountTotal = s.DiscountTotal.Add(a.Amount)
		}

		for _, item := range sale.Items {
			listing, ok := listingByID[item.ListingID]
			if !ok {
				listing, err = uc.listingRepo.GetByID(item.ListingID)
				if err != nil {
					return nil, err
				}
				if listing == nil {
					return nil, domain.ErrNotFound
				}
				listingByID[item.ListingID] = listing
			}
			lineRevenue := item.UnitPrice.Mul(item.Quantity)
			lineProfit := lineRevenue.Sub(item.UnitCost.Mul(item.Quantity))
			s.GrossSales = s.GrossSales.Add(lineRevenue)
			if listing.IsConsignment() {
				s.ConsignmentSales = s.ConsignmentSales.Add(lineRevenue)
				consProfit = consProfit.Add(lineProfit)
			} else {
				s.OwnSales = s.OwnSales.Add(lineRevenue)
				ownProfit = ownProfit.Add(lineProfit)
			}
		}
	}

	// Para períodos cerrados manda el total almacenado al cierre; para
	// abiertos se usa el recálculo (equivalen mientras nada cambie).
	if !period.IsOpen() {
		ownProfit = period.TotalOwnProfit
		consProfit = period.TotalConsignmentProfit
	}

	s.NetSales = s.GrossSales.Sub(s.DiscountTotal)
	if s.NetSales.IsNegative() {
		s.NetSales = decimal.Zero
	}
	s.OwnNetProfit = prorateNet(ownProfit, s.OwnSales, s.GrossSales, s.DiscountTotal)
	s.ConsignmentNetProfit = prorateNet(consProfit, s.ConsignmentSales, s.GrossSales, s.DiscountTotal)
	return s, nil
}

// prorateNet resta a la utilidad la porción del descuento proporcional al
// peso de la categoría en las ventas brutas, recortada en cero.
func prorateNet(profit, categorySales, grossSales, discountTotal decimal.Decimal) decimal.Decimal {
	if grossSales.LessThanOrEqual(decimal.Zero) || discountTotal.IsZero() {
		if profit.IsNegative() {
			return decimal.Zero
		}
		return profit
	}
	share := discountTotal.Mul(categorySales).Div(grossSales)
	net := profit.Sub(share)
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}
