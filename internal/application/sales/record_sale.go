package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tienda-pos/internal/application/discount"
	"github.com/tu-usuario/tienda-pos/internal/application/dto"
	"github.com/tu-usuario/tienda-pos/internal/application/inventory"
	"github.com/tu-usuario/tienda-pos/internal/domain"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
	"github.com/tu-usuario/tienda-pos/internal/domain/ledger"
	"github.com/tu-usuario/tienda-pos/internal/domain/repository"
)

// RecordSaleUseCase persiste una venta, sus líneas (con foto de costo),
// los descuentos aplicados y un movimiento VENTA por línea, todo en una
// transacción. AllowBackorders habilita vender sin existencia (política de
// despliegue, no del libro).
type RecordSaleUseCase struct {
	txRunner        TxRunner
	storeRepo       repository.StoreRepository
	allowBackorders bool
}

// NewRecordSaleUseCase construye el caso de uso.
func NewRecordSaleUseCase(txRunner TxRunner, storeRepo repository.StoreRepository, allowBackorders bool) *RecordSaleUseCase {
	return &RecordSaleUseCase{txRunner: txRunner, storeRepo: storeRepo, allowBackorders: allowBackorders}
}

// Record registra la venta. discountResult viene del motor de descuentos
// evaluado sobre estas mismas líneas; se verifica su consistencia interna
// antes de persistir.
func (uc *RecordSaleUseCase) Record(
	ctx context.Context,
	businessID, storeID, actorID string,
	reqLines []dto.SaleLineRequest,
	discountResult *discount.Result,
	totalCash, totalTransfer decimal.Decimal,
	transferDestinationID *string,
) (*entity.Sale, error) {
	if storeID == "" || actorID == "" || len(reqLines) == 0 || discountResult == nil {
		return nil, domain.ErrInvalidInput
	}
	for _, l := range reqLines {
		if l.ListingID == "" || !l.Quantity.IsPositive() || l.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}
	if totalCash.IsNegative() || totalTransfer.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	// El desglose debe ser internamente consistente (lo produce el motor).
	if discountResult.DiscountTotal.GreaterThan(discountResult.BaseTotal) ||
		!discountResult.FinalTotal.Equal(discountResult.BaseTotal.Sub(discountResult.DiscountTotal)) {
		return nil, domain.ErrInvalidInput
	}

	store, err := uc.storeRepo.GetByID(storeID)
	if err != nil || store == nil {
		return nil, domain.ErrNotFound
	}
	if store.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}

	total := discountResult.FinalTotal
	// Sin desglose de pago: todo en efectivo.
	if totalCash.IsZero() && totalTransfer.IsZero() {
		totalCash = total
	}
	if !totalCash.Add(totalTransfer).Equal(total) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	saleID := uuid.New().String()
	var sale *entity.Sale

	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		// El período abierto se relee con bloqueo dentro de la tx: serializa
		// contra un cierre concurrente de la misma tienda.
		period, err := repos.Periods.GetLatestForUpdate(storeID)
		if err != nil {
			return err
		}
		if period == nil || !period.IsOpen() {
			return domain.ErrNoOpenPeriod
		}

		sale = &entity.Sale{
			ID:                    saleID,
			StoreID:               storeID,
			ActorID:               actorID,
			PeriodID:              period.ID,
			Total:                 total,
			TotalCash:             totalCash,
			TotalTransfer:         totalTransfer,
			DiscountTotal:         discountResult.DiscountTotal,
			TransferDestinationID: transferDestinationID,
			CreatedAt:             now,
		}
		if err := repos.Sales.Create(sale); err != nil {
			return err
		}

		baseTotal := decimal.Zero
		for _, rl := range reqLines {
			listing, err := repos.Listings.GetForUpdate(rl.ListingID)
			if err != nil {
				return err
			}
			if listing == nil || listing.StoreID != storeID {
				return domain.ErrNotFound
			}
			price := rl.UnitPrice
			if price.IsZero() {
				price = listing.Price
			}
			baseTotal = baseTotal.Add(rl.Quantity.Mul(price))

			item := &entity.SaleLineItem{
				ID:        uuid.New().String(),
				SaleID:    saleID,
				ListingID: listing.ID,
				Quantity:  rl.Quantity,
				UnitPrice: price,
				UnitCost:  listing.Cost, // foto del costo al instante de vender
			}
			if err := repos.Sales.CreateItem(item); err != nil {
				return err
			}
			sale.Items = append(sale.Items, *item)

			if _, err := inventory.ApplyMovement(repos, inventory.MovementInput{
				Type:          ledger.Venta,
				Quantity:      rl.Quantity,
				ListingID:     listing.ID,
				StoreID:       storeID,
				ActorID:       actorID,
				ReferenceID:   &saleID,
				AllowNegative: uc.allowBackorders,
			}, now); err != nil {
				return err
			}
		}

		// El desglose de descuentos debe corresponder a estas líneas.
		if !baseTotal.Equal(discountResult.BaseTotal) {
			return domain.ErrInvalidInput
		}

		for _, a := range discountResult.Applied {
			applied := &entity.AppliedDiscount{
				ID:     uuid.New().String(),
				SaleID: saleID,
				RuleID: a.RuleID,
				Amount: a.Amount,
			}
			if err := repos.Sales.CreateAppliedDiscount(applied); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}
