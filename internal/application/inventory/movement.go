package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tienda-pos/internal/domain"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
	dominv "github.com/tu-usuario/tienda-pos/internal/domain/inventory"
	"github.com/tu-usuario/tienda-pos/internal/domain/ledger"
	"github.com/tu-usuario/tienda-pos/internal/domain/repository"
)

// MovementInput entrada del contrato recordMovement (§ libro de inventario).
// Quantity siempre es magnitud positiva; el signo lo decide la tabla de
// dirección del paquete ledger. AllowNegative habilita existencia negativa
// transitoria (solo rutas de ajuste manual y compensaciones de cancelación).
type MovementInput struct {
	Type          ledger.MovementType
	Quantity      decimal.Decimal
	ListingID     string
	StoreID       string
	ActorID       string
	ReferenceID   *string
	Reason        *string
	UnitCost      *decimal.Decimal
	AllowNegative bool
}

// ApplyMovement aplica un movimiento dentro de la transacción del caller:
// bloquea la fila del listing (SELECT FOR UPDATE), ajusta la existencia según
// la tabla de dirección, hace el write-back de costo promedio ponderado en
// entradas con costo (COMPRA, CONSIGNACION_ENTRADA) y agrega el registro
// inmutable al libro. Lo usan el registro masivo, la venta y la cancelación;
// ninguno reimplementa lógica de signo.
func ApplyMovement(repos repository.TxRepos, in MovementInput, now time.Time) (*entity.StockMovement, error) {
	if !in.Type.Valid() || in.ListingID == "" || in.StoreID == "" || in.ActorID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}

	listing, err := repos.Listings.GetForUpdate(in.ListingID)
	if err != nil {
		return nil, err
	}
	if listing == nil || listing.StoreID != in.StoreID {
		return nil, domain.ErrNotFound
	}

	delta, err := in.Type.Delta(in.Quantity)
	if err != nil {
		return nil, err
	}
	newQty := listing.Quantity.Add(delta)
	if newQty.IsNegative() && !in.AllowNegative {
		return nil, domain.ErrInsufficientStock
	}

	mov := &entity.StockMovement{
		ID:             uuid.New().String(),
		Type:           string(in.Type),
		Quantity:       in.Quantity,
		QuantityBefore: listing.Quantity,
		ListingID:      listing.ID,
		StoreID:        in.StoreID,
		ActorID:        in.ActorID,
		ReferenceID:    in.ReferenceID,
		Reason:         in.Reason,
		CreatedAt:      now,
	}

	if in.UnitCost != nil {
		if in.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		total := in.Quantity.Mul(*in.UnitCost)
		mov.UnitCost = in.UnitCost
		mov.TotalCost = &total

		// Write-back CPP: solo entradas de mercancía con costo declarado.
		if in.Type == ledger.Compra || in.Type == ledger.ConsignacionEntrada {
			before := listing.Cost
			after := dominv.CostCalculator(listing.Quantity, listing.Cost, in.Quantity, *in.UnitCost)
			mov.CostBefore = &before
			mov.CostAfter = &after
			listing.Cost = after
		}
	}

	listing.Quantity = newQty
	listing.UpdatedAt = now
	if err := repos.Listings.Update(listing); err != nil {
		return nil, err
	}
	if err := repos.Movements.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}
