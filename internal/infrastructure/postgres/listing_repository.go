package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/tienda-pos/internal/domain"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
	"github.com/tu-usuario/tienda-pos/internal/domain/repository"
)

var _ repository.ListingRepository = (*ListingRepo)(nil)

const listingColumns = `id, store_id, product_id, quantity, cost, price, supplier_id, created_at, updated_at`

// ListingRepo implementación de ListingRepository sobre PostgreSQL (usable
// con pool o tx).
type ListingRepo struct {
	q Querier
}

// NewListingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewListingRepository(q Querier) *ListingRepo {
	return &ListingRepo{q: q}
}

func scanListing(row pgx.Row) (*entity.Listing, error) {
	var l entity.Listing
	err := row.Scan(
		&l.ID, &l.StoreID, &l.ProductID, &l.Quantity, &l.Cost, &l.Price,
		&l.SupplierID, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetByID obtiene un listing por ID. Devuelve nil si no existe.
func (r *ListingRepo) GetByID(id string) (*entity.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	l, err := scanListing(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get listing: %w", err)
	}
	return l, nil
}

// GetForUpdate obtiene el listing y bloquea la fila (SELECT FOR UPDATE).
// Serializa los ajustes de existencia dentro de la tx.
func (r *ListingRepo) GetForUpdate(id string) (*entity.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1 FOR UPDATE`
	l, err := scanListing(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get listing for update: %w", err)
	}
	return l, nil
}

// GetByStoreProduct obtiene el listing de un producto en una tienda.
func (r *ListingRepo) GetByStoreProduct(storeID, productID string) (*entity.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE store_id = $1 AND product_id = $2`
	l, err := scanListing(r.q.QueryRow(context.Background(), query, storeID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get listing by store/product: %w", err)
	}
	return l, nil
}

// Create persiste un listing nuevo. (store_id, product_id) es único.
func (r *ListingRepo) Create(listing *entity.Listing) error {
	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	query := `
		INSERT INTO listings (id, store_id, product_id, quantity, cost, price, supplier_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())`
	_, err := r.q.Exec(context.Background(), query,
		listing.ID, listing.StoreID, listing.ProductID,
		listing.Quantity, listing.Cost, listing.Price, listing.SupplierID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create listing: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("create listing: %w", err)
	}
	return nil
}

// Update persiste existencia, costo y precio del listing.
func (r *ListingRepo) Update(listing *entity.Listing) error {
	query := `
		UPDATE listings
		SET quantity = $2, cost = $3, price = $4, supplier_id = $5, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		listing.ID, listing.Quantity, listing.Cost, listing.Price, listing.SupplierID,
	)
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	return nil
}

// ListByStore lista los listings de una tienda, paginados.
func (r *ListingRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM listings WHERE store_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()
	var list []*entity.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}
