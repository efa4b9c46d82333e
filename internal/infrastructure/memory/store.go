// Package memory implementa los puertos de repositorio sobre mapas en
// memoria, con un TxRunner que restaura un snapshot si el callback falla.
// Se usa en tests y en modo demo (sin PostgreSQL).
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/tienda-pos/internal/domain"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
	"github.com/tu-usuario/tienda-pos/internal/domain/repository"
)

// Store contenedor de todo el estado en memoria.
type Store struct {
	mu          sync.Mutex
	stores      map[string]*entity.Store
	products    map[string]*entity.Product
	listings    map[string]*entity.Listing
	movements   []*entity.StockMovement
	sales       map[string]*entity.Sale
	saleOrder   []string
	saleItems   map[string][]*entity.SaleLineItem
	applied     map[string][]*entity.AppliedDiscount
	periods     map[string]*entity.AccountingPeriod
	periodOrder []string
	rules       map[string]*entity.DiscountRule
	settlements map[string]*entity.SupplierSettlement
	settOrder   []string
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		stores:      map[string]*entity.Store{},
		products:    map[string]*entity.Product{},
		listings:    map[string]*entity.Listing{},
		sales:       map[string]*entity.Sale{},
		saleItems:   map[string][]*entity.SaleLineItem{},
		applied:     map[string][]*entity.AppliedDiscount{},
		periods:     map[string]*entity.AccountingPeriod{},
		rules:       map[string]*entity.DiscountRule{},
		settlements: map[string]*entity.SupplierSettlement{},
	}
}

// ── Seed helpers ──────────────────────────────────────────────────────────────

// PutStore registra una tienda.
func (s *Store) PutStore(st *entity.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *st
	s.stores[st.ID] = &c
}

// PutProduct registra un producto.
func (s *Store) PutProduct(p *entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *p
	s.products[p.ID] = &c
}

// PutListing registra un listing.
func (s *Store) PutListing(l *entity.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings[l.ID] = cloneListing(l)
}

// PutRule registra una regla de descuento.
func (s *Store) PutRule(r *entity.DiscountRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[r.ID] = cloneRule(r)
}

// PutPeriod registra un período.
func (s *Store) PutPeriod(p *entity.AccountingPeriod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.periods[p.ID] = clonePeriod(p)
	s.periodOrder = append(s.periodOrder, p.ID)
}

// ── Accesores a repositorios ──────────────────────────────────────────────────

func (s *Store) Stores() repository.StoreRepository             { return &storeRepo{s} }
func (s *Store) Products() repository.ProductRepository         { return &productRepo{s} }
func (s *Store) Listings() repository.ListingRepository         { return &listingRepo{s} }
func (s *Store) Movements() repository.StockMovementRepository  { return &movementRepo{s} }
func (s *Store) Sales() repository.SaleRepository               { return &saleRepo{s} }
func (s *Store) Periods() repository.PeriodRepository           { return &periodRepo{s} }
func (s *Store) Rules() repository.DiscountRuleRepository       { return &ruleRepo{s} }
func (s *Store) Settlements() repository.SettlementRepository   { return &settlementRepo{s} }

// TxRunner devuelve un runner que emula la transacción con un snapshot: si el
// callback falla, el estado vuelve al punto de partida.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

// TxRunner pseudo-transaccional sobre el Store.
type TxRunner struct {
	s *Store
}

// Run ejecuta fn con repos del Store; restaura el snapshot si fn falla.
func (r *TxRunner) Run(_ context.Context, fn func(repos repository.TxRepos) error) error {
	snap := r.s.snapshot()
	repos := repository.TxRepos{
		Movements:   r.s.Movements(),
		Listings:    r.s.Listings(),
		Sales:       r.s.Sales(),
		Periods:     r.s.Periods(),
		Settlements: r.s.Settlements(),
	}
	if err := fn(repos); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

type snapshotState struct {
	listings    map[string]*entity.Listing
	movements   []*entity.StockMovement
	sales       map[string]*entity.Sale
	saleOrder   []string
	saleItems   map[string][]*entity.SaleLineItem
	applied     map[string][]*entity.AppliedDiscount
	periods     map[string]*entity.AccountingPeriod
	periodOrder []string
	settlements map[string]*entity.SupplierSettlement
	settOrder   []string
}

func (s *Store) snapshot() snapshotState {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshotState{
		listings:    map[string]*entity.Listing{},
		sales:       map[string]*entity.Sale{},
		saleItems:   map[string][]*entity.SaleLineItem{},
		applied:     map[string][]*entity.AppliedDiscount{},
		periods:     map[string]*entity.AccountingPeriod{},
		settlements: map[string]*entity.SupplierSettlement{},
	}
	for id, l := range s.listings {
		snap.listings[id] = cloneListing(l)
	}
	snap.movements = append(snap.movements, s.movements...)
	for id, sale := range s.sales {
		snap.sales[id] = cloneSale(sale)
	}
	snap.saleOrder = append(snap.saleOrder, s.saleOrder...)
	for id, items := range s.saleItems {
		snap.saleItems[id] = append([]*entity.SaleLineItem{}, items...)
	}
	for id, a := range s.applied {
		snap.applied[id] = append([]*entity.AppliedDiscount{}, a...)
	}
	for id, p := range s.periods {
		snap.periods[id] = clonePeriod(p)
	}
	snap.periodOrder = append(snap.periodOrder, s.periodOrder...)
	for id, st := range s.settlements {
		snap.settlements[id] = cloneSettlement(st)
	}
	snap.settOrder = append(snap.settOrder, s.settOrder...)
	return snap
}

func (s *Store) restore(snap snapshotState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings = snap.listings
	s.movements = snap.movements
	s.sales = snap.sales
	s.saleOrder = snap.saleOrder
	s.saleItems = snap.saleItems
	s.applied = snap.applied
	s.periods = snap.periods
	s.periodOrder = snap.periodOrder
	s.settlements = snap.settlements
	s.settOrder = snap.settOrder
}

// ── Clones ────────────────────────────────────────────────────────────────────

func cloneListing(l *entity.Listing) *entity.Listing {
	c := *l
	if l.SupplierID != nil {
		v := *l.SupplierID
		c.SupplierID = &v
	}
	return &c
}

func cloneSale(s *entity.Sale) *entity.Sale {
	c := *s
	if s.TransferDestinationID != nil {
		v := *s.TransferDestinationID
		c.TransferDestinationID = &v
	}
	c.Items = append([]entity.SaleLineItem{}, s.Items...)
	return &c
}

func clonePeriod(p *entity.AccountingPeriod) *entity.AccountingPeriod {
	c := *p
	if p.ClosedAt != nil {
		v := *p.ClosedAt
		c.ClosedAt = &v
	}
	return &c
}

func cloneSettlement(s *entity.SupplierSettlement) *entity.SupplierSettlement {
	c := *s
	if s.LiquidatedAt != nil {
		v := *s.LiquidatedAt
		c.LiquidatedAt = &v
	}
	return &c
}

func cloneRule(r *entity.DiscountRule) *entity.DiscountRule {
	c := *r
	if r.Code != nil {
		v := *r.Code
		c.Code = &v
	}
	if r.MinSubtotal != nil {
		v := *r.MinSubtotal
		c.MinSubtotal = &v
	}
	if r.StartDate != nil {
		v := *r.StartDate
		c.StartDate = &v
	}
	if r.EndDate != nil {
		v := *r.EndDate
		c.EndDate = &v
	}
	c.ProductIDs = append([]string{}, r.ProductIDs...)
	c.CategoryIDs = append([]string{}, r.CategoryIDs...)
	c.CustomerIDs = append([]string{}, r.CustomerIDs...)
	return &c
}

// ── Stores / Products ─────────────────────────────────────────────────────────

type storeRepo struct{ s *Store }

func (r *storeRepo) GetByID(id string) (*entity.Store, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.stores[id]
	if !ok {
		return nil, nil
	}
	c := *st
	return &c, nil
}

type productRepo struct{ s *Store }

func (r *productRepo) GetByID(id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *productRepo) ListByIDs(ids []string) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			c := *p
			out = append(out, &c)
		}
	}
	return out, nil
}

// ── Listings ──────────────────────────────────────────────────────────────────

type listingRepo struct{ s *Store }

func (r *listingRepo) GetByID(id string) (*entity.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.listings[id]
	if !ok {
		return nil, nil
	}
	return cloneListing(l), nil
}

// GetForUpdate no bloquea: el TxRunner en memoria serializa con el snapshot.
func (r *listingRepo) GetForUpdate(id string) (*entity.Listing, error) {
	return r.GetByID(id)
}

func (r *listingRepo) GetByStoreProduct(storeID, productID string) (*entity.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.listings {
		if l.StoreID == storeID && l.ProductID == productID {
			return cloneListing(l), nil
		}
	}
	return nil, nil
}

func (r *listingRepo) Create(listing *entity.Listing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	for _, l := range r.s.listings {
		if l.StoreID == listing.StoreID && l.ProductID == listing.ProductID {
			return domain.ErrDuplicate
		}
	}
	r.s.listings[listing.ID] = cloneListing(listing)
	return nil
}

func (r *listingRepo) Update(listing *entity.Listing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.listings[listing.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.listings[listing.ID] = cloneListing(listing)
	return nil
}

func (r *listingRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Listing
	for _, l := range r.s.listings {
		if l.StoreID == storeID {
			out = append(out, cloneListing(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// ── Movimientos ───────────────────────────────────────────────────────────────

type movementRepo struct{ s *Store }

func (r *movementRepo) Create(m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	c := *m
	r.s.movements = append(r.s.movements, &c)
	return nil
}

func (r *movementRepo) ListByReference(referenceID string) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.ReferenceID != nil && *m.ReferenceID == referenceID {
			c := *m
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *movementRepo) ListByListing(listingID string, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockMovement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		if r.s.movements[i].ListingID == listingID {
			c := *r.s.movements[i]
			out = append(out, &c)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// ── Ventas ────────────────────────────────────────────────────────────────────

type saleRepo struct{ s *Store }

func (r *saleRepo) Create(sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	r.s.sales[sale.ID] = cloneSale(sale)
	r.s.saleOrder = append(r.s.saleOrder, sale.ID)
	return nil
}

func (r *saleRepo) CreateItem(item *entity.SaleLineItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	c := *item
	r.s.saleItems[item.SaleID] = append(r.s.saleItems[item.SaleID], &c)
	return nil
}

func (r *saleRepo) CreateAppliedDiscount(applied *entity.AppliedDiscount) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if applied.ID == "" {
		applied.ID = uuid.New().String()
	}
	c := *applied
	r.s.applied[applied.SaleID] = append(r.s.applied[applied.SaleID], &c)
	return nil
}

func (r *saleRepo) GetByID(id string) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	return cloneSale(sale), nil
}

func (r *saleRepo) GetItems(saleID string) ([]*entity.SaleLineItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.SaleLineItem
	for _, it := range r.s.saleItems[saleID] {
		c := *it
		out = append(out, &c)
	}
	return out, nil
}

func (r *saleRepo) ListAppliedBySale(saleID string) ([]*entity.AppliedDiscount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.AppliedDiscount
	for _, a := range r.s.applied[saleID] {
		c := *a
		out = append(out, &c)
	}
	return out, nil
}

func (r *saleRepo) ListByPeriod(periodID string) ([]*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Sale
	for _, id := range r.s.saleOrder {
		sale, ok := r.s.sales[id]
		if !ok || sale.PeriodID != periodID {
			continue
		}
		c := cloneSale(sale)
		c.Items = nil
		for _, it := range r.s.saleItems[id] {
			c.Items = append(c.Items, *it)
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *saleRepo) DeleteAppliedDiscounts(saleID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.applied, saleID)
	return nil
}

func (r *saleRepo) DeleteItems(saleID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.saleItems, saleID)
	return nil
}

func (r *saleRepo) Delete(saleID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.sales, saleID)
	for i, id := range r.s.saleOrder {
		if id == saleID {
			r.s.saleOrder = append(r.s.saleOrder[:i], r.s.saleOrder[i+1:]...)
			break
		}
	}
	return nil
}

// ── Períodos ──────────────────────────────────────────────────────────────────

type periodRepo struct{ s *Store }

func (r *periodRepo) GetByID(id string) (*entity.AccountingPeriod, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.periods[id]
	if !ok {
		return nil, nil
	}
	return clonePeriod(p), nil
}

func (r *periodRepo) latestLocked(storeID string) *entity.AccountingPeriod {
	var latest *entity.AccountingPeriod
	for _, id := range r.s.periodOrder {
		p, ok := r.s.periods[id]
		if !ok || p.StoreID != storeID {
			continue
		}
		if latest == nil || p.StartedAt.After(latest.StartedAt) || p.StartedAt.Equal(latest.StartedAt) {
			latest = p
		}
	}
	return latest
}

func (r *periodRepo) GetLatestByStore(storeID string) (*entity.AccountingPeriod, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p := r.latestLocked(storeID)
	if p == nil {
		return nil, nil
	}
	return clonePeriod(p), nil
}

// GetLatestForUpdate no bloquea: el TxRunner en memoria serializa con el
// snapshot.
func (r *periodRepo) GetLatestForUpdate(storeID string) (*entity.AccountingPeriod, error) {
	return r.GetLatestByStore(storeID)
}

func (r *periodRepo) Create(period *entity.AccountingPeriod) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if period.ID == "" {
		period.ID = uuid.New().String()
	}
	r.s.periods[period.ID] = clonePeriod(period)
	r.s.periodOrder = append(r.s.periodOrder, period.ID)
	return nil
}

func (r *periodRepo) Close(period *entity.AccountingPeriod) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.periods[period.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if existing.ClosedAt != nil {
		return domain.ErrPeriodClosed
	}
	r.s.periods[period.ID] = clonePeriod(period)
	return nil
}

// ── Reglas de descuento ───────────────────────────────────────────────────────

type ruleRepo struct{ s *Store }

func (r *ruleRepo) Create(rule *entity.DiscountRule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	if rule.Code != nil {
		for _, existing := range r.s.rules {
			if existing.BusinessID == rule.BusinessID && existing.Code != nil && *existing.Code == *rule.Code {
				return domain.ErrDuplicate
			}
		}
	}
	r.s.rules[rule.ID] = cloneRule(rule)
	return nil
}

func (r *ruleRepo) GetByID(id string) (*entity.DiscountRule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rule, ok := r.s.rules[id]
	if !ok {
		return nil, nil
	}
	return cloneRule(rule), nil
}

func (r *ruleRepo) ListActiveByBusiness(businessID string) ([]*entity.DiscountRule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.DiscountRule
	for _, rule := range r.s.rules {
		if rule.BusinessID == businessID && rule.IsActive {
			out = append(out, cloneRule(rule))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *ruleRepo) ListByBusiness(businessID string, limit, offset int) ([]*entity.DiscountRule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.DiscountRule
	for _, rule := range r.s.rules {
		if rule.BusinessID == businessID {
			out = append(out, cloneRule(rule))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *ruleRepo) Deactivate(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rule, ok := r.s.rules[id]
	if !ok {
		return domain.ErrNotFound
	}
	rule.IsActive = false
	return nil
}

// ── Liquidaciones ─────────────────────────────────────────────────────────────

type settlementRepo struct{ s *Store }

func (r *settlementRepo) Create(settlement *entity.SupplierSettlement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	for _, existing := range r.s.settlements {
		if existing.PeriodID == settlement.PeriodID &&
			existing.SupplierID == settlement.SupplierID &&
			existing.ProductID == settlement.ProductID {
			return domain.ErrDuplicate
		}
	}
	r.s.settlements[settlement.ID] = cloneSettlement(settlement)
	r.s.settOrder = append(r.s.settOrder, settlement.ID)
	return nil
}

func (r *settlementRepo) GetByID(id string) (*entity.SupplierSettlement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	settlement, ok := r.s.settlements[id]
	if !ok {
		return nil, nil
	}
	return cloneSettlement(settlement), nil
}

func (r *settlementRepo) ListByPeriod(periodID string) ([]*entity.SupplierSettlement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.SupplierSettlement
	for _, id := range r.s.settOrder {
		if settlement, ok := r.s.settlements[id]; ok && settlement.PeriodID == periodID {
			out = append(out, cloneSettlement(settlement))
		}
	}
	return out, nil
}

func (r *settlementRepo) MarkLiquidated(id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	settlement, ok := r.s.settlements[id]
	if !ok {
		return domain.ErrNotFound
	}
	if settlement.LiquidatedAt != nil {
		return domain.ErrConflict
	}
	t := at
	settlement.LiquidatedAt = &t
	return nil
}
