package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/andresuchdata/stockcash/internal/repository"
)

// Store is an in-memory implementation of every repository. Transactions are
// serialized and roll back by restoring a snapshot of the whole state; writes
// made outside a transaction wait for the running one to finish.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	state state
}

type state struct {
	locations []domain.Location
	suppliers []domain.Supplier
	products  []domain.Product
	inventory []domain.InventoryRecord
	sales     []domain.SalesTransaction
	settings  *domain.CashSettings
	events    []domain.CashEvent
	orders    []domain.PurchaseOrder
	nextID    int64
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{}
}

// Verify interface compliance
var _ repository.Store = (*Store)(nil)

type txKey struct{}

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.state = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// lockWrite takes the write lock, first waiting on txMu unless ctx already runs inside a transaction.
func (s *Store) lockWrite(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

func (st state) clone() state {
	c := state{
		locations: append([]domain.Location(nil), st.locations...),
		suppliers: append([]domain.Supplier(nil), st.suppliers...),
		products:  append([]domain.Product(nil), st.products...),
		inventory: append([]domain.InventoryRecord(nil), st.inventory...),
		sales:     append([]domain.SalesTransaction(nil), st.sales...),
		events:    append([]domain.CashEvent(nil), st.events...),
		nextID:    st.nextID,
	}
	if st.settings != nil {
		settings := *st.settings
		c.settings = &settings
	}
	c.orders = make([]domain.PurchaseOrder, len(st.orders))
	for i, po := range st.orders {
		c.orders[i] = po.Clone()
	}
	return c
}

func (s *Store) newID() int64 {
	s.state.nextID++
	return s.state.nextID
}

// AddLocation stores a location, assigning an id when it has none
func (s *Store) AddLocation(l domain.Location) domain.Location {
	defer s.lockWrite(context.Background())()

	if l.ID == 0 {
		l.ID = s.newID()
	}
	s.state.locations = append(s.state.locations, l)
	return l
}

// AddSupplier stores a supplier, assigning an id when it has none
func (s *Store) AddSupplier(sup domain.Supplier) domain.Supplier {
	defer s.lockWrite(context.Background())()

	if sup.ID == 0 {
		sup.ID = s.newID()
	}
	s.state.suppliers = append(s.state.suppliers, sup)
	return sup
}

// AddProduct stores a product, assigning an id when it has none
func (s *Store) AddProduct(p domain.Product) domain.Product {
	defer s.lockWrite(context.Background())()

	if p.ID == 0 {
		p.ID = s.newID()
	}
	s.state.products = append(s.state.products, p)
	return p
}

// AddInventory stores an inventory record, replacing any record for the same pair
func (s *Store) AddInventory(rec domain.InventoryRecord) domain.InventoryRecord {
	defer s.lockWrite(context.Background())()

	for i, existing := range s.state.inventory {
		if existing.ProductID == rec.ProductID && existing.LocationID == rec.LocationID {
			rec.ID = existing.ID
			s.state.inventory[i] = rec
			return rec
		}
	}

	if rec.ID == 0 {
		rec.ID = s.newID()
	}
	s.state.inventory = append(s.state.inventory, rec)
	return rec
}

// AddSale appends a sales fact
func (s *Store) AddSale(sale domain.SalesTransaction) domain.SalesTransaction {
	defer s.lockWrite(context.Background())()

	if sale.ID == 0 {
		sale.ID = s.newID()
	}
	s.state.sales = append(s.state.sales, sale)
	return sale
}

// SetCashSettings stores the settings singleton
func (s *Store) SetCashSettings(settings domain.CashSettings) {
	defer s.lockWrite(context.Background())()

	settings.Configured = true
	s.state.settings = &settings
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func between(t, from, to time.Time) bool {
	d := dateOf(t)
	return !d.Before(dateOf(from)) && !d.After(dateOf(to))
}

func sortByID[T any](items []T, id func(T) int64) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}
