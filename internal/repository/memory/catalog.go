package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/andresuchdata/stockcash/internal/domain"
)

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]domain.Product(nil), s.state.products...)
	sortByID(out, func(p domain.Product) int64 { return p.ID })
	return out, nil
}

func (s *Store) GetProductsByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	var out []domain.Product
	for _, p := range s.state.products {
		if _, ok := wanted[p.ID]; ok {
			out = append(out, p)
		}
	}
	sortByID(out, func(p domain.Product) int64 { return p.ID })
	return out, nil
}

func (s *Store) ListLocations(ctx context.Context) ([]domain.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]domain.Location(nil), s.state.locations...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]domain.Supplier(nil), s.state.suppliers...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetSupplier(ctx context.Context, id int64) (*domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sup := range s.state.suppliers {
		if sup.ID == id {
			found := sup
			return &found, nil
		}
	}
	return nil, fmt.Errorf("supplier %d: %w", id, domain.ErrNotFound)
}

func (s *Store) productByID(id int64) (domain.Product, bool) {
	for _, p := range s.state.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (s *Store) supplierByID(id int64) (domain.Supplier, bool) {
	for _, sup := range s.state.suppliers {
		if sup.ID == id {
			return sup, true
		}
	}
	return domain.Supplier{}, false
}

func (s *Store) locationByID(id int64) (domain.Location, bool) {
	for _, l := range s.state.locations {
		if l.ID == id {
			return l, true
		}
	}
	return domain.Location{}, false
}
