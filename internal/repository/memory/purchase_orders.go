package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/andresuchdata/stockcash/internal/domain"
)

func (s *Store) ListPurchaseOrders(ctx context.Context) ([]domain.PurchaseOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.PurchaseOrder, 0, len(s.state.orders))
	for _, po := range s.state.orders {
		out = append(out, po.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) ListPurchaseOrdersByStatus(ctx context.Context, statuses []domain.POStatus) ([]domain.PurchaseOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.PurchaseOrder
	for _, po := range s.state.orders {
		for _, st := range statuses {
			if po.Status == st {
				header := po.Clone()
				header.Lines = nil
				out = append(out, header)
				break
			}
		}
	}
	sortByID(out, func(po domain.PurchaseOrder) int64 { return po.ID })
	return out, nil
}

func (s *Store) GetPurchaseOrder(ctx context.Context, id int64) (*domain.PurchaseOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, po := range s.state.orders {
		if po.ID == id {
			found := po.Clone()
			return &found, nil
		}
	}
	return nil, fmt.Errorf("purchase order %d: %w", id, domain.ErrNotFound)
}

func (s *Store) CreatePurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) error {
	defer s.lockWrite(ctx)()

	for _, existing := range s.state.orders {
		if existing.PONumber == po.PONumber {
			return fmt.Errorf("purchase order number %s already exists: %w", po.PONumber, domain.ErrValidation)
		}
	}

	now := time.Now()
	po.ID = s.newID()
	po.CreatedAt = now
	po.UpdatedAt = now
	for i := range po.Lines {
		po.Lines[i].ID = s.newID()
		po.Lines[i].PurchaseOrderID = po.ID
	}

	s.state.orders = append(s.state.orders, po.Clone())
	return nil
}

func (s *Store) UpdatePurchaseOrderStatus(ctx context.Context, po *domain.PurchaseOrder, from domain.POStatus) error {
	defer s.lockWrite(ctx)()

	for i := range s.state.orders {
		stored := &s.state.orders[i]
		if stored.ID != po.ID {
			continue
		}
		if stored.Status != from {
			return fmt.Errorf("purchase order %d is no longer %s: %w", po.ID, from, domain.ErrInvalidTransition)
		}

		updated := po.Clone()
		stored.Status = updated.Status
		stored.OrderedAt = updated.OrderedAt
		stored.ReceivedAt = updated.ReceivedAt
		stored.UpdatedAt = time.Now()
		po.UpdatedAt = stored.UpdatedAt
		return nil
	}
	return fmt.Errorf("purchase order %d: %w", po.ID, domain.ErrNotFound)
}
