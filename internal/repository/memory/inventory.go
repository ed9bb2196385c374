package memory

import (
	"context"
	"fmt"

	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/shopspring/decimal"
)

// ListInventoryRows joins inventory with product, supplier and location the way the SQL
// inner joins do: records with dangling references are left out.
func (s *Store) ListInventoryRows(ctx context.Context, filter domain.InventoryFilter) ([]domain.InventoryRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []domain.InventoryRow
	for _, rec := range s.state.inventory {
		if filter.LocationID != nil && rec.LocationID != *filter.LocationID {
			continue
		}

		product, ok := s.productByID(rec.ProductID)
		if !ok {
			continue
		}
		if filter.SupplierID != nil && product.SupplierID != *filter.SupplierID {
			continue
		}
		supplier, ok := s.supplierByID(product.SupplierID)
		if !ok {
			continue
		}
		location, ok := s.locationByID(rec.LocationID)
		if !ok {
			continue
		}

		rows = append(rows, domain.InventoryRow{
			ID:               rec.ID,
			ProductID:        rec.ProductID,
			LocationID:       rec.LocationID,
			OnHand:           rec.OnHand,
			OnOrder:          rec.OnOrder,
			InventoryAgeDays: rec.InventoryAgeDays,
			SKU:              product.SKU,
			ProductName:      product.Name,
			Category:         product.Category,
			UnitCost:         product.UnitCost,
			UnitPrice:        product.UnitPrice,
			LocationName:     location.Name,
			SupplierID:       supplier.ID,
			SupplierName:     supplier.Name,
			LeadTimeDays:     supplier.LeadTimeDays,
		})
	}

	sortByID(rows, func(r domain.InventoryRow) int64 { return r.ID })
	return rows, nil
}

func (s *Store) GetInventory(ctx context.Context, productID, locationID int64) (*domain.InventoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.state.inventory {
		if rec.ProductID == productID && rec.LocationID == locationID {
			found := rec
			return &found, nil
		}
	}
	return nil, fmt.Errorf("inventory for product %d at location %d: %w", productID, locationID, domain.ErrNotFound)
}

func (s *Store) ApplyReceipt(ctx context.Context, productID, locationID int64, qty int) (bool, error) {
	defer s.lockWrite(ctx)()

	for i := range s.state.inventory {
		rec := &s.state.inventory[i]
		if rec.ProductID != productID || rec.LocationID != locationID {
			continue
		}

		rec.OnHand += qty
		rec.OnOrder -= qty
		if rec.OnOrder < 0 {
			rec.OnOrder = 0
		}
		rec.InventoryAgeDays = 0
		return true, nil
	}
	return false, nil
}

func (s *Store) InventoryValue(ctx context.Context) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, rec := range s.state.inventory {
		product, ok := s.productByID(rec.ProductID)
		if !ok {
			continue
		}
		total = total.Add(product.UnitCost.Mul(decimal.NewFromInt(int64(rec.OnHand))))
	}
	return total, nil
}
